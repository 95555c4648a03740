package providers

import (
	"context"

	"github.com/zatekoja/emergencyassist/backend/internal/domain/entities"
)

// FacilityCategoryHospital is the only category the lookup service searches.
const FacilityCategoryHospital = "hospital"

// NearbySearch describes a single circular geofence query.
type NearbySearch struct {
	Center       entities.GeoPoint
	RadiusMeters int
	Limit        int
	Category     string
}

// PlacesProvider defines the interface for places-search services.
// Implementations map their own response schema into HospitalCandidate and
// leave placeholder names/addresses empty for the service to fill.
type PlacesProvider interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// SearchNearby returns raw candidates inside the geofence, at most Limit
	SearchNearby(ctx context.Context, query NearbySearch) ([]entities.HospitalCandidate, error)
}
