package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/emergencyassist/backend/internal/domain/entities"
	"github.com/zatekoja/emergencyassist/backend/internal/domain/geo"
	"github.com/zatekoja/emergencyassist/backend/internal/domain/providers"
	"github.com/zatekoja/emergencyassist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/emergencyassist/backend/pkg/config"
	apperrors "github.com/zatekoja/emergencyassist/backend/pkg/errors"
)

const (
	msgMissingCoordinates = "Missing coordinates."
	msgInvalidCoordinates = "Invalid coordinates."
)

// HospitalService finds hospitals near a point and ranks them by distance.
type HospitalService struct {
	provider providers.PlacesProvider
	location config.LocationConfig
}

// NewHospitalService creates a new hospital lookup service.
func NewHospitalService(provider providers.PlacesProvider, location config.LocationConfig) *HospitalService {
	return &HospitalService{
		provider: provider,
		location: location,
	}
}

// ResolveOrigin returns the client reading when present, otherwise the
// configured default point. Without either the request is invalid.
func (s *HospitalService) ResolveOrigin(reading *entities.GeoPoint) (entities.GeoPoint, error) {
	if reading != nil {
		return *reading, nil
	}
	if s.location.HasDefault {
		return entities.GeoPoint{
			Latitude:  s.location.DefaultLatitude,
			Longitude: s.location.DefaultLongitude,
		}, nil
	}
	return entities.GeoPoint{}, apperrors.NewInvalidInputError(msgMissingCoordinates)
}

// FindNearby queries the places provider once, normalizes the records, ranks
// them by distance from origin and returns at most limit entries.
func (s *HospitalService) FindNearby(ctx context.Context, origin entities.GeoPoint, radiusMeters, limit int) ([]entities.RankedHospital, error) {
	ctx, span := observability.StartSpan(ctx, "HospitalService.FindNearby")
	defer span.End()

	if !origin.IsValid() {
		return nil, apperrors.NewInvalidInputError(msgInvalidCoordinates)
	}
	if radiusMeters <= 0 {
		return nil, apperrors.NewInvalidInputError("Search radius must be positive.")
	}
	if limit <= 0 {
		return nil, apperrors.NewInvalidInputError("Result limit must be positive.")
	}

	observability.SetSpanAttributes(span,
		attribute.String("places.provider", s.provider.Name()),
		attribute.Int("places.radius_m", radiusMeters),
		attribute.Int("places.limit", limit),
	)

	logger := observability.LoggerFromContext(ctx)
	logger.Debug().
		Float64("lat", origin.Latitude).
		Float64("lon", origin.Longitude).
		Msg("Searching nearby hospitals")

	candidates, err := s.provider.SearchNearby(ctx, providers.NearbySearch{
		Center:       origin,
		RadiusMeters: radiusMeters,
		Limit:        limit,
		Category:     providers.FacilityCategoryHospital,
	})
	if err != nil {
		observability.RecordError(span, err)
		logger.Error().
			Err(err).
			Str("provider", s.provider.Name()).
			Float64("lat", origin.Latitude).
			Float64("lon", origin.Longitude).
			Int("radius_m", radiusMeters).
			Msg("Places provider request failed")
		return nil, apperrors.NewUpstreamError("places provider request failed", err)
	}

	for i := range candidates {
		applyPlaceholders(&candidates[i])
	}

	ranked := geo.RankByDistance(origin, candidates)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	observability.SetSpanAttributes(span, attribute.Int("places.result_count", len(ranked)))
	return ranked, nil
}

func applyPlaceholders(c *entities.HospitalCandidate) {
	if strings.TrimSpace(c.Name) == "" {
		c.Name = entities.DefaultHospitalName
	}
	if strings.TrimSpace(c.Address) == "" {
		c.Address = entities.DefaultHospitalAddress
	}
}
