package places

import (
	"context"

	"github.com/zatekoja/emergencyassist/backend/internal/domain/entities"
	"github.com/zatekoja/emergencyassist/backend/internal/domain/providers"
)

// MockPlacesProvider returns fixed hospitals around the query center for local runs.
type MockPlacesProvider struct{}

// NewMockPlacesProvider creates a new mock places provider.
func NewMockPlacesProvider() *MockPlacesProvider {
	return &MockPlacesProvider{}
}

// Name returns the provider name.
func (m *MockPlacesProvider) Name() string {
	return "mock"
}

// SearchNearby returns mock hospitals offset from the center, unsorted.
func (m *MockPlacesProvider) SearchNearby(ctx context.Context, query providers.NearbySearch) ([]entities.HospitalCandidate, error) {
	c := query.Center
	candidates := []entities.HospitalCandidate{
		{
			Name:      "Mock General Hospital",
			Address:   "12 Healthcare Blvd",
			Latitude:  floatPtr(c.Latitude + 0.02),
			Longitude: floatPtr(c.Longitude + 0.02),
		},
		{
			Name:      "Mock Teaching Hospital",
			Address:   "45 Medical Ave",
			Latitude:  floatPtr(c.Latitude - 0.005),
			Longitude: floatPtr(c.Longitude + 0.004),
		},
		{
			Address: "Unknown Road",
		},
		{
			Name:      "Mock Emergency Centre",
			Latitude:  floatPtr(c.Latitude + 0.01),
			Longitude: floatPtr(c.Longitude - 0.01),
		},
	}

	if query.Limit > 0 && len(candidates) > query.Limit {
		candidates = candidates[:query.Limit]
	}
	return candidates, nil
}
