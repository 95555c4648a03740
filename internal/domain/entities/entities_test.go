package entities

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoPoint_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		point GeoPoint
		want  bool
	}{
		{"origin", GeoPoint{0, 0}, true},
		{"lagos", GeoPoint{6.5244, 3.3792}, true},
		{"poles and antimeridian", GeoPoint{-90, 180}, true},
		{"latitude out of range", GeoPoint{1000, 0}, false},
		{"longitude out of range", GeoPoint{0, -180.0001}, false},
		{"nan", GeoPoint{math.NaN(), 0}, false},
		{"inf", GeoPoint{0, math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.point.IsValid())
		})
	}
}

func TestHospitalCandidate_Point(t *testing.T) {
	lat, lon, nan := 6.5, 3.3, math.NaN()

	p, ok := HospitalCandidate{Latitude: &lat, Longitude: &lon}.Point()
	assert.True(t, ok)
	assert.Equal(t, GeoPoint{Latitude: 6.5, Longitude: 3.3}, p)

	_, ok = HospitalCandidate{Latitude: &lat}.Point()
	assert.False(t, ok)

	_, ok = HospitalCandidate{Latitude: &nan, Longitude: &lon}.Point()
	assert.False(t, ok)
}

func TestSeverity_IsKnown(t *testing.T) {
	assert.True(t, SeverityCritical.IsKnown())
	assert.True(t, SeverityUnknown.IsKnown())
	assert.False(t, Severity("SEVERE").IsKnown())
}

func TestDegradedTriageResult(t *testing.T) {
	result := DegradedTriageResult("Call an ambulance now")

	assert.Equal(t, SeverityUnknown, result.Severity)
	assert.Equal(t, "Call an ambulance now", result.Explanation)
	assert.Equal(t, FallbackRecommendedAction, result.RecommendedAction)
}
