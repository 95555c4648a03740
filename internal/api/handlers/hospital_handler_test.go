package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/emergencyassist/backend/internal/api/handlers"
	"github.com/zatekoja/emergencyassist/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/emergencyassist/backend/pkg/errors"
)

type stubHospitalService struct {
	defaultOrigin *entities.GeoPoint
	hospitals     []entities.RankedHospital
	err           error

	calls  int
	origin entities.GeoPoint
	radius int
	limit  int
}

func (s *stubHospitalService) ResolveOrigin(reading *entities.GeoPoint) (entities.GeoPoint, error) {
	if reading != nil {
		return *reading, nil
	}
	if s.defaultOrigin != nil {
		return *s.defaultOrigin, nil
	}
	return entities.GeoPoint{}, apperrors.NewInvalidInputError("Missing coordinates.")
}

func (s *stubHospitalService) FindNearby(ctx context.Context, origin entities.GeoPoint, radiusMeters, limit int) ([]entities.RankedHospital, error) {
	s.calls++
	s.origin = origin
	s.radius = radiusMeters
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	if !origin.IsValid() {
		return nil, apperrors.NewInvalidInputError("Invalid coordinates.")
	}
	return s.hospitals, nil
}

func ptr(v float64) *float64 { return &v }

func TestHospitalHandler_NearbyHospitals_Success(t *testing.T) {
	service := &stubHospitalService{hospitals: []entities.RankedHospital{
		{
			HospitalCandidate: entities.HospitalCandidate{Name: "City General", Address: "1 Main St", Latitude: ptr(6.53), Longitude: ptr(3.38)},
			DistanceMeters:    ptr(812.5),
		},
		{
			HospitalCandidate: entities.HospitalCandidate{Name: "Unnamed Hospital", Address: "Address unavailable"},
		},
	}}
	handler := handlers.NewHospitalHandler(service, 5000, 5)

	req := httptest.NewRequest(http.MethodGet, "/nearby-hospitals?lat=6.5244&lon=3.3792", nil)
	w := httptest.NewRecorder()

	handler.NearbyHospitals(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5000, service.radius)
	assert.Equal(t, 5, service.limit)
	assert.InDelta(t, 6.5244, service.origin.Latitude, 1e-9)
	assert.InDelta(t, 3.3792, service.origin.Longitude, 1e-9)

	assert.JSONEq(t, `[
		{"name":"City General","address":"1 Main St","distance":812.5,"lat":6.53,"lon":3.38},
		{"name":"Unnamed Hospital","address":"Address unavailable","distance":null,"lat":null,"lon":null}
	]`, w.Body.String())
}

func TestHospitalHandler_NearbyHospitals_EmptyIsArray(t *testing.T) {
	handler := handlers.NewHospitalHandler(&stubHospitalService{}, 5000, 5)

	req := httptest.NewRequest(http.MethodGet, "/nearby-hospitals?lat=0&lon=0", nil)
	w := httptest.NewRecorder()

	handler.NearbyHospitals(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHospitalHandler_NearbyHospitals_BadCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{"missing both", "", "Missing coordinates."},
		{"missing lon", "?lat=6.5", "Missing coordinates."},
		{"missing lat", "?lon=3.3", "Missing coordinates."},
		{"not a number", "?lat=abc&lon=3.3", "Missing coordinates."},
		{"nan", "?lat=NaN&lon=3.3", "Missing coordinates."},
		{"infinite", "?lat=6.5&lon=Inf", "Missing coordinates."},
		{"latitude out of range", "?lat=1000&lon=0", "Invalid coordinates."},
		{"longitude out of range", "?lat=0&lon=-181", "Invalid coordinates."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewHospitalHandler(&stubHospitalService{}, 5000, 5)

			req := httptest.NewRequest(http.MethodGet, "/nearby-hospitals"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.NearbyHospitals(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, w))
		})
	}
}

func TestHospitalHandler_NearbyHospitals_UsesDefaultOrigin(t *testing.T) {
	service := &stubHospitalService{defaultOrigin: &entities.GeoPoint{Latitude: 51.5, Longitude: -0.12}}
	handler := handlers.NewHospitalHandler(service, 5000, 5)

	req := httptest.NewRequest(http.MethodGet, "/nearby-hospitals", nil)
	w := httptest.NewRecorder()

	handler.NearbyHospitals(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, service.calls)
	assert.Equal(t, 51.5, service.origin.Latitude)
}

func TestHospitalHandler_NearbyHospitals_ProviderFailure(t *testing.T) {
	service := &stubHospitalService{err: apperrors.NewUpstreamError("places provider request failed", errors.New("status 503"))}
	handler := handlers.NewHospitalHandler(service, 5000, 5)

	req := httptest.NewRequest(http.MethodGet, "/nearby-hospitals?lat=6.5&lon=3.3", nil)
	w := httptest.NewRecorder()

	handler.NearbyHospitals(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, map[string]interface{}{"error": "Failed to fetch hospitals."}, body)
}

func TestHospitalHandler_NearbyHospitals_NonFiniteDistanceIsNull(t *testing.T) {
	service := &stubHospitalService{hospitals: []entities.RankedHospital{
		{
			HospitalCandidate: entities.HospitalCandidate{Name: "Broken Record", Address: "Somewhere", Latitude: ptr(1e308), Longitude: ptr(3.38)},
			DistanceMeters:    ptr(math.NaN()),
		},
	}}
	handler := handlers.NewHospitalHandler(service, 5000, 5)

	req := httptest.NewRequest(http.MethodGet, "/nearby-hospitals?lat=6.5&lon=3.3", nil)
	w := httptest.NewRecorder()

	handler.NearbyHospitals(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name":"Broken Record","address":"Somewhere","distance":null,"lat":1e308,"lon":3.38}]`, w.Body.String())
}
