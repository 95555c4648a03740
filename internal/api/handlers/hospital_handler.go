package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/emergencyassist/backend/internal/domain/entities"
	"github.com/zatekoja/emergencyassist/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/emergencyassist/backend/pkg/errors"
)

const (
	msgFetchHospitalsFailed = "Failed to fetch hospitals."
	msgMissingCoordinates   = "Missing coordinates."
)

// HospitalService is the part of the hospital lookup service the handler needs.
type HospitalService interface {
	ResolveOrigin(reading *entities.GeoPoint) (entities.GeoPoint, error)
	FindNearby(ctx context.Context, origin entities.GeoPoint, radiusMeters, limit int) ([]entities.RankedHospital, error)
}

// HospitalHandler handles nearby hospital lookups
type HospitalHandler struct {
	service      HospitalService
	radiusMeters int
	limit        int
}

// NewHospitalHandler creates a new hospital handler searching radiusMeters
// around the caller and returning at most limit hospitals.
func NewHospitalHandler(service HospitalService, radiusMeters, limit int) *HospitalHandler {
	return &HospitalHandler{
		service:      service,
		radiusMeters: radiusMeters,
		limit:        limit,
	}
}

// HospitalResponse is one entry of the nearby hospitals list. Distance is in
// meters; missing values are encoded as null.
type HospitalResponse struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Distance *float64 `json:"distance"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

// NearbyHospitals handles GET /nearby-hospitals?lat=...&lon=...
func (h *HospitalHandler) NearbyHospitals(w http.ResponseWriter, r *http.Request) {
	reading, err := parseReading(r)
	if err != nil {
		respondWithAppError(w, err, msgFetchHospitalsFailed)
		return
	}

	origin, err := h.service.ResolveOrigin(reading)
	if err != nil {
		respondWithAppError(w, err, msgFetchHospitalsFailed)
		return
	}

	ctx := context.WithoutCancel(r.Context())

	hospitals, err := h.service.FindNearby(ctx, origin, h.radiusMeters, h.limit)
	if err != nil {
		if !apperrors.IsInvalidInput(err) {
			observability.LoggerFromContext(ctx).Error().Err(err).Msg("Nearby hospital lookup failed")
		}
		respondWithAppError(w, err, msgFetchHospitalsFailed)
		return
	}

	response := make([]HospitalResponse, 0, len(hospitals))
	for _, hospital := range hospitals {
		response = append(response, HospitalResponse{
			Name:     hospital.Name,
			Address:  hospital.Address,
			Distance: finiteOrNil(hospital.DistanceMeters),
			Lat:      finiteOrNil(hospital.Latitude),
			Lon:      finiteOrNil(hospital.Longitude),
		})
	}

	respondWithJSON(w, http.StatusOK, response)
}

// parseReading returns nil when the client sent neither coordinate. A partial
// or non-numeric pair is rejected.
func parseReading(r *http.Request) (*entities.GeoPoint, error) {
	latStr := strings.TrimSpace(r.URL.Query().Get("lat"))
	lonStr := strings.TrimSpace(r.URL.Query().Get("lon"))
	if latStr == "" && lonStr == "" {
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	point := entities.GeoPoint{Latitude: lat, Longitude: lon}
	if latErr != nil || lonErr != nil || !point.IsFinite() {
		return nil, apperrors.NewInvalidInputError(msgMissingCoordinates)
	}
	return &point, nil
}

func finiteOrNil(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}
