package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/emergencyassist/backend/internal/domain/entities"
	"github.com/zatekoja/emergencyassist/backend/internal/domain/providers"
	"github.com/zatekoja/emergencyassist/backend/internal/infrastructure/observability"
)

const (
	googleNearbySearchURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	googleName            = "google"
)

var googlePlaceTypes = map[string]string{
	providers.FacilityCategoryHospital: "hospital",
}

// GooglePlacesProvider implements PlacesProvider using Google Places Nearby Search.
type GooglePlacesProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// NewGooglePlacesProviderWithOptions creates a provider; an empty baseURL or nil httpClient selects the defaults.
func NewGooglePlacesProviderWithOptions(apiKey string, metrics *observability.Metrics, baseURL string, httpClient *http.Client) *GooglePlacesProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleNearbySearchURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GooglePlacesProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    metrics,
	}
}

// Name returns the provider name.
func (g *GooglePlacesProvider) Name() string {
	return googleName
}

// SearchNearby queries places of the mapped type within the radius.
func (g *GooglePlacesProvider) SearchNearby(ctx context.Context, query providers.NearbySearch) ([]entities.HospitalCandidate, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google places api key is required")
	}
	placeType, ok := googlePlaceTypes[query.Category]
	if !ok {
		return nil, fmt.Errorf("unsupported google place type %q", query.Category)
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(query.Center.Latitude, 'f', -1, 64),
		strconv.FormatFloat(query.Center.Longitude, 'f', -1, 64),
	))
	params.Set("radius", strconv.Itoa(query.RadiusMeters))
	params.Set("type", placeType)
	params.Set("key", g.apiKey)

	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nearby search request: %w", err)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		observability.RecordUpstreamMetric(ctx, g.metrics, googleName, 0, time.Since(start), err)
		return nil, fmt.Errorf("nearby search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("nearby search returned status %d", resp.StatusCode)
		observability.RecordUpstreamMetric(ctx, g.metrics, googleName, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	var payload googleNearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		observability.RecordUpstreamMetric(ctx, g.metrics, googleName, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("failed to decode nearby search response: %w", err)
	}

	switch payload.Status {
	case "OK", "ZERO_RESULTS":
	default:
		err := fmt.Errorf("nearby search failed: %s", payload.Status)
		if payload.ErrorMessage != "" {
			err = fmt.Errorf("nearby search failed: %s - %s", payload.Status, payload.ErrorMessage)
		}
		observability.RecordUpstreamMetric(ctx, g.metrics, googleName, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	observability.RecordUpstreamMetric(ctx, g.metrics, googleName, resp.StatusCode, time.Since(start), nil)

	candidates := normalizeGoogle(payload)
	if query.Limit > 0 && len(candidates) > query.Limit {
		candidates = candidates[:query.Limit]
	}
	return candidates, nil
}

func normalizeGoogle(payload googleNearbySearchResponse) []entities.HospitalCandidate {
	candidates := make([]entities.HospitalCandidate, 0, len(payload.Results))
	for _, result := range payload.Results {
		address := strings.TrimSpace(result.FormattedAddress)
		if address == "" {
			address = strings.TrimSpace(result.Vicinity)
		}
		candidates = append(candidates, entities.HospitalCandidate{
			Name:      strings.TrimSpace(result.Name),
			Address:   address,
			Latitude:  result.Geometry.Location.Lat.ptr(),
			Longitude: result.Geometry.Location.Lng.ptr(),
		})
	}
	return candidates
}

type googleNearbySearchResponse struct {
	Status       string               `json:"status"`
	ErrorMessage string               `json:"error_message,omitempty"`
	Results      []googleNearbyResult `json:"results"`
}

type googleNearbyResult struct {
	PlaceID          string         `json:"place_id"`
	Name             string         `json:"name"`
	Vicinity         string         `json:"vicinity"`
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat flexFloat `json:"lat"`
	Lng flexFloat `json:"lng"`
}
