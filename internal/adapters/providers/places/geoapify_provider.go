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
	geoapifyPlacesURL  = "https://api.geoapify.com/v2/places"
	geoapifyName       = "geoapify"
	defaultHTTPTimeout = 8 * time.Second
)

var geoapifyCategories = map[string]string{
	providers.FacilityCategoryHospital: "healthcare.hospital",
}

// GeoapifyProvider implements PlacesProvider using the Geoapify Places API.
type GeoapifyProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// NewGeoapifyProviderWithOptions creates a provider; an empty baseURL or nil httpClient selects the defaults.
func NewGeoapifyProviderWithOptions(apiKey string, metrics *observability.Metrics, baseURL string, httpClient *http.Client) *GeoapifyProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = geoapifyPlacesURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GeoapifyProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    metrics,
	}
}

// Name returns the provider name.
func (g *GeoapifyProvider) Name() string {
	return geoapifyName
}

// SearchNearby queries facilities inside a circle around the query center.
func (g *GeoapifyProvider) SearchNearby(ctx context.Context, query providers.NearbySearch) ([]entities.HospitalCandidate, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("geoapify api key is required")
	}
	category, ok := geoapifyCategories[query.Category]
	if !ok {
		return nil, fmt.Errorf("unsupported geoapify category %q", query.Category)
	}

	lon := strconv.FormatFloat(query.Center.Longitude, 'f', -1, 64)
	lat := strconv.FormatFloat(query.Center.Latitude, 'f', -1, 64)

	params := url.Values{}
	params.Set("categories", category)
	params.Set("filter", fmt.Sprintf("circle:%s,%s,%d", lon, lat, query.RadiusMeters))
	params.Set("bias", fmt.Sprintf("proximity:%s,%s", lon, lat))
	params.Set("limit", strconv.Itoa(query.Limit))
	params.Set("apiKey", g.apiKey)

	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geoapify request: %w", err)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		observability.RecordUpstreamMetric(ctx, g.metrics, geoapifyName, 0, time.Since(start), err)
		return nil, fmt.Errorf("geoapify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("geoapify request returned status %d", resp.StatusCode)
		observability.RecordUpstreamMetric(ctx, g.metrics, geoapifyName, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	var payload geoapifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		observability.RecordUpstreamMetric(ctx, g.metrics, geoapifyName, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("failed to decode geoapify response: %w", err)
	}

	observability.RecordUpstreamMetric(ctx, g.metrics, geoapifyName, resp.StatusCode, time.Since(start), nil)
	return normalizeGeoapify(payload), nil
}

func normalizeGeoapify(payload geoapifyResponse) []entities.HospitalCandidate {
	candidates := make([]entities.HospitalCandidate, 0, len(payload.Features))
	for _, feature := range payload.Features {
		props := feature.Properties
		candidate := entities.HospitalCandidate{
			Name:      strings.TrimSpace(props.Name),
			Address:   strings.TrimSpace(props.Formatted),
			Latitude:  props.Lat.ptr(),
			Longitude: props.Lon.ptr(),
		}

		// GeoJSON coordinates are [lon, lat]
		if (candidate.Latitude == nil || candidate.Longitude == nil) && len(feature.Geometry.Coordinates) >= 2 {
			candidate.Longitude = feature.Geometry.Coordinates[0].ptr()
			candidate.Latitude = feature.Geometry.Coordinates[1].ptr()
		}

		candidates = append(candidates, candidate)
	}
	return candidates
}

type geoapifyResponse struct {
	Features []geoapifyFeature `json:"features"`
}

type geoapifyFeature struct {
	Properties geoapifyProperties `json:"properties"`
	Geometry   geoapifyGeometry   `json:"geometry"`
}

type geoapifyProperties struct {
	Name      string    `json:"name"`
	Formatted string    `json:"formatted"`
	Lat       flexFloat `json:"lat"`
	Lon       flexFloat `json:"lon"`
}

type geoapifyGeometry struct {
	Coordinates []flexFloat `json:"coordinates"`
}
