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
	overpassInterpreterURL = "https://overpass-api.de/api/interpreter"
	overpassName           = "overpass"
	overpassTimeoutSeconds = 25
)

var overpassTags = map[string]string{
	providers.FacilityCategoryHospital: `["amenity"="hospital"]`,
}

// OverpassProvider implements PlacesProvider using the OpenStreetMap Overpass API.
// It needs no API key.
type OverpassProvider struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// NewOverpassProviderWithOptions creates a provider; an empty baseURL or nil httpClient selects the defaults.
func NewOverpassProviderWithOptions(metrics *observability.Metrics, baseURL string, httpClient *http.Client) *OverpassProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = overpassInterpreterURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &OverpassProvider{
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    metrics,
	}
}

// Name returns the provider name.
func (o *OverpassProvider) Name() string {
	return overpassName
}

// SearchNearby runs an around-filter query over nodes, ways and relations.
func (o *OverpassProvider) SearchNearby(ctx context.Context, query providers.NearbySearch) ([]entities.HospitalCandidate, error) {
	tag, ok := overpassTags[query.Category]
	if !ok {
		return nil, fmt.Errorf("unsupported overpass category %q", query.Category)
	}

	form := url.Values{}
	form.Set("data", buildOverpassQuery(tag, query))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := o.httpClient.Do(req)
	if err != nil {
		observability.RecordUpstreamMetric(ctx, o.metrics, overpassName, 0, time.Since(start), err)
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("overpass request returned status %d", resp.StatusCode)
		observability.RecordUpstreamMetric(ctx, o.metrics, overpassName, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	var payload overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		observability.RecordUpstreamMetric(ctx, o.metrics, overpassName, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	observability.RecordUpstreamMetric(ctx, o.metrics, overpassName, resp.StatusCode, time.Since(start), nil)

	candidates := normalizeOverpass(payload)
	if query.Limit > 0 && len(candidates) > query.Limit {
		candidates = candidates[:query.Limit]
	}
	return candidates, nil
}

// Overpass "out N" caps the output server side; "center" gives ways and
// relations a representative point.
func buildOverpassQuery(tag string, query providers.NearbySearch) string {
	lat := strconv.FormatFloat(query.Center.Latitude, 'f', -1, 64)
	lon := strconv.FormatFloat(query.Center.Longitude, 'f', -1, 64)
	return fmt.Sprintf(
		"[out:json][timeout:%d];nwr%s(around:%d,%s,%s);out center %d;",
		overpassTimeoutSeconds, tag, query.RadiusMeters, lat, lon, query.Limit,
	)
}

func normalizeOverpass(payload overpassResponse) []entities.HospitalCandidate {
	candidates := make([]entities.HospitalCandidate, 0, len(payload.Elements))
	for _, el := range payload.Elements {
		candidate := entities.HospitalCandidate{
			Name:      strings.TrimSpace(el.Tags["name"]),
			Address:   overpassAddress(el.Tags),
			Latitude:  el.Lat.ptr(),
			Longitude: el.Lon.ptr(),
		}
		if (candidate.Latitude == nil || candidate.Longitude == nil) && el.Center != nil {
			candidate.Latitude = el.Center.Lat.ptr()
			candidate.Longitude = el.Center.Lon.ptr()
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

func overpassAddress(tags map[string]string) string {
	if full := strings.TrimSpace(tags["addr:full"]); full != "" {
		return full
	}
	street := joinNonEmpty(" ", tags["addr:housenumber"], tags["addr:street"])
	return joinNonEmpty(", ", street, tags["addr:city"], tags["addr:postcode"])
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	Lat    flexFloat         `json:"lat"`
	Lon    flexFloat         `json:"lon"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat flexFloat `json:"lat"`
	Lon flexFloat `json:"lon"`
}
