package places

import (
	"fmt"
	"net/http"

	"github.com/zatekoja/emergencyassist/backend/internal/domain/providers"
	"github.com/zatekoja/emergencyassist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/emergencyassist/backend/pkg/config"
)

// NewPlacesProvider builds the provider named by cfg.Provider. A missing API
// key is not an error here; the provider fails at request time instead.
func NewPlacesProvider(cfg *config.PlacesConfig, metrics *observability.Metrics) (providers.PlacesProvider, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		httpClient.Timeout = defaultHTTPTimeout
	}

	switch cfg.Provider {
	case geoapifyName, "":
		return NewGeoapifyProviderWithOptions(cfg.GeoapifyKey, metrics, cfg.BaseURL, httpClient), nil
	case overpassName:
		return NewOverpassProviderWithOptions(metrics, cfg.BaseURL, httpClient), nil
	case googleName:
		return NewGooglePlacesProviderWithOptions(cfg.GoogleKey, metrics, cfg.BaseURL, httpClient), nil
	case "mock":
		return NewMockPlacesProvider(), nil
	default:
		return nil, fmt.Errorf("unknown places provider %q", cfg.Provider)
	}
}
