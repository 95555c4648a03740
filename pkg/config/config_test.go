package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "PLACES_PROVIDER", "OPENROUTER_MODEL", "PLACES_RADIUS_METERS",
		"PLACES_LIMIT", "DEFAULT_LATITUDE", "DEFAULT_LONGITUDE", "TRIAGE_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, "geoapify", cfg.Places.Provider)
	assert.Equal(t, 5000, cfg.Places.RadiusMeters)
	assert.Equal(t, 5, cfg.Places.Limit)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.Triage.Model)
	assert.Equal(t, 20*time.Second, cfg.Triage.Timeout)
	assert.False(t, cfg.Location.HasDefault)
}

func TestLoad_ProviderKeys(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("GEOAPIFY_API_KEY", "geo-key")
	t.Setenv("PORT", "8080")
	t.Setenv("PLACES_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "or-key", cfg.Triage.APIKey)
	assert.Equal(t, "geo-key", cfg.Places.PlacesAPIKey())
	assert.True(t, cfg.Places.RequiresAPIKey())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Places.Timeout)
}

func TestLoad_OverpassNeedsNoKey(t *testing.T) {
	t.Setenv("PLACES_PROVIDER", "overpass")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Places.RequiresAPIKey())
	assert.Empty(t, cfg.Places.PlacesAPIKey())
}

func TestLoad_DefaultLocation(t *testing.T) {
	t.Run("both set", func(t *testing.T) {
		t.Setenv("DEFAULT_LATITUDE", "6.5244")
		t.Setenv("DEFAULT_LONGITUDE", "3.3792")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Location.HasDefault)
		assert.InDelta(t, 6.5244, cfg.Location.DefaultLatitude, 1e-9)
		assert.InDelta(t, 3.3792, cfg.Location.DefaultLongitude, 1e-9)
	})

	t.Run("only one set", func(t *testing.T) {
		t.Setenv("DEFAULT_LATITUDE", "6.5244")
		t.Setenv("DEFAULT_LONGITUDE", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Setenv("DEFAULT_LATITUDE", "91")
		t.Setenv("DEFAULT_LONGITUDE", "0")

		_, err := Load()
		assert.Error(t, err)
	})
}
