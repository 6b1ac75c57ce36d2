package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("FLIGHT_PROVIDER", "")
	t.Setenv("FLIGHT_OPTIONS_PER_LEG", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, FlightProviderSerpAPI, cfg.FlightProvider)
	assert.Equal(t, 5, cfg.FlightOptionsPerLeg)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.InDelta(t, 0.2, cfg.LLMTemperature, 1e-9)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("FLIGHT_PROVIDER", "Amadeus")
	t.Setenv("FLIGHT_OPTIONS_PER_LEG", "3")
	t.Setenv("FLIGHT_SEARCH_RATE", "0.5")
	t.Setenv("READ_TIMEOUT", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, FlightProviderAmadeus, cfg.FlightProvider)
	assert.Equal(t, 3, cfg.FlightOptionsPerLeg)
	assert.InDelta(t, 0.5, cfg.FlightSearchRate, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout, "unparsable values fall back to the default")
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	t.Setenv("FLIGHT_PROVIDER", "skyscanner")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skyscanner")
}

func TestValidateRejectsNonPositiveLimits(t *testing.T) {
	cfg := &Config{FlightProvider: FlightProviderSerpAPI, FlightOptionsPerLeg: 1, FlightSearchParallel: 0, FlightSearchRate: 1}
	assert.Error(t, cfg.Validate())

	cfg.FlightSearchParallel = 1
	cfg.FlightSearchRate = 0
	assert.Error(t, cfg.Validate())

	cfg.FlightSearchRate = 1
	assert.NoError(t, cfg.Validate())
}
