package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	c := &Config{}
	c.applyDefaults()
	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, 300, c.Cache.TTLSeconds)
	assert.Equal(t, uint32(3), c.CircuitBreaker.MaxRequests)
	assert.Equal(t, []string{"*"}, c.Server.CORSAllowOrigins)
}

func TestValidateRequiresCredentials(t *testing.T) {
	c := &Config{}
	c.applyDefaults()
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intelligence_a")
	assert.Contains(t, err.Error(), "database.dsn")
}

func TestValidatePasses(t *testing.T) {
	c := &Config{
		IntelligenceA: IntelligenceAConfig{BaseURL: "https://a.example", BearerToken: "tok"},
		IntelligenceB: IntelligenceBConfig{BaseURL: "https://b.example", APIKey: "key"},
		Database:      DatabaseConfig{DSN: "postgres://localhost/riskscreen"},
		Watchlist:     WatchlistConfig{DSN: "postgres://localhost/riskscreen"},
	}
	assert.NoError(t, c.Validate())
}

func TestEnvOverridesApplied(t *testing.T) {
	os.Setenv("PORT", "9090")
	defer os.Unsetenv("PORT")

	c := &Config{}
	c.applyEnvOverrides()
	assert.Equal(t, "9090", c.Server.Port)
}
