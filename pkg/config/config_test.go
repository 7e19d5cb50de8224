package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "kings_tech_registrations", cfg.Storage.Key)
	assert.Equal(t, "Kingsman", cfg.Gate.Password)
	assert.Equal(t, 500*time.Millisecond, cfg.Gate.Delay)
	assert.Equal(t, 800*time.Millisecond, cfg.Registration.SubmitDelay)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.PollInterval)
	assert.Equal(t, NotifierDriverLocal, cfg.Dashboard.NotifierDriver)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("SUBMIT_DELAY", "0s")
	t.Setenv("DASHBOARD_POLL_INTERVAL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, ,https://rh.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverRedis, cfg.Storage.Driver)
	assert.Equal(t, time.Duration(0), cfg.Registration.SubmitDelay)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.PollInterval)
	assert.Equal(t, []string{"http://localhost:5173", "https://rh.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/Invalid"}
	assert.Equal(t, time.UTC, cfg.Location())

	var nilCfg *Config
	assert.Equal(t, time.UTC, nilCfg.Location())
}
