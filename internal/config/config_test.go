package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("ACCESS_TOKEN_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.AppConfig.Address())
	assert.Equal(t, time.Hour, cfg.JWTConfig.AccessTTL)
	assert.Equal(t, "navigateBd", cfg.MongoConfig.Database)
	assert.Equal(t, []string{"*"}, cfg.CORSConfig.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TTL", "30m")
	t.Setenv("MONGODB_DATABASE", "navigateBdTest")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://navigate-bd.web.app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppConfig.Address())
	assert.Equal(t, 30*time.Minute, cfg.JWTConfig.AccessTTL)
	assert.Equal(t, "navigateBdTest", cfg.MongoConfig.Database)
	assert.Equal(t,
		[]string{"http://localhost:5173", "https://navigate-bd.web.app"},
		cfg.CORSConfig.AllowedOrigins,
	)
}

func TestLoadMissingMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("ACCESS_TOKEN_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("ACCESS_TOKEN_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TTL", "one hour")

	_, err := Load()
	assert.Error(t, err)
}

func TestAddressPassthroughColon(t *testing.T) {
	a := AppConfig{Port: ":7000"}
	assert.Equal(t, ":7000", a.Address())
}
