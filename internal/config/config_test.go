package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Only the provider token is mandatory; everything else defaults.
	t.Setenv("SCI_PINNING.PINATA_JWT", "test-jwt")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)

	assert.Equal(t, "pinata", cfg.Pinning.Provider)
	assert.Equal(t, "test-jwt", cfg.Pinning.PinataJWT)
	assert.Equal(t, "upload.json", cfg.Pinning.JSONName)
	assert.Equal(t, 60*time.Second, cfg.Pinning.UploadTimeout)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "sci-backend", cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
}

func TestLoadBareEnvFallbacks(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("PINATA_JWT", "bare-jwt")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "bare-jwt", cfg.Pinning.PinataJWT)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SCI_PINNING.PINATA_JWT", "test-jwt")
	t.Setenv("SCI_SERVER.PORT", "8080")
	t.Setenv("SCI_PINNING.JSON_NAME", "metadata.json")
	t.Setenv("SCI_PINNING.UPLOAD_TIMEOUT", "15s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "metadata.json", cfg.Pinning.JSONName)
	assert.Equal(t, 15*time.Second, cfg.Pinning.UploadTimeout)
}
