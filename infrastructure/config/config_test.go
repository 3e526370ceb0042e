package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, SessionBackendMemory, cfg.SessionBackend)
	assert.Equal(t, "ris_user", cfg.SessionKey)
	assert.Equal(t, 1000, cfg.EmotionHistoryCap)
	assert.Equal(t, 500, cfg.PADTrendCap)
	assert.Equal(t, 0, cfg.ConversationCap)
	assert.True(t, cfg.MockLatency)
	assert.Equal(t, developmentSecret, cfg.JWTSecret)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "ris.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_address: ":9090"
token_ttl: 2h
session_backend: file
session_file: /tmp/session.json
mock_latency: false
conversation_cap: 200
trust_proxy: true
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ServerAddress, "env wins over file")
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, SessionBackendFile, cfg.SessionBackend)
	assert.False(t, cfg.MockLatency)
	assert.Equal(t, 200, cfg.ConversationCap)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("production without secret", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.SessionBackend = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PADTrendCap = -1
	assert.Error(t, cfg.Validate())
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("RIS_TEST_TTL", "90")
	assert.Equal(t, 90*time.Second, getEnvDuration("RIS_TEST_TTL", time.Minute))

	t.Setenv("RIS_TEST_TTL", "bogus")
	assert.Equal(t, time.Minute, getEnvDuration("RIS_TEST_TTL", time.Minute))
}
