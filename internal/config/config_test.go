package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withSecret adds the settings every valid environment needs
func withSecret(environ map[string]string) map[string]string {
	out := map[string]string{"DUEL_JWT_SECRET": "s3cret"}
	for k, v := range environ {
		out[k] = v
	}
	return out
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(withSecret(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 24*time.Hour, cfg.ChallengeTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 720*time.Hour, cfg.RedisFinishedTTL)
	assert.Equal(t, "sqlite", cfg.SQLDriver)
	assert.Equal(t, "kafanski-duel", cfg.ServiceName)
	assert.Empty(t, cfg.OTLPEndpoint)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"DUEL_PORT":           "9090",
		"DUEL_STORAGE":        "redis",
		"DUEL_REDIS_URL":      "redis://cache:6379/1",
		"DUEL_JWT_SECRET":     "s3cret",
		"DUEL_JWT_AUDIENCE":   "kafana",
		"DUEL_CHALLENGE_TTL":  "2h",
		"DUEL_SWEEP_INTERVAL": "10s",
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageRedis, cfg.Storage)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "kafana", cfg.JWTAudience)
	assert.Equal(t, 2*time.Hour, cfg.ChallengeTTL)
	assert.Equal(t, 10*time.Second, cfg.SweepInterval)
}

func TestParseRejectsBadValues(t *testing.T) {
	_, err := Parse(withSecret(map[string]string{"DUEL_PORT": "not-a-number"}))
	assert.Error(t, err)

	_, err = Parse(withSecret(map[string]string{"DUEL_CHALLENGE_TTL": "forever"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := Parse(withSecret(map[string]string{"DUEL_STORAGE": "redis"}))
	assert.ErrorContains(t, err, "DUEL_REDIS_URL")

	_, err = Parse(withSecret(map[string]string{"DUEL_STORAGE": "etcd"}))
	assert.ErrorContains(t, err, "DUEL_STORAGE")

	cfg, err := Parse(withSecret(map[string]string{"DUEL_STORAGE": "sql"}))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.SQLDSN)

	_, err = Parse(withSecret(map[string]string{"DUEL_SWEEP_INTERVAL": "0s"}))
	assert.ErrorContains(t, err, "DUEL_SWEEP_INTERVAL")

	_, err = Parse(withSecret(map[string]string{"DUEL_PORT": "70000"}))
	assert.ErrorContains(t, err, "DUEL_PORT")
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	_, err := Parse(map[string]string{})
	assert.ErrorContains(t, err, "DUEL_JWT_SECRET")

	_, err = Parse(map[string]string{"DUEL_JWT_SECRET": ""})
	assert.ErrorContains(t, err, "DUEL_JWT_SECRET")

	cfg := Config{Storage: StorageMemory, Port: 8080, ChallengeTTL: time.Hour, SweepInterval: time.Minute}
	assert.ErrorContains(t, cfg.Validate(), "DUEL_JWT_SECRET")

	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DUEL_SERVICE_NAME=kafana-test\n"), 0o600))
	t.Setenv("DUEL_JWT_SECRET", "s3cret")
	t.Setenv("DUEL_SERVICE_NAME", "")
	require.NoError(t, os.Unsetenv("DUEL_SERVICE_NAME"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kafana-test", cfg.ServiceName)
}

func TestLoadEnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DUEL_PORT=7000\n"), 0o600))
	t.Setenv("DUEL_JWT_SECRET", "s3cret")
	t.Setenv("DUEL_PORT", "7100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7100, cfg.Port)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	t.Setenv("DUEL_JWT_SECRET", "s3cret")
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warning"}.SlogLevel())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "chatty"}.SlogLevel())
}
