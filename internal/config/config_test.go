package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 3, cfg.Dialogue.MaxAlternatives)
	assert.Zero(t, cfg.Dialogue.MaxSlotDistance)
	assert.Equal(t, time.Hour, cfg.Dialogue.InterviewLength)
	assert.Equal(t, "@every 1h", cfg.Janitor.Schedule)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Empty(t, cfg.StaticTokens)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/scheduler")
	t.Setenv("STATIC_TOKENS", "alpha, beta,")
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("DIALOGUE_MAX_SLOT_DISTANCE", "48h")
	t.Setenv("TIMEZONE", "Asia/Kolkata")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://localhost/scheduler", cfg.DatabaseURL)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.StaticTokens)
	assert.Equal(t, "client", cfg.Google.ClientID)
	assert.Equal(t, 48*time.Hour, cfg.Dialogue.MaxSlotDistance)
	assert.Equal(t, "Asia/Kolkata", cfg.Location.String())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
company: Acme
dialogue:
  max-alternatives: 5
janitor:
  schedule: "*/10 * * * *"
`), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", cfg.Company)
	assert.Equal(t, 5, cfg.Dialogue.MaxAlternatives)
	assert.Equal(t, "*/10 * * * *", cfg.Janitor.Schedule)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "PORT", "http"},
		{"timezone", "TIMEZONE", "Mars/Olympus"},
		{"alternatives", "DIALOGUE_MAX_ALTERNATIVES", "0"},
		{"distance", "DIALOGUE_MAX_SLOT_DISTANCE", "-1h"},
		{"schedule", "JANITOR_SCHEDULE", "whenever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(viper.New(), "")
			assert.Error(t, err)
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", Truncate("  hello ", 10))
	assert.Equal(t, "hel...", Truncate("hello", 3))
	assert.Empty(t, Truncate("hello", 0))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	l, err := NewLogger(true, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))
}
