package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-32-characters-long")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mediq-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "09:00", cfg.Scheduling.BusinessHoursStart)
	assert.Equal(t, "17:00", cfg.Scheduling.BusinessHoursEnd)
	assert.Equal(t, 30, cfg.Scheduling.DefaultSlotMins)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-32-characters-long")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("SCHEDULING_HOURS_START", "08:30")
	t.Setenv("SCHEDULING_HOURS_END", "12:00")
	t.Setenv("DB_CONN_MAX_LIFETIME", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "08:30", cfg.Scheduling.BusinessHoursStart)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsInvertedBusinessHours(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-32-characters-long")
	t.Setenv("SCHEDULING_HOURS_START", "17:00")
	t.Setenv("SCHEDULING_HOURS_END", "09:00")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEDULING_HOURS_START must be before")
}

func TestClockOf(t *testing.T) {
	h, m, err := ClockOf("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	_, _, err = ClockOf("25:00")
	assert.Error(t, err)

	_, _, err = ClockOf("0930")
	assert.Error(t, err)

	_, _, err = ClockOf("09:60")
	assert.Error(t, err)
}
