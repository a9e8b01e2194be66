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
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)

	assert.Equal(t, 8, cfg.Attendance.WindowStartHour)
	assert.Equal(t, 0, cfg.Attendance.WindowStartMinute)
	assert.Equal(t, 8, cfg.Attendance.WindowEndHour)
	assert.Equal(t, 30, cfg.Attendance.WindowEndMinute)
	assert.False(t, cfg.Attendance.AlwaysAllow)

	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.False(t, cfg.Auth.HashPasswords)

	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 5*time.Minute, cfg.Recap.CacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ATTENDANCE_WINDOW_END_HOUR", "9")
	t.Setenv("ATTENDANCE_ALWAYS_ALLOW", "true")
	t.Setenv("AUTH_HASH_PASSWORDS", "true")
	t.Setenv("JWT_EXPIRATION", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Attendance.WindowEndHour)
	assert.True(t, cfg.Attendance.AlwaysAllow)
	assert.True(t, cfg.Auth.HashPasswords)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("1m", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("not-a-duration", time.Hour))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim("a, b"))
	assert.Equal(t, []string{"http://localhost:3000"}, splitAndTrim(" http://localhost:3000 ,"))
	assert.Nil(t, splitAndTrim(""))
}
