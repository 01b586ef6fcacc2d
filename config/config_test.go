package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost:5432/square")
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("ACTION_TOKEN_SECRET", "action")
	t.Setenv("CLIENT_ORIGIN", "https://projectsquare.online")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15, cfg.AccessExpiryMin)
	assert.Equal(t, 10080, cfg.RefreshExpiryMin)
	assert.Equal(t, 60, cfg.ActionExpiryMin)
	assert.False(t, cfg.RevokeSessionsOnPasswordReset)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "5")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "1440")
	t.Setenv("REVOKE_SESSIONS_ON_PASSWORD_RESET", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5, cfg.AccessExpiryMin)
	assert.Equal(t, 1440, cfg.RefreshExpiryMin)
	assert.True(t, cfg.RevokeSessionsOnPasswordReset)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_EXPIRY", "not-a-number")
	t.Setenv("REVOKE_SESSIONS_ON_PASSWORD_RESET", "not-a-bool")

	cfg := Load()

	assert.Equal(t, 15, cfg.AccessExpiryMin)
	assert.False(t, cfg.RevokeSessionsOnPasswordReset)
}
