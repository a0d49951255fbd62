package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{"JWT_SECRET_KEY": "secret"}))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "10", cfg.ReferralBonus.String())
	assert.Equal(t, 50, cfg.ReferralBonusCoins)
	assert.Equal(t, 50, cfg.LeaderboardLimit)
	assert.False(t, cfg.AutoStatusUpdates)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, "admin", cfg.SeedAdminUsername)
	assert.False(t, cfg.R2Enabled())
}

func TestFromEnvPostgres(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"JWT_SECRET_KEY":       "secret",
		"DATABASE_URL":         "postgres://localhost/arena",
		"CORS_ALLOWED_ORIGINS": "https://arena.gg, http://localhost:5173",
		"AUTH_REQUIRED":        "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.False(t, cfg.SeedDemoData)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, []string{"https://arena.gg", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestFromEnvErrors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing jwt secret", env: map[string]string{}},
		{name: "postgres without url", env: map[string]string{"JWT_SECRET_KEY": "s", "STORAGE_DRIVER": "postgres"}},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET_KEY": "s", "STORAGE_DRIVER": "mysql"}},
		{name: "bad port", env: map[string]string{"JWT_SECRET_KEY": "s", "SERVER_PORT": "70000"}},
		{name: "bad referral bonus", env: map[string]string{"JWT_SECRET_KEY": "s", "REFERRAL_BONUS": "ten"}},
		{name: "negative referral bonus", env: map[string]string{"JWT_SECRET_KEY": "s", "REFERRAL_BONUS": "-1"}},
		{name: "bad interval", env: map[string]string{"JWT_SECRET_KEY": "s", "AUTO_STATUS_INTERVAL": "soon"}},
		{name: "bad log level", env: map[string]string{"JWT_SECRET_KEY": "s", "LOG_LEVEL": "loud"}},
		{name: "partial r2", env: map[string]string{"JWT_SECRET_KEY": "s", "R2_ACCOUNT_ID": "acc"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromEnv(envFrom(tc.env))
			assert.Error(t, err)
		})
	}
}
