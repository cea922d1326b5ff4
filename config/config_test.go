package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"APP_ENV": "development"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, DriverRedis, cfg.StateDriver)
	assert.Equal(t, 10*time.Second, cfg.ShopAPITimeout)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "merge", cfg.CartMergePolicy)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.SessionSecret)
	assert.InDelta(t, 5, cfg.RateLimit, 1e-9)
	assert.Equal(t, 20, cfg.RateBurst)
	assert.False(t, cfg.TrustProxy)
}

func TestFromEnv_PortWithoutColon(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"APP_ENV": "development", "PORT": "9000"}))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Port)
}

func TestFromEnv_SecretRequiredInProduction(t *testing.T) {
	_, err := FromEnv(env(map[string]string{}))
	assert.Error(t, err)

	cfg, err := FromEnv(env(map[string]string{"SESSION_SECRET": "s3cret"}))
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), cfg.SessionSecret)
}

func TestFromEnv_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":   {"STATE_DRIVER": "sqlite"},
		"policy":   {"CART_MERGE_POLICY": "sum"},
		"timeout":  {"SHOP_API_TIMEOUT": "soon"},
		"negative": {"TRACK_POLL_INTERVAL": "-1s"},
		"redis db": {"REDIS_DB": "one"},
		"rate":     {"RATE_LIMIT": "0"},
		"burst":    {"RATE_BURST": "many"},
		"proxy":    {"TRUST_PROXY": "maybe"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			vars["APP_ENV"] = "development"
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_Origins(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"APP_ENV":         "development",
		"ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"SHOP_API_URL":    "https://api.example/",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://api.example", cfg.ShopAPIURL)
}
