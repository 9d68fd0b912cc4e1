package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("AUTH_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.False(t, cfg.Auth.Enabled)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverBadger)
	t.Setenv("BADGER_PATH", "/var/lib/employees")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverBadger, cfg.Store.Driver)
	assert.Equal(t, "/var/lib/employees", cfg.Badger.Path)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Cache.TTL())
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "memory", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "sqlite" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Store.Driver = StoreDriverPostgres }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.Store.Driver = StoreDriverPostgres
			c.Postgres.DSN = "postgres://localhost/employees"
		}},
		{name: "auth without hash", mutate: func(c *Config) { c.Auth.Enabled = true }, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Store: StoreConfig{Driver: StoreDriverMemory}}
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_GETENV_INT", "not-an-int")
	assert.Equal(t, 42, getEnvAsInt("TEST_GETENV_INT", 42))
	t.Setenv("TEST_GETENV_INT", "100")
	assert.Equal(t, 100, getEnvAsInt("TEST_GETENV_INT", 42))

	t.Setenv("TEST_GETENV_BOOL", "maybe")
	assert.True(t, getEnvAsBool("TEST_GETENV_BOOL", true))
	t.Setenv("TEST_GETENV_BOOL", "false")
	assert.False(t, getEnvAsBool("TEST_GETENV_BOOL", true))

	t.Setenv("TEST_GETENV", "")
	assert.Equal(t, "default", getEnv("TEST_GETENV", "default"))
}
