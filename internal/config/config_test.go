package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.Equal(t, OrderNumberSourcePostgres, cfg.OrderNumberSource)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=storefront sslmode=disable", cfg.DSN())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/shop", cfg.DSN())
}

func TestLoad_OrderNumberSource(t *testing.T) {
	t.Run("redis without addr", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("ORDER_NUMBER_SOURCE", "redis")
		t.Setenv("REDIS_ADDR", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("redis with addr", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("ORDER_NUMBER_SOURCE", "REDIS")
		t.Setenv("REDIS_ADDR", "localhost:6379")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, OrderNumberSourceRedis, cfg.OrderNumberSource)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("ORDER_NUMBER_SOURCE", "mysql")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\njwt_secret: from-file\naccess_token_ttl: 30m\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
}

func TestLoad_CatalogCacheTTL(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"disabled", "0s", 0, false},
		{"upper bound", "5m", 5 * time.Minute, false},
		{"too long", "1h", 0, true},
		{"negative", "-1s", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv("CATALOG_CACHE_TTL", tc.value)

			cfg, err := Load()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.CatalogCacheTTL)
		})
	}
}
