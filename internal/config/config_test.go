package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "SERVER_ENV", "PRICING_FLAT_TAX_RATE", "FIXTURE_UNIT_PRICE", "FIXTURE_CURRENCY", "REDIS_ENABLED", "DB_QUERY_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, decimal.RequireFromString("0.2").Equal(cfg.Pricing.FlatTaxRate))
	assert.True(t, decimal.RequireFromString("20").Equal(cfg.Pricing.FixtureUnitPrice))
	assert.Equal(t, "USD", cfg.Pricing.FixtureCurrency)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Database.QueryTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGDATABASE", "shop")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PRODUCT_TTL", "5m")
	t.Setenv("PRICING_FLAT_TAX_RATE", "0.15")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ProductTTL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns, "invalid ints fall back to the default")
	assert.True(t, decimal.RequireFromString("0.15").Equal(cfg.Pricing.FlatTaxRate))
	assert.Contains(t, cfg.GetDSN(), "host=db.internal")
	assert.Contains(t, cfg.GetDSN(), "dbname=shop")
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/catalog?sslmode=disable")
	t.Setenv("PGHOST", "ignored")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/catalog?sslmode=disable", cfg.GetDSN())
}

func TestLoad_InvalidDecimal(t *testing.T) {
	t.Setenv("FIXTURE_UNIT_PRICE", "twenty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIXTURE_UNIT_PRICE")
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &Config{Redis: RedisConfig{Host: "cache", Port: "6380"}}
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
}
