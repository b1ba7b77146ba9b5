package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 30*24*time.Hour, cfg.CartTTL())
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "fabloom", cfg.Postgres().DBName)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9001")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("CART_TTL_HOURS", "48")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://fabloom.in,https://admin.fabloom.in")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.HTTPPort)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 48*time.Hour, cfg.CartTTL())
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionNeedsRealSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
