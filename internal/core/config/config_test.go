package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("MONGO_URI", "mongodb://localhost:27017")
	os.Setenv("PAYMENT_WEBHOOK_KEY", "secret-key")
	t.Cleanup(func() {
		os.Unsetenv("MONGO_URI")
		os.Unsetenv("PAYMENT_WEBHOOK_KEY")
	})
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	setRequiredEnv(t)

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "agromarket", cfg.Mongo.Database)
	assert.Equal(t, 30*time.Minute, cfg.Payment.UnpaidTTL())
	assert.Equal(t, 60*time.Second, cfg.Payment.SweepInterval())
	assert.Equal(t, 60*time.Second, cfg.Redis.AnalyticsTTL())
	assert.Empty(t, cfg.Kafka.BrokerList())
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	os.Setenv("UNPAID_ORDER_TTL_MINUTES", "15")
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("KAFKA_BROKERS")
		os.Unsetenv("UNPAID_ORDER_TTL_MINUTES")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.BrokerList())
	assert.Equal(t, 15*time.Minute, cfg.Payment.UnpaidTTL())
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
MONGO_URI=mongodb://db.staging:27017
MONGO_DATABASE=market_staging
PAYMENT_WEBHOOK_KEY=staging-key
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "mongodb://db.staging:27017", cfg.Mongo.URI)
	assert.Equal(t, "market_staging", cfg.Mongo.Database)
	assert.Equal(t, "staging-key", cfg.Payment.WebhookAPIKey)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("MONGO_URI")
	os.Unsetenv("PAYMENT_WEBHOOK_KEY")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}
