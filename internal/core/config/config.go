package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Mongo holds the document store configuration.
	Mongo MongoConfig `mapstructure:",squash"`

	// Redis holds the analytics cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Kafka holds the order-event broker configuration.
	Kafka KafkaConfig `mapstructure:",squash"`

	// Payment holds the webhook credentials and unpaid-order policy.
	Payment PaymentConfig `mapstructure:",squash"`
}

// MongoConfig holds the document store connection details.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string `mapstructure:"MONGO_URI" required:"true"`
	// Database is the database holding the marketplace collections.
	Database string `mapstructure:"MONGO_DATABASE" default:"agromarket"`
}

// RedisConfig holds the cache connection details.
type RedisConfig struct {
	// URL is the Redis connection string (redis://[:password@]host[:port][/db]).
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// AnalyticsTTLSeconds is how long admin dashboard aggregates stay cached.
	AnalyticsTTLSeconds int `mapstructure:"ANALYTICS_CACHE_TTL" default:"60"`
}

// KafkaConfig holds the event broker details.
// An empty broker list disables event publishing entirely.
type KafkaConfig struct {
	// Brokers is a comma-separated list of broker addresses.
	Brokers string `mapstructure:"KAFKA_BROKERS" default:""`
	// OrdersTopic is the topic order lifecycle events are published to.
	OrdersTopic string `mapstructure:"KAFKA_ORDERS_TOPIC" default:"order-events"`
}

// PaymentConfig holds the payment gateway webhook secret and the
// unpaid-order expiry policy enforced by the sweeper.
type PaymentConfig struct {
	// WebhookAPIKey is the shared secret the gateway sends as "Apikey <key>".
	WebhookAPIKey string `mapstructure:"PAYMENT_WEBHOOK_KEY" required:"true"`
	// UnpaidTTLMinutes is how long an online-transfer order may remain unpaid
	// before it is cancelled server-side.
	UnpaidTTLMinutes int `mapstructure:"UNPAID_ORDER_TTL_MINUTES" default:"30"`
	// SweepIntervalSeconds is how often the sweeper scans for expired orders.
	SweepIntervalSeconds int `mapstructure:"UNPAID_SWEEP_INTERVAL_SECONDS" default:"60"`
}

// BrokerList splits the configured broker CSV into addresses.
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// AnalyticsTTL returns the analytics cache TTL as a duration.
func (r RedisConfig) AnalyticsTTL() time.Duration {
	return time.Duration(r.AnalyticsTTLSeconds) * time.Second
}

// UnpaidTTL returns the unpaid-order lifetime as a duration.
func (p PaymentConfig) UnpaidTTL() time.Duration {
	return time.Duration(p.UnpaidTTLMinutes) * time.Minute
}

// SweepInterval returns the sweeper tick interval as a duration.
func (p PaymentConfig) SweepInterval() time.Duration {
	return time.Duration(p.SweepIntervalSeconds) * time.Second
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
