// Package config loads runtime settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	StoreBackend string `envconfig:"STORE_BACKEND" default:"memory"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string        `envconfig:"REDIS_PREFIX" default:"storefront:"`
	RedisTTL      time.Duration `envconfig:"REDIS_TTL" default:"0s"`

	MongoURI    string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDBName string        `envconfig:"MONGO_DB_NAME" default:"storefront"`
	MongoTTL    time.Duration `envconfig:"MONGO_TTL" default:"2160h"`

	BreakerMaxFailures uint32        `envconfig:"BREAKER_MAX_FAILURES" default:"5"`
	BreakerOpenTimeout time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"30s"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"checkout-outbox"`
	KafkaGroupID string   `envconfig:"KAFKA_GROUP_ID" default:"storefront-consumer"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	TaxRate decimal.Decimal `envconfig:"TAX_RATE" default:"0.08"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.TaxRate.IsNegative() {
		return fmt.Errorf("TAX_RATE must not be negative, got %s", c.TaxRate)
	}
	return nil
}

// KafkaEnabled reports whether the checkout consumer should run.
func (c *Config) KafkaEnabled() bool {
	for _, b := range c.KafkaBrokers {
		if b != "" {
			return true
		}
	}
	return false
}
