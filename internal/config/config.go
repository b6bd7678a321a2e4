package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "CARTPRICE"

const (
	EnvDBDSN              = "CARTPRICE_DB_DSN"
	EnvRedisAddr          = "CARTPRICE_REDIS_ADDR"
	EnvLockTTL            = "CARTPRICE_LOCK_TTL"
	EnvPaymentURL         = "CARTPRICE_PAYMENT_URL"
	EnvPaymentTimeout     = "CARTPRICE_PAYMENT_TIMEOUT"
	EnvPaymentBreakerTrip = "CARTPRICE_PAYMENT_BREAKER_FAILURES"
	EnvLogFormat          = "CARTPRICE_LOG_FORMAT"
	EnvMetricsNamespace   = "CARTPRICE_METRICS_NAMESPACE"
	EnvMetricsPushURL     = "CARTPRICE_METRICS_PUSH_URL"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Lock    LockConfig
	Payment PaymentConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	LogLevel  string `envconfig:"CARTPRICE_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"CARTPRICE_LOG_FORMAT" default:"json" validate:"oneof=json console"`
}

type DBConfig struct {
	DSN             string        `envconfig:"CARTPRICE_DB_DSN" required:"true" validate:"required,url"`
	MaxConns        int32         `envconfig:"CARTPRICE_DB_MAX_CONNS" default:"10" validate:"gte=1"`
	ConnMaxLifetime time.Duration `envconfig:"CARTPRICE_DB_CONN_MAX_LIFETIME" default:"1h"`
}

type RedisConfig struct {
	Addr     string `envconfig:"CARTPRICE_REDIS_ADDR" default:"localhost:6379" validate:"hostname_port"`
	Password string `envconfig:"CARTPRICE_REDIS_PASSWORD"`
	DB       int    `envconfig:"CARTPRICE_REDIS_DB" default:"0" validate:"gte=0"`
}

type LockConfig struct {
	TTL          time.Duration `envconfig:"CARTPRICE_LOCK_TTL" default:"30s" validate:"gt=0"`
	RetryBackoff time.Duration `envconfig:"CARTPRICE_LOCK_RETRY_BACKOFF" default:"50ms" validate:"gt=0"`
}

type PaymentConfig struct {
	URL                string        `envconfig:"CARTPRICE_PAYMENT_URL" default:"http://localhost:8000" validate:"http_url"`
	Timeout            time.Duration `envconfig:"CARTPRICE_PAYMENT_TIMEOUT" default:"5s" validate:"gt=0"`
	BreakerFailures    uint32        `envconfig:"CARTPRICE_PAYMENT_BREAKER_FAILURES" default:"5" validate:"gte=1"`
	BreakerOpenTimeout time.Duration `envconfig:"CARTPRICE_PAYMENT_BREAKER_OPEN_TIMEOUT" default:"30s"`
}

type MetricsConfig struct {
	Namespace string `envconfig:"CARTPRICE_METRICS_NAMESPACE" default:"cartprice" validate:"required"`
	// PushURL is a Pushgateway address, metrics are not pushed when empty.
	PushURL     string        `envconfig:"CARTPRICE_METRICS_PUSH_URL" validate:"omitempty,http_url"`
	PushTimeout time.Duration `envconfig:"CARTPRICE_METRICS_PUSH_TIMEOUT" default:"5s" validate:"gt=0"`
}
