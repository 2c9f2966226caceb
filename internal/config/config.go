package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"

	platformkafka "github.com/shestoi/GoBigTech/gamestore/platform/kafka"
)

// Env представляет окружение приложения
type Env string

const (
	// EnvLocal - локальное окружение (для разработки на хосте)
	EnvLocal Env = "local"
	// EnvDocker - Docker окружение (для запуска в контейнерах)
	EnvDocker Env = "docker"
)

// Config содержит конфигурацию GameStore (консоль и HTTP API)
type Config struct {
	AppEnv          Env           `env:"APP_ENV" envDefault:"local"`
	HTTPAddr        string        `env:"HTTP_ADDR"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// Логирование; пустые значения - дефолты platform/logging
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	// SeedFile путь к JSON с начальным состоянием магазина, пусто = встроенный seed
	SeedFile string `env:"GAMESTORE_SEED_FILE"`

	// OpenTelemetry
	OTelEnabled       bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint      string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSamplingRatio float64 `env:"OTEL_SAMPLING_RATIO" envDefault:"1.0"`

	// Kafka
	Kafka                  platformkafka.Config
	PurchaseCompletedTopic string `env:"KAFKA_PURCHASE_COMPLETED_TOPIC" envDefault:"gamestore.purchase.completed"`
	DayClosedTopic         string `env:"KAFKA_DAY_CLOSED_TOPIC" envDefault:"gamestore.sales.day_closed"`
	// ConsumerGroupID - consumer group для чтения событий (gamestore-events)
	ConsumerGroupID string `env:"KAFKA_CONSUMER_GROUP_ID" envDefault:"gamestore-events"`
}

// Load загружает конфигурацию из переменных окружения
// Читает APP_ENV и устанавливает дефолты в зависимости от окружения
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.AppEnv != EnvLocal && cfg.AppEnv != EnvDocker {
		return Config{}, fmt.Errorf("invalid APP_ENV: %s (must be 'local' or 'docker')", cfg.AppEnv)
	}

	// HTTP_ADDR
	if cfg.HTTPAddr == "" {
		if cfg.AppEnv == EnvLocal {
			cfg.HTTPAddr = "127.0.0.1:8080"
		} else {
			cfg.HTTPAddr = "0.0.0.0:8080"
		}
	}

	// OTEL_EXPORTER_OTLP_ENDPOINT
	if cfg.OTelEndpoint == "" {
		if cfg.AppEnv == EnvLocal {
			cfg.OTelEndpoint = "127.0.0.1:4317"
		} else {
			cfg.OTelEndpoint = "otel-collector:4317"
		}
	}

	// KAFKA_BROKERS
	platformkafka.ApplyDefaults(&cfg.Kafka, string(cfg.AppEnv))

	// Валидация
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be within [0, 1], got %v", c.OTelSamplingRatio)
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when EVENTS_ENABLED=true")
		}
		if c.PurchaseCompletedTopic == "" {
			return fmt.Errorf("KAFKA_PURCHASE_COMPLETED_TOPIC is required")
		}
		if c.DayClosedTopic == "" {
			return fmt.Errorf("KAFKA_DAY_CLOSED_TOPIC is required")
		}
	}
	return nil
}

// Log выводит конфигурацию в лог
func (c Config) Log(logger *zap.Logger) {
	logger.Info("Config loaded",
		zap.String("app_env", string(c.AppEnv)),
		zap.String("http_addr", c.HTTPAddr),
		zap.Duration("shutdown_timeout", c.ShutdownTimeout),
		zap.String("seed_file", c.SeedFile),
		zap.Bool("otel_enabled", c.OTelEnabled),
		zap.String("otel_endpoint", c.OTelEndpoint),
		zap.Float64("otel_sampling_ratio", c.OTelSamplingRatio),
		zap.Bool("events_enabled", c.Kafka.Enabled),
		zap.Strings("kafka_brokers", c.Kafka.Brokers),
		zap.String("purchase_completed_topic", c.PurchaseCompletedTopic),
		zap.String("day_closed_topic", c.DayClosedTopic),
		zap.String("consumer_group_id", c.ConsumerGroupID),
	)
}
