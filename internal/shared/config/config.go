package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config — полная конфигурация проекта
type Config struct {
	Database  DBConfig        `yaml:"database"`
	RabbitMQ  MQConfig        `yaml:"rabbitmq"`
	Services  ServicesConfig  `yaml:"services"`
	JWT       JWTConfig       `yaml:"jwt"`
	Proximity ProximityConfig `yaml:"proximity"`
}

type DBConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Database string `yaml:"database" validate:"required"`
	SSLMode  string `yaml:"sslmode"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

type MQConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

func (c MQConfig) AMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.VHost)
}

type ServicesConfig struct {
	JourneyServicePort   int `yaml:"journey_service_port" validate:"required,min=1,max=65535"`
	ProximityServicePort int `yaml:"proximity_service_port" validate:"required,min=1,max=65535"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret" validate:"required,min=16"`
	ExpiryMinutes int    `yaml:"expiry_minutes" validate:"required,min=1"`
}

// ProximityConfig — политика радиуса и количества результатов для поиска соседей
type ProximityConfig struct {
	DefaultRadiusMeters float64 `yaml:"default_radius_meters" validate:"gt=0"`
	MaxRadiusMeters     float64 `yaml:"max_radius_meters" validate:"gt=0"`
	DefaultLimit        int     `yaml:"default_limit" validate:"gt=0"`
	MaxLimit            int     `yaml:"max_limit" validate:"gt=0"`
}

// Load читает CONFIG_DIR/config.yaml (по умолчанию ./config), накладывает ENV
// поверх файла и валидирует результат. Приоритет: ENV > файл > значение по умолчанию.
func Load() (Config, error) {
	cfg := defaults()

	configDir := getEnv("CONFIG_DIR", "./config")
	path := filepath.Join(configDir, "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Database: DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "kairos_user",
			Password: "kairos_pass",
			Database: "kairos_db",
			SSLMode:  "disable",
		},
		RabbitMQ: MQConfig{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
			VHost:    "",
		},
		Services: ServicesConfig{
			JourneyServicePort:   8080,
			ProximityServicePort: 8081,
		},
		JWT: JWTConfig{
			Secret:        "change-me-before-deploy",
			ExpiryMinutes: 60,
		},
		Proximity: ProximityConfig{
			DefaultRadiusMeters: 10000,
			MaxRadiusMeters:     100000,
			DefaultLimit:        50,
			MaxLimit:            200,
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("DB_NAME", cfg.Database.Database)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.RabbitMQ.Host = getEnv("RABBITMQ_HOST", cfg.RabbitMQ.Host)
	cfg.RabbitMQ.Port = getEnvInt("RABBITMQ_PORT", cfg.RabbitMQ.Port)
	cfg.RabbitMQ.User = getEnv("RABBITMQ_USER", cfg.RabbitMQ.User)
	cfg.RabbitMQ.Password = getEnv("RABBITMQ_PASSWORD", cfg.RabbitMQ.Password)
	cfg.RabbitMQ.VHost = getEnv("RABBITMQ_VHOST", cfg.RabbitMQ.VHost)

	cfg.Services.JourneyServicePort = getEnvInt("JOURNEY_SERVICE_PORT", cfg.Services.JourneyServicePort)
	cfg.Services.ProximityServicePort = getEnvInt("PROXIMITY_SERVICE_PORT", cfg.Services.ProximityServicePort)

	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.ExpiryMinutes = getEnvInt("JWT_EXPIRY_MINUTES", cfg.JWT.ExpiryMinutes)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
