package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" default:""`
	DBHost          string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort          string        `envconfig:"DB_PORT" default:"5432"`
	DBUser          string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword      string        `envconfig:"DB_PASSWORD" default:""`
	DBName          string        `envconfig:"DB_NAME" default:"association"`
	DBSSLMode       string        `envconfig:"DB_SSLMODE" default:"disable"`
	AutoMigrate     bool          `envconfig:"AUTO_MIGRATE" default:"true"`
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	AdminAPIKey     string        `envconfig:"ADMIN_API_KEY" default:""`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
	KafkaBrokers    string        `envconfig:"KAFKA_BROKERS" default:""` // empty disables order events
	KafkaOrderTopic string        `envconfig:"KAFKA_ORDER_TOPIC" default:"order-events"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value postgres DSN.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func (c *Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
