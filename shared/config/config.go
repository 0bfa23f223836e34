// shared/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CommonConfig holds infrastructure details used by more than one service.
type CommonConfig struct {
	// Database (PostgreSQL) config, used by the receipt audit store
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	DB_HOST     string
	DB_PORT     string
	// Kafka config, shipment.received events
	KAFKA_TOPIC  string
	KAFKA_BROKER string
	// RabbitMQ config, alert and notification jobs
	RABBITMQ_USER     string
	RABBITMQ_PASSWORD string
	RABBITMQ_HOST     string
	RABBITMQ_PORT     string
	// Temporal frontend; empty runs workflows in-process
	TEMPORAL_HOST_PORT string

	LOG_LEVEL string
}

// LoadDotEnv reads a .env file into the environment if one exists. Variables
// already set win over the file.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load %v: %w", present, err)
	}
	return nil
}

// LoadCommonConfig returns the shared infrastructure config.
func LoadCommonConfig() *CommonConfig {
	return &CommonConfig{
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),

		KAFKA_TOPIC:  GetEnv("KAFKA_TOPIC", "shipment.received"),
		KAFKA_BROKER: os.Getenv("KAFKA_BROKER"),

		RABBITMQ_USER:     os.Getenv("RABBITMQ_USER"),
		RABBITMQ_PASSWORD: os.Getenv("RABBITMQ_PASSWORD"),
		RABBITMQ_HOST:     os.Getenv("RABBITMQ_HOST"),
		RABBITMQ_PORT:     os.Getenv("RABBITMQ_PORT"),

		TEMPORAL_HOST_PORT: os.Getenv("TEMPORAL_HOST_PORT"),

		LOG_LEVEL: GetEnv("LOG_LEVEL", "info"),
	}
}

// HasDB reports whether enough is set to reach Postgres.
func (c *CommonConfig) HasDB() bool {
	return c.DB_HOST != "" && c.DB_NAME != ""
}

// GetDBURL formats the config into a PostgreSQL connection string.
func (c *CommonConfig) GetDBURL() string {
	port := c.DB_PORT
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DB_USER, c.DB_PASSWORD, c.DB_HOST, port, c.DB_NAME)
}

// GetKafkaBrokers splits KAFKA_BROKER on commas; nil when unset.
func (c *CommonConfig) GetKafkaBrokers() []string {
	var out []string
	for _, b := range strings.Split(c.KAFKA_BROKER, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// HasRabbitMQ reports whether a broker user was configured.
func (c *CommonConfig) HasRabbitMQ() bool {
	return c.RABBITMQ_USER != ""
}

// GetRabbitMQURL formats the config into a RabbitMQ connection string.
func (c *CommonConfig) GetRabbitMQURL() string {
	// default the standard ports so a partial config still dials
	host := c.RABBITMQ_HOST
	if host == "" {
		host = "localhost"
	}
	port := c.RABBITMQ_PORT
	if port == "" {
		port = "5672"
	}

	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.RABBITMQ_USER, c.RABBITMQ_PASSWORD, host, port)
}

// GetEnv returns the variable or def when it is unset or blank.
func GetEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetDuration parses a Go duration variable.
func GetDuration(key string, def time.Duration) (time.Duration, error) {
	v := GetEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// GetInt parses an integer variable.
func GetInt(key string, def int) (int, error) {
	v := GetEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// GetFloat parses a float variable.
func GetFloat(key string, def float64) (float64, error) {
	v := GetEnv(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
