package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	shared "github.com/Tanmoy095/PharmaTrace/shared/config"

	"github.com/Tanmoy095/PharmaTrace/pkg/status"
)

// Config is the console service configuration, read from the environment.
type Config struct {
	*shared.CommonConfig

	API_BASE_URL        string
	HTTP_ADDR           string
	GRPC_ADDR           string
	API_TIMEOUT         time.Duration
	API_RATE_LIMIT      float64
	SESSION_TTL         time.Duration
	SESSION_CACHE_SIZE  int
	STATUS_PRECEDENCE   status.Precedence
	EXPIRY_WARNING_DAYS int
}

// LoadConfig reads .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	if err := shared.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg := &Config{
		CommonConfig: shared.LoadCommonConfig(),
		API_BASE_URL: strings.TrimRight(shared.GetEnv("API_BASE_URL", ""), "/"),
		HTTP_ADDR:    shared.GetEnv("HTTP_ADDR", ":8080"),
		GRPC_ADDR:    shared.GetEnv("GRPC_ADDR", ":50051"),
	}

	var errs []error
	var err error
	if cfg.API_TIMEOUT, err = shared.GetDuration("API_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.API_RATE_LIMIT, err = shared.GetFloat("API_RATE_LIMIT", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.SESSION_TTL, err = shared.GetDuration("SESSION_TTL", 8*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.SESSION_CACHE_SIZE, err = shared.GetInt("SESSION_CACHE_SIZE", 1024); err != nil {
		errs = append(errs, err)
	}
	if cfg.EXPIRY_WARNING_DAYS, err = shared.GetInt("EXPIRY_WARNING_DAYS", status.DefaultExpiryWarningDays); err != nil {
		errs = append(errs, err)
	}
	if cfg.STATUS_PRECEDENCE, err = status.ParsePrecedence(shared.GetEnv("STATUS_PRECEDENCE", "")); err != nil {
		errs = append(errs, fmt.Errorf("STATUS_PRECEDENCE: %w", err))
	}
	if cfg.API_BASE_URL == "" {
		errs = append(errs, errors.New("API_BASE_URL is required"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Policy is the status override policy the view models use.
func (c *Config) Policy() status.Policy {
	return status.Policy{Precedence: c.STATUS_PRECEDENCE, ExpiryWarningDays: c.EXPIRY_WARNING_DAYS}
}
