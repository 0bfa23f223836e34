package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tanmoy095/PharmaTrace/pkg/status"
	shared "github.com/Tanmoy095/PharmaTrace/shared/config"
)

// Target is one inventory the scanner watches.
type Target struct {
	Role   status.Role
	Wallet string
}

type Config struct {
	*shared.CommonConfig

	API_BASE_URL        string
	API_TIMEOUT         time.Duration
	ALERT_SCHEDULE      string
	ALERT_WATCH         []Target
	ALERT_API_TOKEN     string
	ALERT_DEDUP_TTL     time.Duration
	STATUS_PRECEDENCE   status.Precedence
	EXPIRY_WARNING_DAYS int
}

func LoadConfig() (*Config, error) {
	if err := shared.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg := &Config{
		CommonConfig:    shared.LoadCommonConfig(),
		API_BASE_URL:    strings.TrimRight(shared.GetEnv("API_BASE_URL", ""), "/"),
		ALERT_SCHEDULE:  shared.GetEnv("ALERT_SCHEDULE", "@every 15m"),
		ALERT_API_TOKEN: shared.GetEnv("ALERT_API_TOKEN", ""),
	}

	var errs []error
	var err error
	if cfg.API_TIMEOUT, err = shared.GetDuration("API_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.ALERT_DEDUP_TTL, err = shared.GetDuration("ALERT_DEDUP_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.EXPIRY_WARNING_DAYS, err = shared.GetInt("EXPIRY_WARNING_DAYS", status.DefaultExpiryWarningDays); err != nil {
		errs = append(errs, err)
	}
	if cfg.STATUS_PRECEDENCE, err = status.ParsePrecedence(shared.GetEnv("STATUS_PRECEDENCE", "")); err != nil {
		errs = append(errs, fmt.Errorf("STATUS_PRECEDENCE: %w", err))
	}
	if cfg.ALERT_WATCH, err = ParseWatch(shared.GetEnv("ALERT_WATCH", "")); err != nil {
		errs = append(errs, err)
	}
	if len(cfg.ALERT_WATCH) > 0 {
		if cfg.API_BASE_URL == "" {
			errs = append(errs, errors.New("API_BASE_URL is required when ALERT_WATCH is set"))
		}
		if cfg.ALERT_API_TOKEN == "" {
			errs = append(errs, errors.New("ALERT_API_TOKEN is required when ALERT_WATCH is set"))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// ParseWatch reads "role:wallet" pairs separated by commas.
func ParseWatch(s string) ([]Target, error) {
	var out []Target
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		role, wallet, ok := strings.Cut(part, ":")
		r, known := status.ParseRole(role)
		if !ok || !known || strings.TrimSpace(wallet) == "" {
			return nil, fmt.Errorf("ALERT_WATCH: bad entry %q, want role:wallet", part)
		}
		out = append(out, Target{Role: r, Wallet: strings.TrimSpace(wallet)})
	}
	return out, nil
}

func (c *Config) Policy() status.Policy {
	return status.Policy{Precedence: c.STATUS_PRECEDENCE, ExpiryWarningDays: c.EXPIRY_WARNING_DAYS}
}
