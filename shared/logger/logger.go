// shared/logger/logger.go
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger. "debug" switches to the development
// config; anything else is production JSON at the named level.
func New(service, level string) (*zap.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	var cfg zap.Config
	if level == "debug" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		lvl := zapcore.InfoLevel
		if level != "" {
			if err := lvl.Set(level); err != nil {
				return nil, err
			}
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("service", service)), nil
}

// Must is New for main functions.
func Must(service, level string) *zap.Logger {
	l, err := New(service, level)
	if err != nil {
		panic(err)
	}
	return l
}
