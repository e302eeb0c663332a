package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "inventory-console"

// NewLogger builds the console logger on stdout. LOG_FORMAT=json switches to
// the JSON handler; anything else logs text.
func NewLogger(cfg *Config) *slog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: !cfg.IsProduction()}
	env := "development"
	if cfg != nil {
		// LoadConfig already rejected unknown levels.
		opts.Level, _ = parseLogLevel(cfg.LogLevel)
		env = cfg.AppEnv
	}

	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("service", serviceName), slog.String("env", env))
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(raw) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}
