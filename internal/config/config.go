/*
Package config
File: config.go
Description:
    Process settings read from the environment. Game tuning lives in the
    balance file instead (see game.LoadBalance); this package only knows
    where that file is.
*/

package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings.
type Config struct {
	Addr            string        `env:"DOPEWARS_ADDR"             envDefault:":8081"`
	BalancePath     string        `env:"DOPEWARS_BALANCE"          envDefault:"balance.yaml"`
	Edition         string        `env:"DOPEWARS_EDITION"` // basic or extended; empty keeps the balance file's features
	Seed            int64         `env:"DOPEWARS_SEED"`    // 0 picks a random seed
	LogLevel        slog.Level    `env:"DOPEWARS_LOG_LEVEL"        envDefault:"INFO"`
	LogFormat       string        `env:"DOPEWARS_LOG_FORMAT"       envDefault:"text"`
	LogFile         string        `env:"DOPEWARS_LOG_FILE"` // Terminal client only; empty discards logs
	ShutdownTimeout time.Duration `env:"DOPEWARS_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the server Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return cfg, nil
}

// NewLogger builds the process logger described by cfg.
func (cfg Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
