/*
Package config
File: balance.go
Description:
    Builds the balance tables and a fresh game from the process config.
    A missing balance file falls back to the built-in defaults.
*/

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/everforgeworks/dopewars/internal/game"
	"github.com/everforgeworks/dopewars/internal/random"
)

// Balance reads the balance file, falling back to the built-in tables
// when it does not exist, and applies the edition override.
func (cfg Config) Balance(logger *slog.Logger) (*game.Balance, error) {
	b, err := game.LoadBalance(cfg.BalancePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("balance file not found, using defaults", slog.String("path", cfg.BalancePath))
		b = game.DefaultBalance()
	case err != nil:
		return nil, err
	}

	if cfg.Edition != "" {
		features, err := game.EditionFeatures(cfg.Edition)
		if err != nil {
			return nil, err
		}
		b.Features = features
		if err := b.Resolve(); err != nil {
			return nil, fmt.Errorf("edition %s: %w", cfg.Edition, err)
		}
	}
	return b, nil
}

// NewGame loads the balance and starts a game on it, seeded from cfg.Seed
// or from crypto/rand when no seed is set.
func (cfg Config) NewGame(logger *slog.Logger) (*game.Game, error) {
	b, err := cfg.Balance(logger)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			return nil, err
		}
	}
	logger.Debug("seeded", slog.Int64("seed", seed))
	return game.New(b, random.NewSeeded(seed), game.WithLogger(logger)), nil
}
