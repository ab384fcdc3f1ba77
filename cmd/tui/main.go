/*
Package main
File: main.go
Description: Terminal client entry point. Loads the config and balance
tables, starts one game and hands it to the bubbletea program.
*/

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/everforgeworks/dopewars/internal/config"
	"github.com/everforgeworks/dopewars/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The alt screen owns stdout and stderr, so logs go to a file or nowhere.
	logOut, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := cfg.NewLogger(logOut)

	g, err := cfg.NewGame(logger)
	if err != nil {
		return fmt.Errorf("starting game: %w", err)
	}

	if err := tui.Run(g); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// openLog opens path for appending. An empty path discards logs.
func openLog(path string) (io.Writer, func() error, error) {
	if path == "" {
		return io.Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, f.Close, nil
}
