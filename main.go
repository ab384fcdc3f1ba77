/*
Package main
File: main.go
Description: Server entry point. Loads the balance tables, starts one game,
the real-time WebSocket hub and the local HTTP API, and reloads the tables
on SIGHUP.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/everforgeworks/dopewars/internal/api"
	"github.com/everforgeworks/dopewars/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load the balance tables and start the game
	g, err := cfg.NewGame(logger)
	if err != nil {
		return err
	}

	// 2. Wire the hub and the HTTP API
	hub := api.NewHub(logger)
	srv := api.NewServer(g, hub, logger)
	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           corsMiddleware(srv.Routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)

	// 3. Real-time hub
	eg.Go(func() error { return hub.Run(ctx) })

	// 4. HTTP server and graceful shutdown
	eg.Go(func() error {
		logger.Info("dopewars server live", slog.String("addr", cfg.Addr), slog.String("run", g.RunID()))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	// 5. Hot-reload: SIGHUP re-reads the balance file and starts a new game
	eg.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-hup:
				logger.Info("SIGHUP: reloading balance", slog.String("path", cfg.BalancePath))
				next, err := cfg.NewGame(logger)
				if err != nil {
					logger.Error("reload failed, keeping the current game", slog.Any("error", err))
					continue
				}
				srv.Swap(next)
			}
		}
	})

	return eg.Wait()
}

// corsMiddleware lets a browser or desktop client on another origin call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
