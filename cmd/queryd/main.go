package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmorrell/longquery/internal/backend"
	"github.com/jmorrell/longquery/internal/config"
	"github.com/jmorrell/longquery/internal/observability"
	"github.com/jmorrell/longquery/internal/poll"
	"github.com/jmorrell/longquery/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(observability.NewLogger(cfg.LogLevel))

	scenarios, err := buildScenarios(cfg.Scenarios)
	if err != nil {
		slog.Error("failed to build scenarios", "error", err)
		os.Exit(1)
	}
	for _, sc := range scenarios {
		slog.Info("registered scenario", "match", sc.Match, "duration", sc.Duration, "checks", sc.Checks, "fail", sc.Fail)
	}

	client := backend.NewSimulated(
		backend.WithDefaultDuration(cfg.QueryDuration),
		backend.WithScenarios(scenarios),
	)
	runner := poll.NewRunner(client)

	srv := server.New(runner, poll.Options{
		MaxAttempts: cfg.MaxAttempts,
		Interval:    cfg.PollInterval,
	})

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down...")
		srv.Stop()
	}()

	if err := srv.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func buildScenarios(cfg *config.ScenariosConfig) ([]backend.Scenario, error) {
	var out []backend.Scenario
	for _, sc := range cfg.Scenarios {
		b := backend.Scenario{
			Match:  sc.Match,
			Checks: sc.Checks,
			Fail:   sc.Fail,
		}
		if sc.Duration != "" {
			d, err := config.ParseDuration(sc.Duration)
			if err != nil {
				return nil, fmt.Errorf("scenario %q: %w", sc.Match, err)
			}
			b.Duration = d
		}
		for _, row := range sc.Rows {
			b.Rows = append(b.Rows, backend.Row(row))
		}
		out = append(out, b)
	}
	return out, nil
}
