package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riverwatch/riverwatch/internal/api"
	"github.com/riverwatch/riverwatch/internal/config"
	"github.com/riverwatch/riverwatch/internal/metrics"
	"github.com/riverwatch/riverwatch/internal/score"
	"github.com/riverwatch/riverwatch/internal/sim"
	"github.com/riverwatch/riverwatch/internal/store"
	"github.com/riverwatch/riverwatch/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("riverwatch starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"tick_interval", cfg.Sim.TickInterval,
		"sites", len(cfg.Sites),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Store, seeded before anything reads from it.
	st := store.New()
	gen := sim.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	sim.Seed(st, cfg.Sites, gen)

	// Scoring engine; its rules follow config hot-reloads.
	engine := score.New(cfg.Scoring)
	go func() {
		if err := config.Watch(ctx, *configPath, func(c *config.Config) {
			engine.SetRules(c.Scoring)
		}); err != nil {
			slog.Error("config watch failed", "err", err)
		}
	}()

	// Broadcast hub for real-time observers.
	hub := ws.New()
	go hub.Run(ctx)

	// Simulation scheduler drives the telemetry cycle.
	simulator := sim.New(st, engine, hub, gen, cfg.Sim.TickInterval, cfg.Sim.InitialDelay)
	go simulator.Run(ctx)

	// Combined HTTP server: REST API, WebSocket endpoint and metrics.
	mux := http.NewServeMux()
	mux.Handle("/api/", api.New(st, cfg.Server.ReadingLimit))
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", metrics.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("riverwatch shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
