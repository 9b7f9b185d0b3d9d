// Package main is the entry point for burrow.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/samdwyer/burrow/internal/architect"
	"github.com/samdwyer/burrow/internal/config"
	"github.com/samdwyer/burrow/internal/entity"
	"github.com/samdwyer/burrow/internal/game"
	"github.com/samdwyer/burrow/internal/gamedata"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/inspect"
	"github.com/samdwyer/burrow/internal/storage"
	"github.com/samdwyer/burrow/internal/telemetry"
	"github.com/samdwyer/burrow/internal/ui"
)

func main() {
	// Not fatal: variables may be set directly.
	envErr := godotenv.Load()

	cfg := config.DefaultConfig()
	mode := flag.String("mode", "view", "headless, view or serve")
	inspectView := flag.Bool("inspect", false, "serve the inspector while viewing")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed (0 picks one)")
	flag.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "cells per chunk side, odd")
	flag.IntVar(&cfg.SurfaceLevel, "surface", cfg.SurfaceLevel, "first chunk row of open air")
	flag.DurationVar(&cfg.FrameBudget, "budget", cfg.FrameBudget, "materialization time per frame")
	flag.IntVar(&cfg.Radius, "radius", cfg.Radius, "chunks activated around the explorer")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory for saved worlds")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.StringVar(&cfg.InspectAddr, "addr", cfg.InspectAddr, "inspector listen address")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	fromEnv, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	config.Merge(cfg, fromEnv, explicit)
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	// The viewer owns the terminal, so it logs to a file.
	var out io.Writer = os.Stdout
	if *mode == "view" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "data dir: %v\n", err)
			os.Exit(1)
		}
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, "burrow.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level()}))
	if envErr != nil {
		log.Debug(".env file not loaded", "error", envErr)
	}

	st, err := storage.New(cfg.DataDir, log)
	if err != nil {
		log.Error("open storage", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := uuid.NewString()
	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx, runID)
		if err != nil {
			log.Warn("telemetry setup failed, running without traces", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Error("telemetry shutdown", "error", err)
				}
			}()
		}
	}
	log.Info("starting", "mode", *mode, "run", runID, "seed", cfg.Seed, "data", cfg.DataDir)

	switch *mode {
	case "headless":
		err = runHeadless(ctx, cfg, st, log, runID)
	case "serve":
		err = runServe(ctx, cfg, st, log, runID)
	case "view":
		err = runView(ctx, cfg, st, log, *inspectView)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Error("exiting", "error", err)
		cancel()
		os.Exit(1)
	}
}

// openSession restores the world saved in st, or creates a new one.
func openSession(cfg *config.Config, st *storage.Storage, log *slog.Logger, runID string) (*architect.Session, *entity.Loader, error) {
	registry, err := gamedata.LoadEnemyRegistry()
	if err != nil {
		return nil, nil, err
	}
	loader := entity.NewLoader(registry)
	opts := []architect.Option{architect.WithLogger(log), architect.WithLoader(loader)}
	if !telemetry.Enabled() {
		opts = append(opts, architect.WithTracer(telemetry.NoopTracer()))
	}

	s, err := architect.Restore(cfg, st, opts...)
	if err == nil {
		return s, loader, nil
	}
	if !errors.Is(err, storage.ErrWorldNotFound) {
		return nil, nil, err
	}
	s, err = architect.NewSession(cfg, append(opts, architect.WithID(runID))...)
	return s, loader, err
}

// runHeadless generates the chunks around the origin and saves the world.
func runHeadless(ctx context.Context, cfg *config.Config, st *storage.Storage, log *slog.Logger, runID string) error {
	s, loader, err := openSession(cfg, st, log, runID)
	if err != nil {
		return err
	}
	if err := s.Generate(ctx, cfg.Radius); err != nil {
		return err
	}
	blocks, hazards, props := loader.Counts()
	log.Info("materialized", "blocks", blocks, "hazards", hazards, "props", props,
		"enemies", len(loader.Enemies()))
	return s.Save(st)
}

// runServe generates the world and answers inspector queries until ctx is
// done, spending a frame budget on materialization every frame.
func runServe(ctx context.Context, cfg *config.Config, st *storage.Storage, log *slog.Logger, runID string) error {
	s, _, err := openSession(cfg, st, log, runID)
	if err != nil {
		return err
	}
	if err := s.ActivateAround(ctx, geom.Vec(0, 0), cfg.Radius); err != nil {
		return err
	}

	srv := inspect.New(log.With("component", "inspect"))
	srv.SetWorld(s)
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(ctx, cfg.InspectAddr) }()

	ticker := time.NewTicker(game.FrameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return s.Save(st)
		case err := <-errc:
			if err != nil {
				return err
			}
			errc = nil
		case fn := <-srv.Calls():
			fn()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// runView opens the terminal viewer.
func runView(ctx context.Context, cfg *config.Config, st *storage.Storage, log *slog.Logger, withInspector bool) error {
	screen, err := ui.NewScreen()
	if err != nil {
		return err
	}
	defer screen.Close()

	opts := []game.Option{game.WithLogger(log), game.WithStorage(st)}
	if withInspector {
		srv := inspect.New(log.With("component", "inspect"))
		opts = append(opts, game.WithInspector(srv))
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.InspectAddr); err != nil {
				log.Error("inspector stopped", "error", err)
			}
		}()
	}

	g, err := game.New(cfg, screen, opts...)
	if err != nil {
		return err
	}
	return g.Run(ctx)
}
