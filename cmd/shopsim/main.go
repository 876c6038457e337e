// Package main runs the haggle shop either as an automated simulation or
// as an HTTP game server.
//
//	shopsim [simulate|serve]
package main

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"haggle-shop/internal/config"
	"haggle-shop/internal/handler"
	"haggle-shop/internal/i18n"
	"haggle-shop/internal/pkg/db"
	"haggle-shop/internal/pkg/rng"
	"haggle-shop/internal/progression"
	"haggle-shop/internal/repository"
	"haggle-shop/internal/sim"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment and config.yaml still apply.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, keeping default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open save storage")
	}
	defer repo.Close()

	log.Info().
		Str("driver", cfg.Storage.Driver).
		Str("slot", cfg.Storage.Slot).
		Msg("Save storage ready")

	mode := "simulate"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "simulate":
		err = simulate(ctx, cfg, repo)
	case "serve":
		err = serve(ctx, cfg, repo)
	default:
		err = fmt.Errorf("unknown mode %q (want simulate or serve)", mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Str("mode", mode).Msg("Stopped with error")
	}
}

func playerOptions(cfg *config.Config) progression.Options {
	return progression.Options{
		StartCash:       cfg.Game.StartCash,
		StartReputation: cfg.Game.StartReputation,
		StartTrust:      cfg.Game.StartTrust,
	}
}

// newSource returns a seeded source when game.seed is set, so runs repeat.
// The seed is mixed with the slot so two slots never replay the same shop.
func newSource(cfg *config.Config, slot string) rng.Source {
	if cfg.Game.Seed != 0 {
		return rng.NewSeeded(slotSeed(cfg.Game.Seed, slot))
	}
	return rng.New()
}

func slotSeed(seed int64, slot string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(slot))
	return seed ^ int64(h.Sum64())
}

func openRepository(ctx context.Context, cfg *config.Config) (repository.SaveRepository, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return repository.OpenSQLite(cfg.Storage.SQLitePath)

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		repo := repository.NewPostgresRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		return repo, nil

	case config.DriverRedis:
		repo := repository.NewRedisRepository(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := repo.Ping(ctx); err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		return repo, nil

	default:
		return repository.NewMemoryRepository(), nil
	}
}

func simulate(ctx context.Context, cfg *config.Config, repo repository.SaveRepository) error {
	strategy, ok := sim.NewDefaultRegistry().Get(cfg.Simulation.Strategy)
	if !ok {
		return fmt.Errorf("unknown strategy %q", cfg.Simulation.Strategy)
	}

	src := newSource(cfg, cfg.Storage.Slot)
	state, loaded := progression.LoadOrNew(ctx, repo, cfg.Storage.Slot, playerOptions(cfg), src)
	engine := progression.New(state, src, nil)

	log.Info().
		Bool("resumed", loaded).
		Int("day", state.Day).
		Str("strategy", strategy.Name()).
		Int("days", cfg.Simulation.Days).
		Msg("Simulation starting")

	report, err := sim.NewRunner(engine, strategy, repo, cfg.Storage.Slot).Run(ctx, cfg.Simulation.Days)
	for _, d := range report.Days {
		log.Info().
			Int("day", d.Day).
			Int("customers", d.Customers).
			Int("trades", d.Trades).
			Str("net", humanize.Comma(int64(d.Settlement.Summary.NetProfit))).
			Str("cash", humanize.Comma(int64(d.Cash))).
			Int("level", d.Level).
			Bool("leveled_up", d.LeveledUp).
			Msg("Day closed")
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("strategy", report.Strategy).
		Str("start_cash", humanize.Comma(int64(report.StartCash))).
		Str("end_cash", humanize.Comma(int64(report.EndCash))).
		Int("end_level", report.EndLevel).
		Str("trades", humanize.Comma(int64(report.Trades))).
		Msg("Simulation finished")
	return nil
}

func serve(ctx context.Context, cfg *config.Config, repo repository.SaveRepository) error {
	h := handler.New(repo, i18n.DefaultCatalog(), handler.Options{
		DefaultSlot: cfg.Storage.Slot,
		Locale:      cfg.Game.Locale,
		Player:      playerOptions(cfg),
		NewSource:   func(slot string) rng.Source { return newSource(cfg, slot) },
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("HTTP server stopped gracefully")
	return nil
}
