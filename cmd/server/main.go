package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geolog/config"
	"geolog/internal/cache"
	"geolog/internal/database"
	"geolog/internal/logging"
	"geolog/internal/repository"
	"geolog/internal/router"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

func main() {
	configPath := flag.StringP("config", "c", "", "path to YAML config file (default $GEOLOG_CONFIG)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and the admin seed, then exit")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "env file %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logging.Fatal().Err(err).Msg("migrate")
	}
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.SeedAdmin(seedCtx, repository.NewUserRepository(db), &cfg.Admin)
	cancelSeed()
	if err != nil {
		logging.Fatal().Err(err).Msg("seed admin")
	}
	if *migrateOnly {
		logging.Info().Msg("migrations applied")
		return
	}

	var opts router.Options
	if cfg.Redis.Addr != "" {
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		profiles, err := cache.New(pingCtx, cfg.Redis, cfg.Location.ProfileCacheTTL)
		cancelPing()
		if err != nil {
			logging.Warn().Err(err).Msg("profile cache disabled")
		} else {
			defer profiles.Close()
			opts.ProfileCache = profiles
			logging.Info().Str("addr", cfg.Redis.Addr).Msg("profile cache enabled")
		}
	}

	engine, cleanup, err := router.Setup(cfg, db, opts)
	if err != nil {
		logging.Fatal().Err(err).Msg("router")
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logging.Info().Str("port", cfg.Server.Port).Str("env", cfg.Server.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("listen")
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server shutdown")
	}
	logging.Info().Msg("server stopped")
}
