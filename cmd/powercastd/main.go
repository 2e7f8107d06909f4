// Command powercastd serves next-hour electricity forecasts over HTTP.
// It loads the frozen model artifacts once at startup and refuses to
// start if they are missing or inconsistent.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gridsense/powercast/internal/config"
	"github.com/gridsense/powercast/internal/history"
	"github.com/gridsense/powercast/internal/pipeline"
	"github.com/gridsense/powercast/internal/server"
	"github.com/gridsense/powercast/powercast"
)

func main() {
	configPath := flag.String("config", "", "optional config file (yaml/json/env)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Str("log_level", cfg.LogLevel).Msg("unknown log level")
	}
	log = log.Level(level)

	arts, err := powercast.LoadArtifacts(cfg.ArtifactDir)
	if err != nil {
		// Partially loaded or inconsistent artifacts must never serve.
		log.Fatal().Err(err).Str("dir", cfg.ArtifactDir).Msg("artifact load failed, refusing to start")
	}
	log.Info().
		Int("lookback", arts.Config.Lookback).
		Int("channels", arts.NumChannels()).
		Str("target", arts.Config.TargetColumn).
		Int("model_params", arts.Model.NumParams()).
		Msg("artifacts loaded")

	hist := history.NewStore(cfg.HistoryLimit)
	if cfg.HistoryFile != "" {
		if err := hist.Restore(cfg.HistoryFile); err != nil {
			log.Warn().Err(err).Str("file", cfg.HistoryFile).Msg("could not restore history snapshot")
		}
	}

	predictor := powercast.NewPredictor(arts, pipeline.PlausibilityPolicy(cfg.Plausibility))
	srv := server.New(predictor, hist, log)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}

	if cfg.HistoryFile != "" {
		if err := hist.Snapshot(cfg.HistoryFile); err != nil {
			log.Error().Err(err).Str("file", cfg.HistoryFile).Msg("could not write history snapshot")
		}
	}
}
