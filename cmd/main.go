package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"screentime-metrics-service/internal/config"
	"screentime-metrics-service/internal/controller"
	"screentime-metrics-service/internal/db"
	httpserver "screentime-metrics-service/internal/http"
	"screentime-metrics-service/internal/model"
	"screentime-metrics-service/internal/repository"
	"screentime-metrics-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}

	logger := setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	probeSource(cfg.DBPath, logger)

	repo := repository.NewUsageRepository(cfg.DBPath)
	reportService := service.NewReportService(repo, cfg, logger)
	reportController := controller.NewReportController(reportService)

	server := httpserver.NewServer(reportController)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.HTTPPort).
			Str("timezone", cfg.Timezone).
			Str("source", cfg.DBPath).
			Msg("starting server")
		errCh <- server.Listen(cfg.HTTPPort)
	}()

	select {
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("server stopped")
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		if err := server.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}
}

// probeSource checks the activity log once at startup so misconfiguration is
// visible immediately. The source may become readable later, so failures are
// logged with remediation guidance instead of aborting; each refresh
// re-checks.
func probeSource(path string, logger zerolog.Logger) {
	gdb, err := db.Open(path)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSourceNotFound):
			logger.Warn().Str("path", path).
				Msg("activity log not found; verify Screen Time is enabled on this machine")
		case errors.Is(err, model.ErrSourcePermission):
			logger.Warn().Str("path", path).
				Msg("activity log not readable; grant the process read access (Full Disk Access)")
		default:
			logger.Warn().Err(err).Str("path", path).Msg("activity log probe failed")
		}
		return
	}
	_ = db.Close(gdb)
}

func setupLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
}
