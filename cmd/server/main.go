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

	"caseviewer-backend/config"
	"caseviewer-backend/handlers"
	"caseviewer-backend/logging"
	"caseviewer-backend/metrics"
	"caseviewer-backend/repository"
	"caseviewer-backend/service"
	"caseviewer-backend/source"
	"caseviewer-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	// Load .env file from the current directory or the project root (relative to cmd/server/)
	envFile := config.LoadDotEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootstrapFatal("failed to load config", err)
	}

	logger, err := logging.New(cfg.Server.LogLevel)
	if err != nil {
		bootstrapFatal("failed to initialize logger", err)
	}
	defer func() { _ = logger.Sync() }()
	if envFile == "" {
		logger.Info("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := cfg.CaseCatalog()
	if err != nil {
		logger.Fatal("invalid catalog", zap.Error(err))
	}

	src, err := source.New(ctx, cfg.SourceConfig())
	if err != nil {
		logger.Fatal("failed to initialize source", zap.Error(err))
	}
	logger.Info("source initialized", zap.String("source", src.Name()))

	m := metrics.New()

	sessions := service.NewSessionService(
		service.WithSource(src),
		service.WithCatalog(catalog),
		service.WithLinkStyle(cfg.LinkStyle()),
		service.WithFetchTimeout(cfg.Source.FetchTimeout),
		service.WithSessionTTL(cfg.Sessions.TTL),
		service.WithMaxSessions(cfg.Sessions.Max),
		service.WithLogger(logger),
		service.WithMetrics(m),
	)

	exportOpts := []service.ExportServiceOption{
		service.ExportWithLogger(logger),
		service.ExportWithMetrics(m),
	}
	presets := service.NewPresetService(nil)

	// Presets and exports need Postgres; the dashboard works without it
	if cfg.DatabaseURL != "" {
		db, err := initPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to initialize Postgres", zap.Error(err))
		}
		defer db.Close()
		logger.Info("Postgres connection established")

		files, err := storage.NewStorage(cfg.StorageConfig())
		if err != nil {
			logger.Fatal("failed to initialize storage", zap.Error(err))
		}
		logger.Info("storage initialized", zap.String("type", cfg.Storage.Type))

		exportOpts = append(exportOpts,
			service.ExportWithStore(repository.NewExportRepository(db)),
			service.ExportWithStorage(files),
		)
		presets = service.NewPresetService(repository.NewPresetRepository(db))
	} else {
		logger.Warn("DATABASE_URL not set, presets and exports are disabled")
	}

	exports := service.NewExportService(sessions, exportOpts...)

	gin.SetMode(gin.ReleaseMode)
	r := handlers.NewRouter(handlers.Dependencies{
		Sessions: sessions,
		Exports:  exports,
		Presets:  presets,
		Logger:   logger,
		Metrics:  m,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// bootstrapFatal reports errors that happen before the configured logger exists
func bootstrapFatal(msg string, err error) {
	logger, _ := zap.NewProduction()
	logger.Fatal(msg, zap.Error(err))
}
