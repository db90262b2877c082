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

	"github.com/phonerisk/phonerisk/internal/application/usecase"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/domain/service"
	"github.com/phonerisk/phonerisk/internal/infrastructure/badger"
	"github.com/phonerisk/phonerisk/internal/infrastructure/config"
	"github.com/phonerisk/phonerisk/internal/infrastructure/kafka"
	"github.com/phonerisk/phonerisk/internal/infrastructure/metrics"
	"github.com/phonerisk/phonerisk/internal/infrastructure/postgres"
	"github.com/phonerisk/phonerisk/internal/infrastructure/provider"
	grpcpresentation "github.com/phonerisk/phonerisk/internal/presentation/grpc"
	"github.com/phonerisk/phonerisk/internal/presentation/rest"
	pkgkafka "github.com/phonerisk/phonerisk/pkg/kafka"
	"github.com/phonerisk/phonerisk/pkg/observability"
	pgutil "github.com/phonerisk/phonerisk/pkg/postgres"
)

const serviceName = "phoneriskd"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("phoneriskd exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting phoneriskd",
		"version", version,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"storage", cfg.StorageDriver,
	)

	// Telemetry.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    cfg.Environment,
	})
	if err != nil {
		return err
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	recorder, err := metrics.NewRecorder(meterProvider.Meter("github.com/phonerisk/phonerisk"))
	if err != nil {
		return err
	}

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName:    serviceName,
			ServiceVersion: version,
			Environment:    cfg.Environment,
			OTLPEndpoint:   cfg.OTLPEndpoint,
			Insecure:       true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// Storage.
	repo, checks, closeStore, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Messaging.
	var publisher port.EventPublisher
	var producer *pkgkafka.Producer
	kafkaCfg := pkgkafka.Config{Brokers: cfg.Kafka.Brokers, ConsumerGroup: cfg.Kafka.ConsumerGroup}
	if cfg.Kafka.Enabled {
		producer, err = pkgkafka.NewProducer(kafkaCfg)
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		defer producer.Close()
		publisher = kafka.NewPublisher(producer, cfg.Kafka.EventsTopic, logger)
		logger.Info("event publishing enabled", "topic", cfg.Kafka.EventsTopic)
	}

	// Domain services and use cases.
	providers := provider.Build(cfg.Providers, logger, nil)
	aggregator := service.NewAggregator(providers, service.NewRiskScorer(), logger,
		service.WithParallelFetch(cfg.ParallelFetch),
		service.WithMetrics(recorder),
	)

	analyzeUC := usecase.NewAnalyzePhone(repo, publisher, aggregator, logger,
		usecase.WithFreshnessWindow(cfg.FreshnessWindow),
		usecase.WithMetrics(recorder),
	)
	useCases := rest.UseCases{
		Analyze:    analyzeUC,
		Get:        usecase.NewGetAnalysis(repo),
		Breakdown:  usecase.NewScoreBreakdown(repo, service.NewRiskScorer()),
		Report:     usecase.NewGenerateReport(repo, nil),
		Delete:     usecase.NewDeleteAnalysis(repo),
		History:    usecase.NewListHistory(repo),
		Search:     usecase.NewSearchAnalyses(repo),
		Clear:      usecase.NewClearHistory(repo),
		Statistics: usecase.NewGetStatistics(repo),
	}

	// gRPC server.
	grpcHandler := grpcpresentation.NewPhoneRiskHandler(useCases.Analyze, useCases.Get, useCases.Breakdown, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:    cfg.GRPCAddress(),
		CertFile:   cfg.TLSCertFile,
		KeyFile:    cfg.TLSKeyFile,
		Reflection: cfg.GRPCReflection,
	}, logger)
	if err != nil {
		return err
	}

	// HTTP server.
	router := rest.NewRouter(
		rest.NewAnalysisHandler(useCases, logger),
		rest.NewHealthHandler(version, checks, logger),
		metricsHandler,
		logger,
	)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      analyzeWriteTimeout(cfg.Providers),
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcServer.Start(); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if cfg.Kafka.Enabled && cfg.Kafka.RequestsTopic != "" {
		requests := kafka.NewRequestConsumer(analyzeUC, logger)
		consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.RequestsTopic, requests.Handle, logger)
		if err != nil {
			return fmt.Errorf("failed to create kafka consumer: %w", err)
		}
		defer consumer.Close()

		g.Go(func() error { return consumer.Start(gctx) })
	}

	logger.Info("phoneriskd started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for a shutdown signal or the first server failure.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down phoneriskd")

		grpcServer.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("phoneriskd stopped")
	return err
}

// openRepository connects the configured store and returns its readiness
// checks plus a function releasing it.
func openRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.AnalysisRepository, map[string]rest.Check, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageBadger:
		db, err := badger.Open(badger.Config{
			Logger:         logger,
			Path:           cfg.BadgerDir,
			GCInterval:     5 * time.Minute,
			GCDiscardRatio: 0.5,
			SyncWrites:     true,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("opened badger store", "path", cfg.BadgerDir)
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close badger store", "error", err)
			}
		}
		return badger.NewAnalysisRepository(db), nil, closeDB, nil

	default:
		if cfg.MigrationsDir != "" {
			if err := pgutil.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
				return nil, nil, nil, err
			}
			logger.Info("database migrations applied", "dir", cfg.MigrationsDir)
		}

		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		defer dbCancel()

		pool, err := pgutil.NewPool(dbCtx, pgutil.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("connected to database")

		checks := map[string]rest.Check{
			"database": func(ctx context.Context) error { return pgutil.HealthCheck(ctx, pool) },
		}
		return postgres.NewAnalysisRepository(pool), checks, pool.Close, nil
	}
}

// analyzeWriteTimeout covers the slowest sequential analysis: one Numverify
// call and three IPQS-backed lookups, plus headroom for storage.
func analyzeWriteTimeout(p config.ProvidersConfig) time.Duration {
	return p.Numverify.EffectiveTimeout() + 3*p.IPQS.EffectiveTimeout() + 30*time.Second
}
