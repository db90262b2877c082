package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phonerisk/phonerisk/internal/application/usecase"
	"github.com/phonerisk/phonerisk/internal/domain/service"
	"github.com/phonerisk/phonerisk/internal/infrastructure/badger"
	"github.com/phonerisk/phonerisk/internal/infrastructure/config"
	"github.com/phonerisk/phonerisk/internal/infrastructure/provider"
	"github.com/phonerisk/phonerisk/pkg/observability"
)

// app is the CLI's wiring over a local Badger store.
type app struct {
	db     *badger.DB
	repo   *badger.AnalysisRepository
	logger *slog.Logger
}

func openApp(opts *rootOptions, stderr io.Writer) (*app, error) {
	logger := observability.NewLogger(observability.LogConfig{
		Level:  opts.logLevel,
		Format: opts.logFormat,
		Output: stderr,
	})

	cfg := badger.DefaultConfig(opts.storeDir)
	cfg.Logger = logger
	cfg.GCInterval = 0
	db, err := badger.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", opts.storeDir, err)
	}

	return &app{db: db, repo: badger.NewAnalysisRepository(db), logger: logger}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) analyzer(providersFile string, parallel bool) (*usecase.AnalyzePhone, error) {
	providers, err := config.ProvidersFromEnv(providersFile)
	if err != nil {
		return nil, err
	}

	aggregator := service.NewAggregator(
		provider.Build(providers, a.logger, nil),
		service.NewRiskScorer(),
		a.logger,
		service.WithParallelFetch(parallel),
	)
	return usecase.NewAnalyzePhone(a.repo, nil, aggregator, a.logger), nil
}
