// Package app wires configuration into the store, file storage and services
// shared by the server and faqctl.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BigDee2008/FAQForge/config"
	"github.com/BigDee2008/FAQForge/metrics"
	"github.com/BigDee2008/FAQForge/repository"
	"github.com/BigDee2008/FAQForge/service"
	"github.com/BigDee2008/FAQForge/storage"
)

// App holds the initialized collaborators
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Store   repository.Store
	Files   storage.Storage

	Generation *service.GenerationService
	Faqs       *service.FaqService
	Exports    *service.ExportService
	Users      *service.UserService

	closers []func() error
}

// New opens the configured store and file storage, migrates the schema and
// builds the services. A nil generator leaves generation unavailable.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, generator service.TextGenerator) (*App, error) {
	m := metrics.Registry(cfg.MetricsNamespace)

	store, err := repository.NewStoreFromConfig(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	logger.Info("store initialized", "backend", cfg.Store.Backend)

	files, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("storage initialized", "type", cfg.Storage.Type)

	generation := service.NewGenerationService(generator, logger)

	a := &App{
		Config:     cfg,
		Logger:     logger,
		Metrics:    m,
		Store:      store,
		Files:      files,
		Generation: generation,
		Faqs: service.NewFaqService(
			service.FaqWithRepository(store.Faqs()),
			service.FaqWithGenerationService(generation),
			service.FaqWithDailyLimit(cfg.DailyLimit),
			service.FaqWithLocation(cfg.QuotaLocation),
			service.FaqWithLogger(logger),
			service.FaqWithMetrics(m),
		),
		Exports: service.NewExportService(
			service.ExportWithRepository(store.Faqs()),
			service.ExportWithStorage(files),
			service.ExportWithLogger(logger),
			service.ExportWithMetrics(m),
		),
		Users: service.NewUserService(
			service.UserWithRepository(store.Users()),
			service.UserWithLogger(logger),
		),
		closers: []func() error{store.Close},
	}
	return a, nil
}

// OnClose registers fn to run when the app is closed
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of registration
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
