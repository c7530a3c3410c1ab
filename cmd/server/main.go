package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BigDee2008/FAQForge/app"
	"github.com/BigDee2008/FAQForge/config"
	"github.com/BigDee2008/FAQForge/handlers"
	"github.com/BigDee2008/FAQForge/logging"
	"github.com/BigDee2008/FAQForge/metrics"
	"github.com/BigDee2008/FAQForge/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger("error").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	generator, err := service.NewGeminiGenerator(ctx, service.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}, logger, metrics.Registry(cfg.MetricsNamespace))
	if err != nil {
		return err
	}

	application, err := app.New(ctx, cfg, logger, generator)
	if err != nil {
		generator.Close()
		return err
	}
	application.OnClose(generator.Close)
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("failed to release resources", "error", err)
		}
	}()

	faqHandler := handlers.NewFaqHandler(application.Faqs, application.Exports, logger)
	router := handlers.SetupRouter(handlers.RouterDeps{
		FaqHandler: faqHandler,
		Identity:   handlers.NewIdentityResolver(cfg.AuthTokens),
		Health:     application.Store,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "daily_limit", cfg.DailyLimit)
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
