/*
faqctl administers a FAQForge deployment from the terminal.

Usage:

	faqctl [command]

Available Commands:

	migrate     Create or update the record store schema
	user        Manage legacy username/password accounts
	generate    Generate an FAQ for a user, subject to the daily limit
	show        Print a stored FAQ
	export      Export a stored FAQ as an HTML or Markdown document

Configuration is read from the same environment variables and .env file as
the server.
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BigDee2008/FAQForge/app"
	"github.com/BigDee2008/FAQForge/config"
	"github.com/BigDee2008/FAQForge/logging"
	"github.com/BigDee2008/FAQForge/metrics"
	"github.com/BigDee2008/FAQForge/repository"
	"github.com/BigDee2008/FAQForge/service"

	"github.com/spf13/cobra"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates the faqctl root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&appOpener{})
}

func newRootCmd(opener *appOpener) *cobra.Command {
	root := &cobra.Command{
		Use:          "faqctl",
		Short:        "Administer FAQForge",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opener.backend, "store", "", "Override STORE_BACKEND (memory, postgres, sqlite, redis)")

	root.AddCommand(
		NewMigrateCmd(opener),
		NewUserCmd(opener),
		NewGenerateCmd(opener),
		NewShowCmd(opener),
		NewExportCmd(opener),
	)
	return root
}

// appOpener builds an App from config for a single command run
type appOpener struct {
	backend string

	// loadConfig is replaced in tests
	loadConfig func() (*config.Config, error)
}

func (o *appOpener) open(ctx context.Context, withGenerator bool) (*app.App, error) {
	load := o.loadConfig
	if load == nil {
		load = config.Load
	}
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.backend != "" {
		cfg.Store.Backend = repository.Backend(o.backend)
	}

	logger := logging.NewLoggerTo(os.Stderr, cfg.LogLevel)

	var generator service.TextGenerator
	var gemini *service.GeminiGenerator
	if withGenerator {
		gemini, err = service.NewGeminiGenerator(ctx, service.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, logger, metrics.Registry(cfg.MetricsNamespace))
		if err != nil {
			return nil, err
		}
		generator = gemini
	}

	a, err := app.New(ctx, cfg, logger, generator)
	if err != nil {
		if gemini != nil {
			gemini.Close()
		}
		return nil, err
	}
	if gemini != nil {
		a.OnClose(gemini.Close)
	}
	return a, nil
}
