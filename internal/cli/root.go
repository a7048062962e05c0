package cli

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"farmvibe/internal/config"
	"farmvibe/internal/database"
	"farmvibe/internal/generator"
	"farmvibe/internal/logging"
	"farmvibe/internal/resolver"
)

var (
	configPath string
	logLevel   string
)

// NewRootCommand builds the farmvibe command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "farmvibe",
		Short:         "Describe a farm vibe, get an aesthetic back",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a yaml config file (default ./config.yaml if present)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newServeCommand())
	root.AddCommand(newClassifyCommand())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// app holds the wired dependencies shared by subcommands.
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	db        database.Service
	generator generator.Generator
	opts      resolver.Options
	resolver  *resolver.Resolver
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	gen, err := generator.New(ctx, cfg, logger)
	if err != nil && !errors.Is(err, generator.ErrCredentialMissing) {
		return nil, err
	}

	db, err := database.New(cfg.Database.DSN)
	if err != nil {
		if gen != nil {
			_ = gen.Close()
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	opts := resolver.Options{
		Generator:         gen,
		Strict:            cfg.StrictCredentials,
		StaticDelay:       cfg.StaticDelay,
		GenerationTimeout: cfg.Generation.Timeout,
		Recorder:          db,
		Logger:            logger,
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		generator: gen,
		opts:      opts,
		resolver:  resolver.New(opts),
	}, nil
}

func (a *app) resolverWithoutDelay() *resolver.Resolver {
	opts := a.opts
	opts.StaticDelay = 0
	return resolver.New(opts)
}

func (a *app) Close() {
	if a.generator != nil {
		if err := a.generator.Close(); err != nil {
			a.logger.WithError(err).Warn("failed to close generator")
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Warn("failed to close ledger")
	}
}
