package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dwdash/internal/config"
	"github.com/dbsmedya/dwdash/internal/database"
	"github.com/dbsmedya/dwdash/internal/logger"
	"github.com/dbsmedya/dwdash/internal/report"
	"github.com/dbsmedya/dwdash/internal/warehouse"
)

// app is the wiring shared by every command that talks to the warehouse.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.Manager
	client   *warehouse.Client
	registry *report.Registry
	reports  []report.Report
	runner   *report.Runner
}

// loadConfig reads the env file and config file, applies CLI overrides and
// validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	optional := !cmd.Flags().Changed("env-file")
	if err := config.LoadDotEnv(envFile, optional); err != nil {
		return nil, err
	}

	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	o := GetCLIOverrides()
	cfg.ApplyOverrides(o.LogLevel, o.LogFormat, o.Listen, o.Seed, o.Reports)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newApp loads configuration, connects to the warehouse and builds the
// enabled reports.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db := database.NewManager(&cfg.Warehouse)
	if err := db.Connect(ctx); err != nil {
		return nil, err
	}
	log.Infow("connected to warehouse", "warehouse", db.Describe())

	registry := report.NewRegistry(report.OptionsFromConfig(&cfg.Reports))
	reports, err := registry.Select(cfg.EnabledReports())
	if err != nil {
		db.Close()
		return nil, err
	}

	client := warehouse.NewClient(db.Warehouse, db.Dialect(), log)
	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		client:   client,
		registry: registry,
		reports:  reports,
		runner:   report.NewRunner(client, log),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warnw("failed to close warehouse connection", "error", err)
	}
	_ = a.log.Sync()
}
