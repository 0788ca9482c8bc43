package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"bellybutton/adapters/file"
	"bellybutton/adapters/postgres"
	"bellybutton/adapters/remote"
	"bellybutton/internal"
	"bellybutton/internal/config"
	"bellybutton/internal/dashboard"
	"bellybutton/internal/errors"
	"bellybutton/internal/metrics"
	"bellybutton/internal/testkit"
	"bellybutton/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Observability
	Registry *prometheus.Registry
	Metrics  *metrics.Recorder

	// Infrastructure, only set for the postgres source
	DB *sqlx.DB

	Source ports.DatasetSource
}

// New creates a container with logger and metrics registry configured
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger, err := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level), cfg.Log.Format)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Metrics:  metrics.New(registry),
	}, nil
}

// InitSource creates the dataset source selected by the configuration,
// connecting to the database when the postgres source is used
func (c *Container) InitSource(ctx context.Context) error {
	cfg := c.Config.Dataset

	switch cfg.Source {
	case config.SourceRemote:
		c.Source = remote.NewSource(cfg.URL, cfg.FetchTimeout, cfg.MaxBytes)
	case config.SourceFile:
		c.Source = file.NewSource(cfg.File, cfg.MaxBytes)
	case config.SourcePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
		db, err := postgres.Connect(connectCtx, c.Config.Database.URL)
		if err != nil {
			return err
		}
		c.DB = db
		c.Source = postgres.NewSource(db, c.Config.Database.Table, c.Config.Database.DatasetName)
	case config.SourceSynthetic:
		c.Source = testkit.NewSource(testkit.DefaultGeneratorConfig())
	default:
		return errors.ConfigInvalid("unknown dataset source: " + cfg.Source)
	}

	c.Logger.With("Container").Info("dataset source: %s", c.Source.Describe())
	return nil
}

// NewController creates a dashboard controller over the configured source
func (c *Container) NewController(renderer ports.Renderer) (*dashboard.Controller, error) {
	if c.Source == nil {
		return nil, fmt.Errorf("dataset source not initialized")
	}
	return dashboard.NewController(c.Source, renderer,
		dashboard.WithLogger(c.Logger),
		dashboard.WithMetrics(c.Metrics),
	), nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	var firstErr error
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			firstErr = errors.DatabaseError("failed to close database", err)
		}
		c.DB = nil
	}
	// syncing a console logger attached to a terminal can fail harmlessly
	_ = c.Logger.Sync()
	return firstErr
}
