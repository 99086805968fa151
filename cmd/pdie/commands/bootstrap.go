package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
	"github.com/wonny/pdie/internal/feed"
	"github.com/wonny/pdie/internal/portfolio"
	"github.com/wonny/pdie/pkg/config"
	"github.com/wonny/pdie/pkg/database"
	"github.com/wonny/pdie/pkg/logger"
)

// app is the wired engine shared by every command
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	engine   *engineconfig.Config
	db       *database.DB
	source   contracts.SignalSource
	analyzer *portfolio.Analyzer
	service  *portfolio.Service
}

// loadApp reads process + engine config, connects the feed and builds the service
// One-shot commands log to stderr so stdout stays machine-readable; daemons use logger.New.
func loadApp(ctx context.Context, daemon bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if engineConfigPath != "" {
		cfg.EngineConfigPath = engineConfigPath
	}
	if feedSource != "" {
		cfg.Feed.Source = feedSource
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	var log *logger.Logger
	if daemon {
		log = logger.New(cfg)
	} else {
		level := cfg.LogLevel
		if !verbose && level == "info" {
			level = "warn"
		}
		log = logger.NewWithWriter(os.Stderr, level)
	}

	engine, err := engineconfig.LoadOrDefault(cfg.EngineConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load engine config: %w", err)
	}
	for _, w := range engineconfig.Warn(engine) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	a := &app{cfg: cfg, log: log, engine: engine}

	var querier feed.Querier
	if cfg.Feed.Source == config.FeedPostgres {
		a.db, err = database.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		querier = a.db.Pool
	}

	a.source, err = feed.NewSource(cfg.Feed, querier, log)
	if err != nil {
		a.close()
		return nil, err
	}

	a.analyzer, err = portfolio.NewAnalyzer(engine, log)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("build analyzer: %w", err)
	}
	a.service = portfolio.NewService(a.analyzer, a.source, log)

	log.WithFields(map[string]interface{}{
		"engine_id":   engine.Meta.EngineID,
		"config_hash": a.analyzer.ConfigHash()[:12],
		"feed":        a.source.Name(),
	}).Debug("engine initialised")
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}
