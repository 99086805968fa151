package feed

import (
	"fmt"
	"time"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/pkg/config"
	"github.com/wonny/pdie/pkg/httputil"
	"github.com/wonny/pdie/pkg/logger"
)

// NewSource builds the configured signal source
// db is only consulted for the postgres feed and may be nil otherwise.
func NewSource(cfg config.FeedConfig, db Querier, log *logger.Logger) (contracts.SignalSource, error) {
	switch cfg.Source {
	case config.FeedSynthetic, "":
		return NewSynthetic(cfg.Customers, cfg.Weeks, cfg.Seed), nil
	case config.FeedCSV:
		if cfg.CSVPath == "" {
			return nil, fmt.Errorf("csv feed: FEED_CSV_PATH is required")
		}
		return NewCSVSource(cfg.CSVPath), nil
	case config.FeedPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres feed: database pool is required")
		}
		return NewPostgresSource(db, cfg.Table), nil
	case config.FeedHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("http feed: FEED_URL is required")
		}
		return NewHTTPSource(cfg.URL, httputil.New(60*time.Second, log)), nil
	default:
		return nil, fmt.Errorf("unknown feed source %q", cfg.Source)
	}
}
