package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/pdie/internal/portfolio"
	"github.com/wonny/pdie/pkg/logger"
	"github.com/wonny/pdie/pkg/redis"
)

// Event kinds published after a scoring run
const (
	EventSnapshot = "snapshot"
	EventQueue    = "queue"
	EventImpact   = "impact"
)

// Publisher fans events out to stream subscribers
type Publisher interface {
	Publish(kind string, payload interface{})
}

// WeeklyScoringJob reloads the feed, rescores the portfolio and projects impact
type WeeklyScoringJob struct {
	service   *portfolio.Service
	publisher Publisher
	cache     *redis.Cache
	schedule  string
	logger    *logger.Logger
}

// NewWeeklyScoringJob creates the job; publisher and cache may be nil
func NewWeeklyScoringJob(service *portfolio.Service, publisher Publisher, cache *redis.Cache, schedule string, log *logger.Logger) *WeeklyScoringJob {
	if log == nil {
		log = logger.Nop()
	}
	return &WeeklyScoringJob{
		service:   service,
		publisher: publisher,
		cache:     cache,
		schedule:  schedule,
		logger:    log.WithComponent("weekly_scoring"),
	}
}

// Name returns the job name
func (j *WeeklyScoringJob) Name() string {
	return "weekly_scoring"
}

// Schedule returns the cron expression
func (j *WeeklyScoringJob) Schedule() string {
	return j.schedule
}

// Run executes one scoring cycle
func (j *WeeklyScoringJob) Run(ctx context.Context) error {
	ds, report, err := j.service.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh portfolio: %w", err)
	}

	analyzer := j.service.Analyzer()
	run, err := analyzer.SimulateImpact(ctx, ds, nil)
	if err != nil {
		return fmt.Errorf("simulate impact: %w", err)
	}

	if j.cache != nil {
		key := redis.SnapshotKey(analyzer.ConfigHash(), ds.Fingerprint())
		if err := j.cache.Set(ctx, key, report, 0); err != nil {
			j.logger.WithError(err).Warn("snapshot cache write failed")
		}
	}

	if j.publisher != nil {
		j.publisher.Publish(EventSnapshot, report.Snapshot)
		j.publisher.Publish(EventQueue, report.Queue)
		j.publisher.Publish(EventImpact, run)
	}

	j.logger.WithFields(map[string]interface{}{
		"week":        report.Snapshot.Week,
		"high":        report.Snapshot.KPIs.HighCount,
		"queue":       len(report.Queue),
		"run_id":      run.RunID,
		"net_savings": run.Report.Net.NetSavings,
	}).Info("weekly scoring completed")
	return nil
}
