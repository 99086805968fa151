package portfolio

import (
	"context"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/impact"
	"github.com/wonny/pdie/internal/metrics"
)

// TierCounts returns the latest-week tier distribution
func (a *Analyzer) TierCounts(ctx context.Context, ds *Dataset) (contracts.TierCounts, error) {
	snapshot, err := a.Snapshot(ctx, ds)
	if err != nil {
		return contracts.TierCounts{}, err
	}
	return snapshot.Counts(), nil
}

// SimulateImpact runs the impact simulator on the latest-week tier counts
// A nil params uses the impact defaults of the engine config.
func (a *Analyzer) SimulateImpact(ctx context.Context, ds *Dataset, params *contracts.ImpactParams) (*contracts.ImpactRun, error) {
	counts, err := a.TierCounts(ctx, ds)
	if err != nil {
		return nil, err
	}
	return a.SimulateCounts(counts, params)
}

// SimulateCounts runs the impact simulator on explicit tier counts
func (a *Analyzer) SimulateCounts(counts contracts.TierCounts, params *contracts.ImpactParams) (*contracts.ImpactRun, error) {
	p := a.cfg.Impact
	if params != nil {
		p = *params
	}

	report, err := impact.Run(counts, p)
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues("invalid").Inc()
		a.logger.WithError(err).Warn("impact simulation rejected")
		return nil, err
	}

	run := impact.NewRun(report, a.configHash)
	metrics.SimulationsTotal.WithLabelValues("ok").Inc()
	metrics.ProjectedNetSavings.Set(report.Net.NetSavings)

	a.logger.WithFields(map[string]interface{}{
		"run_id":      run.RunID,
		"high":        counts.High,
		"medium":      counts.Medium,
		"capacity":    p.WeeklyCapacity,
		"net_savings": report.Net.NetSavings,
	}).Info("impact simulation completed")
	return run, nil
}
