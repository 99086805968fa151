package portfolio

import (
	"context"
	"math"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
	"github.com/wonny/pdie/internal/intervention"
	"github.com/wonny/pdie/internal/metrics"
	"github.com/wonny/pdie/internal/risk"
	"github.com/wonny/pdie/internal/scoring"
	"github.com/wonny/pdie/pkg/logger"
)

// Analyzer assembles the scoring components into portfolio views
// ⭐ SSOT: the only place that wires scorer, risk engine and intervention engine together
type Analyzer struct {
	cfg           *engineconfig.Config
	configHash    string
	scorer        *scoring.Scorer
	risk          *risk.Engine
	interventions *intervention.Engine
	projector     *intervention.Projector
	workers       int
	logger        *logger.Logger
}

// Report is the latest-week portfolio snapshot plus the RM case queue
type Report struct {
	Snapshot *contracts.PortfolioSnapshot `json:"snapshot"`
	Queue    []contracts.CaseQueueItem    `json:"queue"`
}

// NewAnalyzer validates cfg once and builds every engine component from it
func NewAnalyzer(cfg *engineconfig.Config, log *logger.Logger) (*Analyzer, error) {
	scorer, err := scoring.NewScorer(cfg)
	if err != nil {
		return nil, err
	}
	riskEngine, err := risk.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	interventions, err := intervention.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	hash, err := engineconfig.Hash(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Analyzer{
		cfg:           cfg,
		configHash:    hash,
		scorer:        scorer,
		risk:          riskEngine,
		interventions: interventions,
		projector:     intervention.NewProjector(cfg.Projection, scorer.Classifier()),
		workers:       runtime.GOMAXPROCS(0),
		logger:        log.WithComponent("analyzer"),
	}, nil
}

// Config returns the engine configuration
func (a *Analyzer) Config() *engineconfig.Config {
	return a.cfg
}

// ConfigHash returns the SHA-256 of the engine configuration
func (a *Analyzer) ConfigHash() string {
	return a.configHash
}

// Interventions returns the intervention engine
func (a *Analyzer) Interventions() *intervention.Engine {
	return a.interventions
}

// ScoreHistory scores every week of a customer, ascending
func (a *Analyzer) ScoreHistory(ds *Dataset, customerID string) ([]contracts.ScoreResult, error) {
	history, err := ds.History(customerID)
	if err != nil {
		return nil, err
	}

	results := make([]contracts.ScoreResult, 0, len(history))
	for _, r := range history {
		res, err := a.scorer.Score(r)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	metrics.RecordsScored.Add(float64(len(results)))
	return results, nil
}

// CustomerView computes everything shown for one customer-week
// week <= 0 selects the customer's last week. Trend and stability only see
// weeks up to and including the selected one, and so does History.
func (a *Analyzer) CustomerView(ds *Dataset, customerID string, week int) (*contracts.CustomerView, error) {
	if week <= 0 {
		last, err := ds.LastWeek(customerID)
		if err != nil {
			return nil, err
		}
		week = last
	}
	record, err := ds.Record(customerID, week)
	if err != nil {
		return nil, err
	}

	results, err := a.ScoreHistory(ds, customerID)
	if err != nil {
		return nil, err
	}
	upToWeek := points(results[:week])
	current := results[week-1]

	drivers := scoring.Attribute(record, current.Contributions, a.cfg.Intervention.DetailDrivers)
	rec := a.interventions.Recommend(intervention.Input{Record: record, Tier: current.Tier, Drivers: drivers})

	return &contracts.CustomerView{
		Result:         current,
		Drivers:        drivers,
		Trend:          a.risk.Trend(upToWeek),
		Stability:      a.risk.Stability(upToWeek),
		Recommendation: rec,
		Strategy:       intervention.StrategyTable(drivers),
		Projection:     a.projector.Project(current),
		LeadTime:       a.projector.LeadTime(upToWeek, week),
		History:        upToWeek,
	}, nil
}

// assessment is the per-customer result of one snapshot pass
type assessment struct {
	row    contracts.CustomerSnapshot
	score  float64
	action string
	ruleID string
}

// Analyze scores the whole portfolio at the latest week, in parallel per customer
// Customers without a record at the latest week are left out of the snapshot.
func (a *Analyzer) Analyze(ctx context.Context, ds *Dataset) (*Report, error) {
	start := time.Now()
	latest := ds.LatestWeek()
	customers := ds.Customers()
	assessed := make([]*assessment, len(customers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, id := range customers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := a.assess(ds, id, latest)
			if err != nil {
				return err
			}
			assessed[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.logger.WithError(err).Error("portfolio analysis failed")
		return nil, err
	}

	rows := make([]assessment, 0, len(assessed))
	for _, as := range assessed {
		if as != nil {
			rows = append(rows, *as)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		return rows[i].row.CustomerID < rows[j].row.CustomerID
	})

	snapshot := &contracts.PortfolioSnapshot{
		Week:        latest,
		ConfigHash:  a.configHash,
		GeneratedAt: time.Now().UTC(),
		Rows:        make([]contracts.CustomerSnapshot, len(rows)),
	}
	for i, r := range rows {
		snapshot.Rows[i] = r.row
		metrics.RecommendationsTotal.WithLabelValues(r.ruleID).Inc()
	}
	snapshot.KPIs = kpis(latest, rows)

	report := &Report{Snapshot: snapshot, Queue: a.caseQueue(rows)}
	a.observe(report, time.Since(start))
	return report, nil
}

// Snapshot is Analyze without the case queue
func (a *Analyzer) Snapshot(ctx context.Context, ds *Dataset) (*contracts.PortfolioSnapshot, error) {
	report, err := a.Analyze(ctx, ds)
	if err != nil {
		return nil, err
	}
	return report.Snapshot, nil
}

// CaseQueue returns the RM case queue at the latest week
func (a *Analyzer) CaseQueue(ctx context.Context, ds *Dataset) ([]contracts.CaseQueueItem, error) {
	report, err := a.Analyze(ctx, ds)
	if err != nil {
		return nil, err
	}
	return report.Queue, nil
}

func (a *Analyzer) assess(ds *Dataset, customerID string, week int) (*assessment, error) {
	last, err := ds.LastWeek(customerID)
	if err != nil {
		return nil, err
	}
	if last < week {
		return nil, nil
	}

	results, err := a.ScoreHistory(ds, customerID)
	if err != nil {
		return nil, err
	}
	record, err := ds.Record(customerID, week)
	if err != nil {
		return nil, err
	}
	current := results[week-1]
	drivers := scoring.Attribute(record, current.Contributions, a.cfg.Intervention.RationaleDrivers)
	trend := a.risk.Trend(points(results[:week]))
	rec := a.interventions.Recommend(intervention.Input{Record: record, Tier: current.Tier, Drivers: drivers})

	return &assessment{
		row: contracts.CustomerSnapshot{
			CustomerID: customerID,
			Week:       week,
			Score:      round3(current.Score),
			Tier:       current.Tier,
			Trend:      trend.Label,
			TopReason:  drivers[0].Label,
		},
		score:  current.Score,
		action: rec.Action,
		ruleID: rec.RuleID,
	}, nil
}

// caseQueue lists High-tier customers, P1 when rising, by priority then score
func (a *Analyzer) caseQueue(rows []assessment) []contracts.CaseQueueItem {
	type queued struct {
		item  contracts.CaseQueueItem
		score float64
	}

	var q []queued
	for _, r := range rows {
		if r.row.Tier != contracts.TierHigh {
			continue
		}
		priority := contracts.PriorityP2
		if r.row.Trend == contracts.TrendRising {
			priority = contracts.PriorityP1
		}
		q = append(q, queued{
			item: contracts.CaseQueueItem{
				CustomerID: r.row.CustomerID,
				Score:      r.row.Score,
				Trend:      r.row.Trend,
				TopReason:  r.row.TopReason,
				Action:     r.action,
				Channel:    a.interventions.Channel(contracts.TierHigh),
				Priority:   priority,
			},
			score: r.score,
		})
	}

	sort.SliceStable(q, func(i, j int) bool {
		if q[i].item.Priority != q[j].item.Priority {
			return q[i].item.Priority < q[j].item.Priority
		}
		if q[i].score != q[j].score {
			return q[i].score > q[j].score
		}
		return q[i].item.CustomerID < q[j].item.CustomerID
	})

	out := make([]contracts.CaseQueueItem, len(q))
	for i, v := range q {
		out[i] = v.item
	}
	return out
}

// kpis summarises snapshot rows
func kpis(week int, rows []assessment) contracts.PortfolioKPIs {
	k := contracts.PortfolioKPIs{Week: week, Monitored: len(rows)}
	var sum float64
	for _, r := range rows {
		sum += r.score
		switch r.row.Tier {
		case contracts.TierHigh:
			k.HighCount++
		case contracts.TierMedium:
			k.MediumCount++
		default:
			k.LowCount++
		}
		switch r.row.Trend {
		case contracts.TrendRising:
			k.Rising++
		case contracts.TrendFalling:
			k.Falling++
		default:
			k.Stable++
		}
	}
	if len(rows) > 0 {
		k.AverageScore = sum / float64(len(rows))
	}
	return k
}

func (a *Analyzer) observe(report *Report, elapsed time.Duration) {
	k := report.Snapshot.KPIs
	metrics.SnapshotDuration.Observe(elapsed.Seconds())
	metrics.CustomersByTier.WithLabelValues(string(contracts.TierHigh)).Set(float64(k.HighCount))
	metrics.CustomersByTier.WithLabelValues(string(contracts.TierMedium)).Set(float64(k.MediumCount))
	metrics.CustomersByTier.WithLabelValues(string(contracts.TierLow)).Set(float64(k.LowCount))
	metrics.CustomersByTrend.WithLabelValues(string(contracts.TrendRising)).Set(float64(k.Rising))
	metrics.CustomersByTrend.WithLabelValues(string(contracts.TrendFalling)).Set(float64(k.Falling))
	metrics.CustomersByTrend.WithLabelValues(string(contracts.TrendStable)).Set(float64(k.Stable))

	a.logger.WithFields(map[string]interface{}{
		"week":      k.Week,
		"monitored": k.Monitored,
		"high":      k.HighCount,
		"medium":    k.MediumCount,
		"queue":     len(report.Queue),
		"elapsed":   elapsed.String(),
	}).Info("portfolio snapshot computed")
}

func points(results []contracts.ScoreResult) []contracts.ScorePoint {
	out := make([]contracts.ScorePoint, len(results))
	for i, r := range results {
		out[i] = contracts.ScorePoint{Week: r.Week, Score: r.Score}
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
