package intervention

import (
	"sort"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
	"github.com/wonny/pdie/internal/scoring"
)

// Projector estimates post-intervention risk and the lead-time indicator
type Projector struct {
	cfg        engineconfig.Projection
	classifier *scoring.Classifier
}

// NewProjector binds projection settings to the tier classifier
func NewProjector(cfg engineconfig.Projection, classifier *scoring.Classifier) *Projector {
	return &Projector{cfg: cfg, classifier: classifier}
}

// Project applies the tier's expected reduction and re-classifies
func (p *Projector) Project(res contracts.ScoreResult) contracts.Projection {
	reduction := p.cfg.Reduction(res.Tier)
	adjusted := res.Score * (1 - reduction)

	return contracts.Projection{
		Score:          res.Score,
		Tier:           res.Tier,
		Reduction:      reduction,
		AdjustedScore:  adjusted,
		AdjustedTier:   p.classifier.Classify(adjusted),
		AcceptanceRate: p.cfg.AcceptanceRate,
	}
}

// LeadTime reports whether the customer crossed into High at the given week
// history may be unordered; only weeks <= week are considered.
func (p *Projector) LeadTime(history []contracts.ScorePoint, week int) contracts.LeadTime {
	var current, previous *contracts.ScorePoint

	sorted := make([]contracts.ScorePoint, 0, len(history))
	for _, pt := range history {
		if pt.Week <= week {
			sorted = append(sorted, pt)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Week < sorted[j].Week })

	if n := len(sorted); n > 0 && sorted[n-1].Week == week {
		current = &sorted[n-1]
		if n > 1 {
			previous = &sorted[n-2]
		}
	}

	high := p.classifier.HighAbove()
	crossed := current != nil && previous != nil && current.Score > high && previous.Score <= high

	horizon := p.cfg.LeadTimeDefault
	if crossed {
		horizon = p.cfg.LeadTimeCrossed
	}
	return contracts.LeadTime{CrossedThisWeek: crossed, Horizon: horizon}
}
