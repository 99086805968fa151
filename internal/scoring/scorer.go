package scoring

import (
	"math"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
)

// Scorer computes the composite stress score of one customer-week
// ⭐ SSOT: pure function of (config, record), no side effects
type Scorer struct {
	rules      [contracts.SignalCount]engineconfig.SignalRule
	classifier *Classifier
}

// NewScorer validates cfg and builds a Scorer
func NewScorer(cfg *engineconfig.Config) (*Scorer, error) {
	if err := engineconfig.Validate(cfg); err != nil {
		return nil, err
	}

	s := &Scorer{classifier: NewClassifier(cfg.Tiers)}
	for _, rule := range cfg.Scoring.Signals {
		s.rules[rule.Signal.Index()] = rule
	}
	return s, nil
}

// Classifier returns the tier classifier bound to the scorer's config
func (s *Scorer) Classifier() *Classifier {
	return s.classifier
}

// Contributions returns the weighted, clipped contribution of every signal
// Each value lies in [0, weight]. The record is not validated here.
func (s *Scorer) Contributions(r contracts.SignalRecord) contracts.Contributions {
	var c contracts.Contributions
	for i, rule := range s.rules {
		c[i] = rule.Weight * Normalize(rule, r.Value(rule.Signal))
	}
	return c
}

// Score validates the record and returns its score, tier and contributions
func (s *Scorer) Score(r contracts.SignalRecord) (contracts.ScoreResult, error) {
	if err := r.Validate(); err != nil {
		return contracts.ScoreResult{}, err
	}

	c := s.Contributions(r)
	score := clip01(c.Sum())

	return contracts.ScoreResult{
		CustomerID:    r.CustomerID,
		Week:          r.Week,
		Score:         score,
		Tier:          s.classifier.Classify(score),
		Contributions: c,
	}, nil
}

// Normalize maps a raw value onto [0,1] with the rule's clipped linear function
func Normalize(rule engineconfig.SignalRule, x float64) float64 {
	var v float64
	switch rule.Direction {
	case engineconfig.DirectionIncreasing:
		v = (x - rule.Threshold) / rule.Span
	case engineconfig.DirectionDecreasing:
		v = (rule.Threshold - x) / rule.Span
	case engineconfig.DirectionFlag:
		v = x
	}
	return clip01(v)
}

// clip01 clamps to [0,1]; inclusive at both ends, NaN maps to 0
func clip01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
