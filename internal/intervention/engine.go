package intervention

import (
	"fmt"
	"strings"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
)

// Engine maps a customer-week's signals, tier and drivers to a recommendation
type Engine struct {
	rules            []Rule
	channels         engineconfig.Channels
	rationaleDrivers int
}

// NewEngine validates cfg and builds the default decision list
func NewEngine(cfg *engineconfig.Config) (*Engine, error) {
	if err := engineconfig.Validate(cfg); err != nil {
		return nil, err
	}
	return &Engine{
		rules:            DefaultRules(cfg.Intervention),
		channels:         cfg.Intervention.Channels,
		rationaleDrivers: cfg.Intervention.RationaleDrivers,
	}, nil
}

// Rules returns the decision list in evaluation order
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Match returns the first rule whose predicate holds
func (e *Engine) Match(in Input) Rule {
	for _, r := range e.rules {
		if r.When(in) {
			return r
		}
	}
	// unreachable with DefaultRules: the monitor rule always matches
	return e.rules[len(e.rules)-1]
}

// Recommend evaluates the decision list and fills channel and rationale
func (e *Engine) Recommend(in Input) contracts.Recommendation {
	rule := e.Match(in)
	return contracts.Recommendation{
		RuleID:    rule.ID,
		Action:    rule.Action,
		Message:   rule.Message(in),
		Rationale: e.Rationale(in.Drivers),
		Channel:   e.Channel(in.Tier),
	}
}

// Channel is a tier-only decision, independent of the rule that fired
func (e *Engine) Channel(tier contracts.Tier) string {
	return e.channels.For(tier)
}

// Rationale cites the top driver labels, whichever rule fired
func (e *Engine) Rationale(drivers []contracts.Driver) string {
	n := min(len(drivers), e.rationaleDrivers)
	if n == 0 {
		return "Recommended based on this week's signal profile."
	}
	labels := contracts.DriverLabels(drivers[:n])
	return fmt.Sprintf("Recommended because key drivers this week are %s.", strings.Join(labels, ", "))
}
