package scoring

import (
	"github.com/sentryline/fraud-triage/internal/domain"
)

// Aggregator combines pattern findings and verification results into one
// ScoreState by interpreting an ordered rule table. Aggregation only starts
// once every verifier result the table reads is present, because the override
// ordering depends on having domain and SSL outcomes side by side.
type Aggregator struct{}

func NewAggregator() *Aggregator { return &Aggregator{} }

// AggregateSafety runs the safety-polarity table. The score starts
// optimistic at 100 for every subject; the allowlist does not change the
// starting point, it disables penalties inside the rules and applies the
// final floor of 90.
func (a *Aggregator) AggregateSafety(in *Input) domain.ScoreState {
	state := domain.ScoreState{
		Score:    100,
		Threats:  make([]domain.Threat, 0),
		Warnings: make([]string, 0),
	}
	Run(SafetyRules, in, &state)
	return state
}

// AggregateFraud runs the fraud-polarity table: the score starts at 0 and
// finding severities accumulate upward.
func (a *Aggregator) AggregateFraud(in *Input) domain.ScoreState {
	state := domain.ScoreState{
		Score:    0,
		Threats:  make([]domain.Threat, 0),
		Warnings: make([]string, 0),
	}
	Run(FraudRules, in, &state)
	return state
}
