package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// ReviewThreshold is the composite score above which a transaction is
// flagged for manual review
const ReviewThreshold = 70

var (
	highValueThreshold     = decimal.NewFromInt(10000)
	veryHighValueThreshold = decimal.NewFromInt(50000)
)

// CompositeResult is the outcome of composite transaction risk scoring
type CompositeResult struct {
	Score       int
	Signals     []string
	NeedsReview bool
}

// CompositeScorer scores transactions by combining amount tier, merchant
// trust and device telemetry. The model is additive-only: there is no
// allowlist short-circuit for payments, every signal stacks.
type CompositeScorer struct{}

func NewCompositeScorer() *CompositeScorer { return &CompositeScorer{} }

// Score evaluates a transaction. The base score is 10; rules add points and
// a matching signal, and the result is clamped to [0,100]. Both amount
// tiers apply when both thresholds are crossed.
func (c *CompositeScorer) Score(tx domain.Transaction) CompositeResult {
	score := 10
	signals := make([]string, 0)

	if tx.Amount.GreaterThan(highValueThreshold) {
		score += 20
		signals = append(signals, "high_value")
	}
	if tx.Amount.GreaterThan(veryHighValueThreshold) {
		score += 30
		signals = append(signals, "very_high_value")
	}

	if t := tx.Telemetry; t != nil {
		if t.Rooted {
			score += 30
			signals = append(signals, "rooted_device")
		}
		if t.SuspicionScore > 50 {
			score += int(float64(t.SuspicionScore) * 0.3)
			signals = append(signals, "device_suspicion")
		}
		if t.InstalledApps > 100 {
			score += 10
			signals = append(signals, "app_sprawl")
		}
	}

	if tx.MerchantTrust != nil {
		score += int(float64(100-*tx.MerchantTrust) * 0.2)
		signals = append(signals, "merchant_risk")
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return CompositeResult{
		Score:       score,
		Signals:     signals,
		NeedsReview: score > ReviewThreshold,
	}
}
