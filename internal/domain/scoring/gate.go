package scoring

import (
	"github.com/sentryline/fraud-triage/internal/domain"
)

// Confidence thresholds gating verifier-driven overrides. A result below
// HighConfidence may warn but never force an unsafe verdict.
const (
	HighConfidence   = 0.95
	MediumConfidence = 0.80
)

// ApplyIf runs effect only when the verification result's self-reported
// confidence is at or above minConfidence, and reports whether it ran.
//
// Every confidence-gated override in the rule tables goes through this
// helper so the gating is applied uniformly rather than re-checked inline
// per dimension.
func ApplyIf(res domain.VerificationResult, minConfidence float64, effect func(domain.VerificationResult)) bool {
	if res.Confidence < minConfidence {
		return false
	}
	effect(res)
	return true
}
