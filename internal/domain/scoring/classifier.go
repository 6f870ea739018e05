package scoring

import (
	"github.com/sentryline/fraud-triage/internal/domain"
)

// Classification is the discrete outcome derived from a ScoreState
type Classification struct {
	Status         domain.Status
	IsSafe         bool
	Confidence     string
	Recommendation string
}

// ClassifySafety maps a safety-polarity score (100 = safest) to a status.
// Rules evaluate in order, first match wins. Forced states from the rule
// table take precedence over the threshold ladder: a hard threat keeps the
// verdict unsafe however high the residual score, and the valid-SSL rule
// keeps it safe against residual soft warnings.
func ClassifySafety(s domain.ScoreState, allowlisted bool) Classification {
	switch {
	case s.ForceUnsafe:
		return Classification{
			Status:         domain.StatusUnsafe,
			IsSafe:         false,
			Confidence:     "high",
			Recommendation: "Do not proceed. A definitive threat signal was recorded for this subject.",
		}
	case allowlisted:
		return Classification{
			Status:         domain.StatusSafe,
			IsSafe:         true,
			Confidence:     "high",
			Recommendation: "This is a well-known legitimate destination.",
		}
	case len(s.Threats) > 0:
		// A recorded hard threat outranks the residual score, which may
		// still sit above the safe threshold after a single -40 step.
		return Classification{
			Status:         domain.StatusUnsafe,
			IsSafe:         false,
			Confidence:     "high",
			Recommendation: "Block this subject. Hard threats were detected.",
		}
	case s.ForceSafe, s.Score > 50:
		conf := "high"
		if len(s.Warnings) > 0 {
			conf = "medium"
		}
		return Classification{
			Status:         domain.StatusSafe,
			IsSafe:         true,
			Confidence:     conf,
			Recommendation: "No strong fraud signals. Proceed with normal caution.",
		}
	default:
		return Classification{
			Status:         domain.StatusSuspicious,
			IsSafe:         false,
			Confidence:     "medium",
			Recommendation: "Multiple weak signals accumulated. Verify through an independent channel before acting.",
		}
	}
}

// ClassifyFraud maps a fraud-polarity score (higher = more fraudulent) to a
// status using ascending thresholds. This table is separate from the
// safety one: the two polarities never share thresholds or a sign-flip.
func ClassifyFraud(s domain.ScoreState) Classification {
	switch {
	case s.Score >= 70 || s.HardIssues >= 3:
		return Classification{
			Status:         domain.StatusFraud,
			IsSafe:         false,
			Confidence:     "high",
			Recommendation: "Treat as fraud. Do not respond, click links, or share any information.",
		}
	case s.Score >= 40 || s.HardIssues >= 1 || len(s.Warnings) >= 3:
		return Classification{
			Status:         domain.StatusSuspicious,
			IsSafe:         false,
			Confidence:     "medium",
			Recommendation: "Likely fraudulent. Verify the sender through an official channel before acting.",
		}
	case s.Score >= 20 || len(s.Warnings) >= 1:
		return Classification{
			Status:         domain.StatusCaution,
			IsSafe:         true,
			Confidence:     "low",
			Recommendation: "Some weak signals present. Be careful with links and requests for information.",
		}
	default:
		return Classification{
			Status:         domain.StatusSafe,
			IsSafe:         true,
			Confidence:     "high",
			Recommendation: "No fraud signals detected.",
		}
	}
}
