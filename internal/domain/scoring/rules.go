package scoring

import (
	"fmt"
	"strings"

	"github.com/sentryline/fraud-triage/internal/domain"
	"github.com/sentryline/fraud-triage/internal/domain/patterns"
)

// Input carries everything the aggregation rules read. It is assembled by
// the application layer once all verifier results are in: rules never run
// against partial data.
type Input struct {
	Findings     []domain.Finding
	Verification map[domain.Dimension]domain.VerificationResult
	Reputation   domain.ReputationResult
	Allowlisted  bool
	HTTPS        bool
	Host         string
}

func (in *Input) result(dim domain.Dimension) (domain.VerificationResult, bool) {
	res, ok := in.Verification[dim]
	return res, ok
}

func (in *Input) hasFinding(category string) bool {
	for _, f := range in.Findings {
		if f.Category == category {
			return true
		}
	}
	return false
}

// Rule is one ordered adjustment step. The When precondition and the Then
// effect are separate so the table reads as a documented override ladder:
// position in the table is the single source of precedence.
type Rule struct {
	Name string
	When func(in *Input, s *domain.ScoreState) bool
	Then func(in *Input, s *domain.ScoreState)
}

// Run interprets an ordered rule table against a starting state. The score
// stays clamped to [0,100] after every step (Adjust clamps; direct sets in
// rule effects only ever assign in-range values).
func Run(rules []Rule, in *Input, s *domain.ScoreState) {
	for _, rule := range rules {
		if rule.When(in, s) {
			rule.Then(in, s)
		}
	}
}

// isNetworkFailure distinguishes connection-level SSL failures from
// cryptographic ones. Network flakiness is not evidence of fraud, so these
// degrade to warnings regardless of how often they happen.
func isNetworkFailure(res domain.VerificationResult) bool {
	switch res.Details["error_kind"] {
	case "timeout", "refused", "dns", "dial":
		return true
	}
	return res.Details["status"] == "unknown"
}

// SafetyRules is the ordered adjustment table for safety-polarity scoring
// (100 = safest). The ordering is load-bearing: later rules override earlier
// boosts. Highest precedence sits at the bottom: the malicious-host rule
// and the allowlist floor run last, and the floor explicitly yields to any
// forced-unsafe state.
var SafetyRules = []Rule{
	{
		Name: "official-domain-boost",
		When: func(in *Input, s *domain.ScoreState) bool {
			res, ok := in.result(domain.DimensionDomain)
			return !in.Allowlisted && ok && res.IsPositive && res.Confidence >= MediumConfidence
		},
		Then: func(in *Input, s *domain.ScoreState) {
			s.Adjust(+10)
		},
	},
	{
		Name: "typosquat-hard-threat",
		When: func(in *Input, s *domain.ScoreState) bool {
			res, ok := in.result(domain.DimensionDomain)
			return !in.Allowlisted && ok && !res.IsPositive && res.Details["typosquat_of"] != ""
		},
		Then: func(in *Input, s *domain.ScoreState) {
			res, _ := in.result(domain.DimensionDomain)
			ApplyIf(res, HighConfidence, func(r domain.VerificationResult) {
				s.AddThreat(domain.Threat{
					Type:    domain.ThreatUnofficialDomain,
					Details: fmt.Sprintf("%s imitates %s", in.Host, r.Details["typosquat_of"]),
				})
				s.Adjust(-50)
				s.ForceUnsafe = true
			})
		},
	},
	{
		Name: "allowlisted-https-ssl",
		When: func(in *Input, s *domain.ScoreState) bool {
			return in.Allowlisted && in.HTTPS
		},
		Then: func(in *Input, s *domain.ScoreState) {
			// Allowlisted hosts get the benefit of the doubt: boost, and
			// downgrade any certificate failure to a warning only.
			s.Adjust(+5)
			if res, ok := in.result(domain.DimensionSSL); ok && !res.IsPositive {
				s.AddWarning("certificate check failed on allowlisted host: " + res.Details["reason"])
			}
		},
	},
	{
		Name: "ssl-valid-boost",
		When: func(in *Input, s *domain.ScoreState) bool {
			res, ok := in.result(domain.DimensionSSL)
			return !in.Allowlisted && ok && res.IsPositive && res.Confidence >= MediumConfidence
		},
		Then: func(in *Input, s *domain.ScoreState) {
			s.Adjust(+5)
		},
	},
	{
		Name: "ssl-network-failure-warning",
		When: func(in *Input, s *domain.ScoreState) bool {
			res, ok := in.result(domain.DimensionSSL)
			return !in.Allowlisted && ok && !res.IsPositive && isNetworkFailure(res)
		},
		Then: func(in *Input, s *domain.ScoreState) {
			res, _ := in.result(domain.DimensionSSL)
			s.AddWarning("certificate could not be verified: " + res.Details["reason"])
			s.Adjust(-5)
		},
	},
	{
		Name: "ssl-invalid-certificate",
		When: func(in *Input, s *domain.ScoreState) bool {
			res, ok := in.result(domain.DimensionSSL)
			return !in.Allowlisted && ok && !res.IsPositive && !isNetworkFailure(res)
		},
		Then: func(in *Input, s *domain.ScoreState) {
			res, _ := in.result(domain.DimensionSSL)
			hard := ApplyIf(res, HighConfidence, func(r domain.VerificationResult) {
				s.AddThreat(domain.Threat{
					Type:    domain.ThreatInvalidCertificate,
					Details: r.Details["reason"],
				})
				s.Adjust(-40)
			})
			if !hard {
				s.AddWarning("certificate validation failed at low confidence: " + res.Details["reason"])
				s.Adjust(-10)
			}
		},
	},
	{
		Name: "pattern-penalties",
		When: func(in *Input, s *domain.ScoreState) bool {
			return len(in.Findings) > 0
		},
		Then: func(in *Input, s *domain.ScoreState) {
			// Allowlisted subjects keep the findings as annotations with zero
			// score impact; everyone else pays -5 per distinct category with
			// a floor of -20 across all pattern findings.
			const perCategory, maxPenalty = 5, 20
			penalty := 0
			seen := map[string]bool{}
			for _, f := range in.Findings {
				if f.Category == patterns.CategoryMaliciousHost {
					continue // handled by its own terminal rule
				}
				s.AddWarning("pattern: " + f.Message)
				if in.Allowlisted || seen[f.Category] {
					continue
				}
				seen[f.Category] = true
				if penalty < maxPenalty {
					penalty += perCategory
				}
			}
			if penalty > maxPenalty {
				penalty = maxPenalty
			}
			s.Adjust(-penalty)
		},
	},
	{
		Name: "blacklist-hard-threat",
		When: func(in *Input, s *domain.ScoreState) bool {
			// Hard-threat detection runs even for allowlisted subjects.
			res, ok := in.result(domain.DimensionBlacklist)
			return ok && !res.IsPositive && res.Details["hit"] == "true"
		},
		Then: func(in *Input, s *domain.ScoreState) {
			res, _ := in.result(domain.DimensionBlacklist)
			ApplyIf(res, HighConfidence, func(r domain.VerificationResult) {
				s.AddThreat(domain.Threat{
					Type:    domain.ThreatBlacklisted,
					Details: r.Details["reason"],
				})
				s.Adjust(-50)
				s.ForceUnsafe = true
			})
		},
	},
	{
		Name: "reputation-override",
		When: func(in *Input, s *domain.ScoreState) bool {
			return in.Reputation.Available
		},
		Then: func(in *Input, s *domain.ScoreState) {
			if in.Reputation.IsSafe {
				s.Adjust(+20)
				return
			}
			s.Score = 0
			s.ForceUnsafe = true
			if len(in.Reputation.Threats) == 0 {
				s.AddThreat(domain.Threat{Type: domain.ThreatReputationFlagged, Details: in.Reputation.Source})
				return
			}
			for _, t := range in.Reputation.Threats {
				s.AddThreat(t)
			}
		},
	},
	{
		Name: "valid-ssl-forces-safe",
		When: func(in *Input, s *domain.ScoreState) bool {
			// Valid cryptographic identity outweighs residual soft warnings,
			// but never a recorded hard threat.
			res, ok := in.result(domain.DimensionSSL)
			return ok && res.IsPositive && res.Confidence >= MediumConfidence &&
				s.Score >= 50 && len(s.Threats) == 0
		},
		Then: func(in *Input, s *domain.ScoreState) {
			s.ForceSafe = true
		},
	},
	{
		Name: "malicious-host-terminal",
		When: func(in *Input, s *domain.ScoreState) bool {
			return in.hasFinding(patterns.CategoryMaliciousHost)
		},
		Then: func(in *Input, s *domain.ScoreState) {
			s.Score = 0
			s.ForceUnsafe = true
			s.ForceSafe = false
			s.AddThreat(domain.Threat{
				Type:    domain.ThreatMaliciousHost,
				Details: "host contains an explicit malicious keyword",
			})
		},
	},
	{
		Name: "allowlist-floor",
		When: func(in *Input, s *domain.ScoreState) bool {
			return in.Allowlisted && !s.ForceUnsafe && s.Score < 90
		},
		Then: func(in *Input, s *domain.ScoreState) {
			s.Score = 90
		},
	},
}

// FraudRules is the ordered adjustment table for fraud-polarity scoring
// (0 = clean, higher = more fraudulent), used for SMS, sender-ID, phone and
// social subjects.
var FraudRules = []Rule{
	{
		Name: "finding-severities",
		When: func(in *Input, s *domain.ScoreState) bool {
			return len(in.Findings) > 0
		},
		Then: func(in *Input, s *domain.ScoreState) {
			for _, f := range in.Findings {
				s.Adjust(f.Severity)
				if f.Severity >= patterns.SeverityHardIssue {
					s.HardIssues++
				} else {
					s.AddWarning("pattern: " + f.Message)
				}
			}
		},
	},
	{
		Name: "registered-sender-relief",
		When: func(in *Input, s *domain.ScoreState) bool {
			res, ok := in.result(domain.DimensionSender)
			return ok && res.IsPositive && res.Confidence >= MediumConfidence
		},
		Then: func(in *Input, s *domain.ScoreState) {
			res, _ := in.result(domain.DimensionSender)
			s.Adjust(-20)
			if org := res.Details["organization"]; org != "" {
				s.AddWarning("sender is registered to " + org)
			}
		},
	},
	{
		Name: "invalid-phone-format",
		When: func(in *Input, s *domain.ScoreState) bool {
			res, ok := in.result(domain.DimensionPhone)
			return ok && !res.IsPositive && res.Confidence >= MediumConfidence
		},
		Then: func(in *Input, s *domain.ScoreState) {
			res, _ := in.result(domain.DimensionPhone)
			s.Adjust(+15)
			s.AddWarning("number fails numbering-plan validation: " + res.Details["reason"])
		},
	},
	{
		Name: "blacklisted-number",
		When: func(in *Input, s *domain.ScoreState) bool {
			res, ok := in.result(domain.DimensionBlacklist)
			return ok && !res.IsPositive && res.Details["hit"] == "true"
		},
		Then: func(in *Input, s *domain.ScoreState) {
			res, _ := in.result(domain.DimensionBlacklist)
			ApplyIf(res, HighConfidence, func(r domain.VerificationResult) {
				s.AddThreat(domain.Threat{Type: domain.ThreatBlacklisted, Details: r.Details["reason"]})
				s.Adjust(+40)
				s.HardIssues++
				s.ForceUnsafe = true
			})
		},
	},
}

// RuleNames returns the names of a table in order, for audit trails
func RuleNames(rules []Rule) string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return strings.Join(names, ",")
}
