package patterns

import (
	"github.com/sentryline/fraud-triage/internal/domain"
)

// Matcher evaluates a subject against all rule families and collects their
// findings.
//
// The Matcher is a pure function of the subject: no I/O, no per-request
// state, safe for concurrent use. A rule family that cannot interpret the
// subject (wrong kind, malformed URL) returns nil and the pass continues;
// the matcher never fails an evaluation.
type Matcher struct {
	families []RuleFamily
	tables   *Tables
}

// NewMatcher creates a matcher with the standard rule families over the
// given tables
func NewMatcher(tables *Tables) *Matcher {
	families := []RuleFamily{
		NewMaliciousHostRule(),
		NewShortenerRule(),
		NewSuspiciousTLDRule(),
		NewSubdomainDepthRule(),
		NewRandomTokenRule(),
		NewUrgencyRule(),
		NewExcessiveCapsRule(),
		NewGrammarRule(),
		NewSenderLookalikeRule(),
		NewSenderFormatRule(),
		NewSocialRatioRule(),
		NewSocialNewAccountRule(),
		NewSocialAvatarRule(),
		NewSocialBurstRule(),
		NewSocialBioRule(),
	}
	for _, family := range tables.KeywordFamilies {
		families = append(families, NewKeywordFamilyRule(family))
	}
	return &Matcher{families: families, tables: tables}
}

// Evaluate runs every rule family and returns the findings in family order
func (m *Matcher) Evaluate(subject domain.Subject) []domain.Finding {
	findings := make([]domain.Finding, 0)
	for _, family := range m.families {
		if f := family.Match(subject, m.tables); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

// Tables exposes the loaded rule tables so wiring code can hand the same
// allowlist and brand set to the verifier adapters
func (m *Matcher) Tables() *Tables {
	return m.tables
}
