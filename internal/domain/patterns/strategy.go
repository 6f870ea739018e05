package patterns

import (
	"github.com/sentryline/fraud-triage/internal/domain"
)

// RuleFamily is the interface all pattern rule families implement.
//
// Each family detects one class of suspicious structure (shortener links,
// scam keyword clusters, excessive subdomains, ...). Families evaluate
// independently: the first match within a family emits one Finding for that
// family, and families are not mutually exclusive across each other.
type RuleFamily interface {
	// Match returns a Finding if the family fires for the subject, nil otherwise.
	// Implementations must be pure: no I/O, no shared mutable state.
	Match(subject domain.Subject, tables *Tables) *domain.Finding

	// Name returns the human-readable name of the rule family
	Name() string
}

// Finding categories, one per rule family. Severity is the family's fixed
// point value: families at or above SeverityHardIssue count as hard issues
// for fraud-polarity classification, the rest are warning-grade.
const (
	CategoryShortenerLink   = "URL_SHORTENER"
	CategorySuspiciousTLD   = "SUSPICIOUS_TLD"
	CategorySubdomainDepth  = "EXCESSIVE_SUBDOMAINS"
	CategoryRandomTokens    = "RANDOM_TOKEN_STRINGS"
	CategoryMaliciousHost   = "MALICIOUS_HOST_KEYWORD"
	CategoryUrgency         = "URGENCY_LANGUAGE"
	CategoryGrammar         = "GRAMMAR_HEURISTICS"
	CategoryExcessiveCaps   = "EXCESSIVE_CAPITALIZATION"
	CategorySenderLookalike = "SENDER_LOOKALIKE"
	CategorySenderFormat    = "SENDER_MIXED_FORMAT"
	CategorySocialRatio     = "SOCIAL_FOLLOW_RATIO"
	CategorySocialNewAcct   = "SOCIAL_NEW_ACCOUNT"
	CategorySocialAvatar    = "SOCIAL_DEFAULT_AVATAR"
	CategorySocialBurst     = "SOCIAL_BURST_POSTING"
	CategorySocialScamBio   = "SOCIAL_SCAM_BIO"
)

// SeverityHardIssue is the cutoff above which a finding counts as a hard
// issue rather than a warning in fraud-polarity classification
const SeverityHardIssue = 15
