package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubjectKind identifies which member of the Subject union is populated
type SubjectKind string

const (
	SubjectURL         SubjectKind = "url"
	SubjectSMS         SubjectKind = "sms"
	SubjectSenderID    SubjectKind = "sender_id"
	SubjectPhone       SubjectKind = "phone"
	SubjectTransaction SubjectKind = "transaction"
	SubjectSocial      SubjectKind = "social"
)

// Subject is the thing being evaluated: exactly one member matching Kind is
// populated. A Subject is immutable once scoring begins; the pipeline only
// reads from it.
type Subject struct {
	Kind        SubjectKind    `json:"kind"`
	URL         string         `json:"url,omitempty"`
	SMS         *SMSMessage    `json:"sms,omitempty"`
	SenderID    string         `json:"sender_id,omitempty"`
	Phone       *PhoneNumber   `json:"phone,omitempty"`
	Transaction *Transaction   `json:"transaction,omitempty"`
	Social      *SocialSignals `json:"social,omitempty"`
}

// SMSMessage is an SMS to be analyzed, with its claimed sender
type SMSMessage struct {
	Sender string `json:"sender"`
	Body   string `json:"body"`
}

// PhoneNumber carries a raw number plus the region used for numbering-plan
// validation when the number is not in international format
type PhoneNumber struct {
	Number string `json:"number"`
	Region string `json:"region,omitempty"`
}

// DeviceTelemetry is client-reported device state accompanying a transaction
type DeviceTelemetry struct {
	Rooted         bool `json:"rooted"`
	SuspicionScore int  `json:"suspicion_score"` // 0-100, from the device SDK
	InstalledApps  int  `json:"installed_apps"`
}

// Transaction represents a payment to be risk-scored
type Transaction struct {
	ID            uuid.UUID        `json:"id"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	MerchantID    string           `json:"merchant_id"`
	MerchantTrust *int             `json:"merchant_trust,omitempty"` // 0-100, nil when unknown
	Telemetry     *DeviceTelemetry `json:"telemetry,omitempty"`
	Status        string           `json:"status"`
}

// SocialSignals are observable attributes of a social account
type SocialSignals struct {
	Username       string `json:"username"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	AccountAgeDays int    `json:"account_age_days"`
	DefaultAvatar  bool   `json:"default_avatar"`
	PostsLast24h   int    `json:"posts_last_24h"`
	Bio            string `json:"bio,omitempty"`
}

// Finding is a single rule-family match emitted by the pattern matcher.
// The findings list is order-preserving; the same category may fire once per
// rule family, it is not globally deduplicated.
type Finding struct {
	Category string `json:"category"`
	Severity int    `json:"severity"` // fixed point value of the rule family
	Message  string `json:"message"`
}

// Dimension names one external verification check
type Dimension string

const (
	DimensionDomain         Dimension = "domain"
	DimensionSSL            Dimension = "ssl"
	DimensionBlacklist      Dimension = "blacklist"
	DimensionSender         Dimension = "sender"
	DimensionPhone          Dimension = "phone"
	DimensionTransactionRef Dimension = "transactionRef"
)

// VerificationResult is the normalized output of one external check.
// Confidence is the verifier's self-reported certainty; results below a
// dimension's high-confidence threshold must never trigger hard overrides,
// they degrade to warnings only.
type VerificationResult struct {
	Dimension  Dimension         `json:"dimension"`
	IsPositive bool              `json:"is_positive"` // official / valid / safe
	Confidence float64           `json:"confidence"`  // [0,1]
	Source     string            `json:"source"`
	Details    map[string]string `json:"details,omitempty"`
}

// UnknownResult builds the degraded result an adapter returns when its
// upstream is unavailable. A single unavailable upstream must never block
// the overall verdict, so adapters convert internal errors into this shape
// instead of propagating them.
func UnknownResult(dim Dimension, source, reason string) VerificationResult {
	return VerificationResult{
		Dimension:  dim,
		IsPositive: false,
		Confidence: 0.2,
		Source:     source,
		Details:    map[string]string{"status": "unknown", "reason": reason},
	}
}

// Threat types strong enough to unilaterally force an unsafe verdict
const (
	ThreatUnofficialDomain   = "UNOFFICIAL_DOMAIN"
	ThreatInvalidCertificate = "INVALID_CERTIFICATE"
	ThreatBlacklisted        = "BLACKLISTED"
	ThreatMaliciousHost      = "MALICIOUS_HOST"
	ThreatReputationFlagged  = "REPUTATION_FLAGGED"
)

// Threat is a hard signal recorded during aggregation
type Threat struct {
	Type     string `json:"type"`
	Platform string `json:"platform,omitempty"`
	Details  string `json:"details,omitempty"`
}

// ReputationResult is the answer of the authoritative reputation API.
// Available=false means the API could not be reached or refused the call;
// the scorer then falls back to heuristics and flags the verdict as degraded.
type ReputationResult struct {
	Available bool     `json:"available"`
	IsSafe    bool     `json:"is_safe"`
	Threats   []Threat `json:"threats,omitempty"`
	Source    string   `json:"source,omitempty"`
}

// ScoreState is the mutable accumulator used during aggregation.
// Polarity is per use case: safety scoring starts at 100 (100 = safest),
// fraud scoring starts at 0 (higher = more fraudulent). The two polarities
// are classified by separate threshold tables and never share one.
type ScoreState struct {
	Score       int      `json:"score"`
	Threats     []Threat `json:"threats"`
	Warnings    []string `json:"warnings"`
	ForceUnsafe bool     `json:"-"` // set only by hard threats and authoritative overrides
	ForceSafe   bool     `json:"-"` // set only by the valid-SSL rule
	HardIssues  int      `json:"-"` // fraud polarity: count of hard findings and threats
}

// Adjust applies a delta and clamps to [0,100]. Clamping after every
// adjustment step is an invariant of the aggregator.
func (s *ScoreState) Adjust(delta int) {
	s.Score += delta
	if s.Score > 100 {
		s.Score = 100
	}
	if s.Score < 0 {
		s.Score = 0
	}
}

// AddThreat records a hard threat
func (s *ScoreState) AddThreat(t Threat) {
	s.Threats = append(s.Threats, t)
}

// AddWarning records a soft, non-overriding signal
func (s *ScoreState) AddWarning(w string) {
	s.Warnings = append(s.Warnings, w)
}

// Status is the discrete outcome of classification
type Status string

const (
	StatusSafe       Status = "safe"
	StatusCaution    Status = "caution"
	StatusSuspicious Status = "suspicious"
	StatusUnsafe     Status = "unsafe"
	StatusFraud      Status = "fraud"
)

// Check methods reported in the verdict so callers can distinguish a
// fully-verified verdict from a degraded one
const (
	CheckMethodFull       = "reputation+heuristics"
	CheckMethodHeuristics = "heuristics-only"
	CheckMethodModel      = "model"
	CheckMethodFallback   = "heuristic-fallback"
)

// Verdict is the final answer returned to callers. The Verification map
// exposes per-dimension raw results for transparency and audit.
type Verdict struct {
	ID             uuid.UUID                        `json:"id"`
	Subject        SubjectKind                      `json:"subject"`
	Status         Status                           `json:"status"`
	IsSafe         bool                             `json:"is_safe"`
	Score          int                              `json:"score"`
	Confidence     string                           `json:"confidence"` // high / medium / low
	Recommendation string                           `json:"recommendation"`
	Warnings       []string                         `json:"warnings,omitempty"`
	Threats        []Threat                         `json:"threats,omitempty"`
	CheckMethod    string                           `json:"check_method"`
	Verification   map[Dimension]VerificationResult `json:"verification,omitempty"`
	RequiresReview bool                             `json:"requires_review,omitempty"`
	CheckedAt      time.Time                        `json:"checked_at"`
}

// AuditEvent is the fire-and-forget record handed to the audit store.
// Only the verdict plus this minimal metadata outlives the request.
type AuditEvent struct {
	ID        uuid.UUID         `json:"id"`
	Actor     string            `json:"actor"`
	Action    string            `json:"action"`
	Target    string            `json:"target"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
