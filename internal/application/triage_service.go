package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sentryline/fraud-triage/internal/domain"
	"github.com/sentryline/fraud-triage/internal/domain/patterns"
	"github.com/sentryline/fraud-triage/internal/domain/scoring"
	"github.com/sentryline/fraud-triage/internal/ports"
)

// ErrInvalidInput marks malformed subjects rejected before scoring.
// No partial verdict is produced for these.
var ErrInvalidInput = errors.New("invalid input")

// TriageService orchestrates the scoring pipeline: validate the subject,
// run the pattern matcher and the external verifiers, aggregate, classify,
// and hand the verdict to the audit trail.
//
// Each request is handled independently; the service holds no per-request
// state. The pattern matcher is pure and synchronous; the verifier checks
// are I/O-bound and fan out concurrently with a per-check timeout.
// Aggregation waits for every verifier result it needs and never runs
// against partial data, because the override ordering depends on having
// domain and SSL outcomes side by side.
type TriageService struct {
	matcher      *patterns.Matcher
	aggregator   *scoring.Aggregator
	composite    *scoring.CompositeScorer
	verifiers    []ports.Verifier
	reputation   ports.ReputationClient
	forensics    ports.ModelClient
	audit        ports.AuditStore
	logger       *slog.Logger
	checkTimeout time.Duration

	// injected for deterministic verdicts in tests
	now   func() time.Time
	newID func() uuid.UUID
}

// NewTriageService wires the pipeline with dependency injection
func NewTriageService(
	matcher *patterns.Matcher,
	verifiers []ports.Verifier,
	reputation ports.ReputationClient,
	forensics ports.ModelClient,
	audit ports.AuditStore,
	logger *slog.Logger,
	checkTimeout time.Duration,
) *TriageService {
	return &TriageService{
		matcher:      matcher,
		aggregator:   scoring.NewAggregator(),
		composite:    scoring.NewCompositeScorer(),
		verifiers:    verifiers,
		reputation:   reputation,
		forensics:    forensics,
		audit:        audit,
		logger:       logger,
		checkTimeout: checkTimeout,
		now:          time.Now,
		newID:        uuid.New,
	}
}

// CheckURL evaluates a URL with safety-polarity scoring
func (s *TriageService) CheckURL(ctx context.Context, rawURL string) (*domain.Verdict, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: URL must be absolute http(s)", ErrInvalidInput)
	}
	host := strings.ToLower(u.Hostname())
	subject := domain.Subject{Kind: domain.SubjectURL, URL: rawURL}

	findings := s.matcher.Evaluate(subject)
	verifications := s.runVerifiers(ctx, subject,
		domain.DimensionDomain, domain.DimensionSSL, domain.DimensionBlacklist)
	reputation := s.reputation.CheckURL(ctx, rawURL)

	in := &scoring.Input{
		Findings:     findings,
		Verification: verifications,
		Reputation:   reputation,
		Allowlisted:  s.matcher.Tables().IsAllowlisted(host),
		HTTPS:        u.Scheme == "https",
		Host:         host,
	}
	state := s.aggregator.AggregateSafety(in)
	cls := scoring.ClassifySafety(state, in.Allowlisted)

	method := domain.CheckMethodHeuristics
	if reputation.Available {
		method = domain.CheckMethodFull
	}

	verdict := s.buildVerdict(domain.SubjectURL, state, cls, method, verifications)
	s.recordAudit(ctx, "check_url", rawURL, verdict)
	return verdict, nil
}

// CheckSMS evaluates an SMS with fraud-polarity scoring
func (s *TriageService) CheckSMS(ctx context.Context, sender, body string) (*domain.Verdict, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: SMS body is required", ErrInvalidInput)
	}
	subject := domain.Subject{Kind: domain.SubjectSMS, SMS: &domain.SMSMessage{Sender: sender, Body: body}}

	findings := s.matcher.Evaluate(subject)
	verifications := s.runVerifiers(ctx, subject,
		domain.DimensionSender, domain.DimensionPhone, domain.DimensionBlacklist)

	in := &scoring.Input{Findings: findings, Verification: verifications}
	state := s.aggregator.AggregateFraud(in)
	cls := scoring.ClassifyFraud(state)

	verdict := s.buildVerdict(domain.SubjectSMS, state, cls, domain.CheckMethodHeuristics, verifications)
	s.recordAudit(ctx, "check_sms", sender, verdict)
	return verdict, nil
}

// CheckPhone validates and scores a phone number
func (s *TriageService) CheckPhone(ctx context.Context, number, region string) (*domain.Verdict, error) {
	if strings.TrimSpace(number) == "" {
		return nil, fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	}
	subject := domain.Subject{Kind: domain.SubjectPhone, Phone: &domain.PhoneNumber{Number: number, Region: region}}

	verifications := s.runVerifiers(ctx, subject, domain.DimensionPhone, domain.DimensionBlacklist)

	in := &scoring.Input{Verification: verifications}
	state := s.aggregator.AggregateFraud(in)
	cls := scoring.ClassifyFraud(state)

	verdict := s.buildVerdict(domain.SubjectPhone, state, cls, domain.CheckMethodHeuristics, verifications)
	s.recordAudit(ctx, "check_phone", number, verdict)
	return verdict, nil
}

// CheckSender evaluates an alphanumeric sender ID against the registry and
// the sender-shaped rule families
func (s *TriageService) CheckSender(ctx context.Context, senderID string) (*domain.Verdict, error) {
	if strings.TrimSpace(senderID) == "" {
		return nil, fmt.Errorf("%w: sender ID is required", ErrInvalidInput)
	}
	subject := domain.Subject{Kind: domain.SubjectSenderID, SenderID: senderID}

	findings := s.matcher.Evaluate(subject)
	verifications := s.runVerifiers(ctx, subject, domain.DimensionSender)

	in := &scoring.Input{Findings: findings, Verification: verifications}
	state := s.aggregator.AggregateFraud(in)
	cls := scoring.ClassifyFraud(state)

	verdict := s.buildVerdict(domain.SubjectSenderID, state, cls, domain.CheckMethodHeuristics, verifications)
	s.recordAudit(ctx, "check_sender", senderID, verdict)
	return verdict, nil
}

// CheckSocial scores observable social-account signals
func (s *TriageService) CheckSocial(ctx context.Context, signals domain.SocialSignals) (*domain.Verdict, error) {
	if strings.TrimSpace(signals.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	subject := domain.Subject{Kind: domain.SubjectSocial, Social: &signals}

	findings := s.matcher.Evaluate(subject)
	in := &scoring.Input{Findings: findings}
	state := s.aggregator.AggregateFraud(in)
	cls := scoring.ClassifyFraud(state)

	verdict := s.buildVerdict(domain.SubjectSocial, state, cls, domain.CheckMethodHeuristics, nil)
	s.recordAudit(ctx, "check_social", signals.Username, verdict)
	return verdict, nil
}

// CheckTransaction runs the composite risk model. Scores above the review
// threshold flag the transaction for manual review through the audit store.
func (s *TriageService) CheckTransaction(ctx context.Context, tx domain.Transaction) (*domain.Verdict, error) {
	if tx.Amount.IsNegative() || tx.Currency == "" {
		return nil, fmt.Errorf("%w: transaction needs a non-negative amount and a currency", ErrInvalidInput)
	}

	result := s.composite.Score(tx)
	state := domain.ScoreState{Score: result.Score, Warnings: result.Signals, Threats: make([]domain.Threat, 0)}
	cls := scoring.ClassifyFraud(state)

	verdict := s.buildVerdict(domain.SubjectTransaction, state, cls, domain.CheckMethodHeuristics, nil)
	verdict.RequiresReview = result.NeedsReview

	if result.NeedsReview && s.audit != nil {
		if err := s.audit.FlagTransactionForReview(ctx, tx.ID, result.Score, result.Signals); err != nil {
			s.logger.Warn("failed to flag transaction for review", "tx", tx.ID, "error", err)
		}
	}
	s.recordAudit(ctx, "check_transaction", tx.ID.String(), verdict)
	return verdict, nil
}

// AnalyzeMedia submits a media payload to the forensics collaborator and
// maps its answer into the fraud-polarity verdict shape
func (s *TriageService) AnalyzeMedia(ctx context.Context, payload []byte, encoding, mediaType string) (*domain.Verdict, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: payload is required", ErrInvalidInput)
	}

	result, err := s.forensics.Analyze(ctx, ports.ForensicsRequest{
		Payload:  payload,
		Encoding: encoding,
		Type:     mediaType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	state := domain.ScoreState{
		Score:    result.Score,
		Warnings: result.Indicators,
		Threats:  make([]domain.Threat, 0),
	}
	cls := scoring.ClassifyFraud(state)
	if result.Degraded {
		// Never report better than low confidence off the local heuristic.
		cls.Confidence = "low"
	}

	method := domain.CheckMethodModel
	if result.Degraded {
		method = domain.CheckMethodFallback
	}

	verdict := s.buildVerdict(domain.SubjectSMS, state, cls, method, nil)
	verdict.Subject = domain.SubjectKind("media")
	s.recordAudit(ctx, "analyze_media", mediaType, verdict)
	return verdict, nil
}

// runVerifiers fans the requested dimensions out concurrently, each with
// its own timeout, and waits for all of them. Partial failure of one check
// never blocks the others: adapters degrade internally instead of erroring.
func (s *TriageService) runVerifiers(ctx context.Context, subject domain.Subject, dims ...domain.Dimension) map[domain.Dimension]domain.VerificationResult {
	wanted := make(map[domain.Dimension]bool, len(dims))
	for _, d := range dims {
		wanted[d] = true
	}

	results := make(map[domain.Dimension]domain.VerificationResult, len(dims))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, verifier := range s.verifiers {
		if !wanted[verifier.Dimension()] {
			continue
		}
		wg.Add(1)
		go func(v ports.Verifier) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
			defer cancel()
			res := v.Verify(checkCtx, subject)
			mu.Lock()
			results[res.Dimension] = res
			mu.Unlock()
		}(verifier)
	}
	wg.Wait()
	return results
}

func (s *TriageService) buildVerdict(
	kind domain.SubjectKind,
	state domain.ScoreState,
	cls scoring.Classification,
	method string,
	verifications map[domain.Dimension]domain.VerificationResult,
) *domain.Verdict {
	return &domain.Verdict{
		ID:             s.newID(),
		Subject:        kind,
		Status:         cls.Status,
		IsSafe:         cls.IsSafe,
		Score:          state.Score,
		Confidence:     cls.Confidence,
		Recommendation: cls.Recommendation,
		Warnings:       state.Warnings,
		Threats:        state.Threats,
		CheckMethod:    method,
		Verification:   verifications,
		CheckedAt:      s.now().UTC(),
	}
}

// recordAudit writes the audit trail fire-and-forget: a failed write is
// logged and the verdict is returned anyway
func (s *TriageService) recordAudit(ctx context.Context, action, target string, verdict *domain.Verdict) {
	if s.audit == nil {
		return
	}
	event := &domain.AuditEvent{
		ID:     s.newID(),
		Actor:  "triage-service",
		Action: action,
		Target: target,
		Details: map[string]string{
			"status":       string(verdict.Status),
			"score":        fmt.Sprintf("%d", verdict.Score),
			"check_method": verdict.CheckMethod,
		},
		Timestamp: s.now().UTC(),
	}
	if err := s.audit.RecordEvent(ctx, event); err != nil {
		s.logger.Warn("audit write failed", "action", action, "error", err)
	}
}
