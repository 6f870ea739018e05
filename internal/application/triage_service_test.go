package application

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentryline/fraud-triage/internal/domain"
	"github.com/sentryline/fraud-triage/internal/domain/patterns"
	"github.com/sentryline/fraud-triage/internal/ports"
)

// stubVerifier returns a canned result for one dimension
type stubVerifier struct {
	dim    domain.Dimension
	result domain.VerificationResult
	delay  time.Duration
}

func (s *stubVerifier) Dimension() domain.Dimension { return s.dim }

func (s *stubVerifier) Verify(ctx context.Context, _ domain.Subject) domain.VerificationResult {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return domain.UnknownResult(s.dim, "stub", "canceled")
		}
	}
	res := s.result
	res.Dimension = s.dim
	return res
}

type stubReputation struct {
	result domain.ReputationResult
}

func (s *stubReputation) CheckURL(context.Context, string) domain.ReputationResult {
	return s.result
}

type stubForensics struct {
	result ports.ForensicsResult
	err    error
}

func (s *stubForensics) Healthy(context.Context) bool { return s.err == nil }

func (s *stubForensics) Analyze(context.Context, ports.ForensicsRequest) (ports.ForensicsResult, error) {
	return s.result, s.err
}

// memoryAuditStore records calls for assertions
type memoryAuditStore struct {
	mu      sync.Mutex
	events  []*domain.AuditEvent
	flagged map[uuid.UUID]int
}

func newMemoryAuditStore() *memoryAuditStore {
	return &memoryAuditStore{flagged: make(map[uuid.UUID]int)}
}

func (m *memoryAuditStore) RecordEvent(_ context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *memoryAuditStore) FlagTransactionForReview(_ context.Context, txID uuid.UUID, score int, _ []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flagged[txID] = score
	return nil
}

func (m *memoryAuditStore) Close() error { return nil }

type serviceOptions struct {
	verifiers  []ports.Verifier
	reputation domain.ReputationResult
	forensics  *stubForensics
	audit      ports.AuditStore
}

func newTestService(opts serviceOptions) *TriageService {
	forensics := opts.forensics
	if forensics == nil {
		forensics = &stubForensics{}
	}
	svc := NewTriageService(
		patterns.NewMatcher(patterns.Default()),
		opts.verifiers,
		&stubReputation{result: opts.reputation},
		forensics,
		opts.audit,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		100*time.Millisecond,
	)
	// Fixed clock and ID source so verdicts are reproducible.
	fixed := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	svc.newID = func() uuid.UUID { return uuid.MustParse("11111111-2222-4333-8444-555555555555") }
	return svc
}

func positiveResult(dim domain.Dimension, conf float64) domain.VerificationResult {
	return domain.VerificationResult{Dimension: dim, IsPositive: true, Confidence: conf, Source: "stub"}
}

func TestCheckURL_RejectsMalformedInput(t *testing.T) {
	svc := newTestService(serviceOptions{})

	for _, raw := range []string{"", "not a url", "ftp://example.com", "/relative/path"} {
		_, err := svc.CheckURL(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", raw)
	}
}

func TestCheckURL_AllowlistedHostStaysSafeDespiteNoise(t *testing.T) {
	svc := newTestService(serviceOptions{
		verifiers: []ports.Verifier{
			&stubVerifier{dim: domain.DimensionDomain, result: positiveResult(domain.DimensionDomain, 1.0)},
			&stubVerifier{dim: domain.DimensionSSL, result: domain.VerificationResult{
				IsPositive: false,
				Confidence: 0.3,
				Source:     "stub",
				Details:    map[string]string{"error_kind": "timeout", "reason": "handshake timed out"},
			}},
			&stubVerifier{dim: domain.DimensionBlacklist, result: positiveResult(domain.DimensionBlacklist, 0.9)},
		},
	})

	// Random-looking path segments plus a failed certificate probe: on an
	// allowlisted host these must stay warning-grade.
	verdict, err := svc.CheckURL(context.Background(),
		"https://google.com/a1b2c3d4e5f6g7h8i9j0k1l2m3n4o5/x9y8z7w6v5u4t3s2r1q0p9o8n7m6l5/q5w6e7r8t9y0u1i2o3p4a5s6d7f8g9")
	require.NoError(t, err)

	assert.True(t, verdict.IsSafe)
	assert.Equal(t, domain.StatusSafe, verdict.Status)
	assert.GreaterOrEqual(t, verdict.Score, 90)
	assert.Empty(t, verdict.Threats)
}

func TestCheckURL_TyposquatIsAlwaysUnsafe(t *testing.T) {
	svc := newTestService(serviceOptions{
		verifiers: []ports.Verifier{
			&stubVerifier{dim: domain.DimensionDomain, result: domain.VerificationResult{
				IsPositive: false,
				Confidence: 1.0,
				Source:     "stub",
				Details:    map[string]string{"typosquat_of": "paytm.com"},
			}},
			&stubVerifier{dim: domain.DimensionSSL, result: positiveResult(domain.DimensionSSL, 1.0)},
			&stubVerifier{dim: domain.DimensionBlacklist, result: positiveResult(domain.DimensionBlacklist, 0.9)},
		},
	})

	verdict, err := svc.CheckURL(context.Background(), "https://paytm-secure-verify.tk/kyc")
	require.NoError(t, err)

	assert.False(t, verdict.IsSafe)
	assert.Equal(t, domain.StatusUnsafe, verdict.Status)
	require.NotEmpty(t, verdict.Threats)
	assert.Equal(t, domain.ThreatUnofficialDomain, verdict.Threats[0].Type)
}

func TestCheckURL_ReputationUnsafeZeroesTheScore(t *testing.T) {
	svc := newTestService(serviceOptions{
		verifiers: []ports.Verifier{
			&stubVerifier{dim: domain.DimensionSSL, result: positiveResult(domain.DimensionSSL, 1.0)},
		},
		reputation: domain.ReputationResult{
			Available: true,
			IsSafe:    false,
			Threats:   []domain.Threat{{Type: "SOCIAL_ENGINEERING", Platform: "reputation-api"}},
		},
	})

	verdict, err := svc.CheckURL(context.Background(), "https://flagged.example.com")
	require.NoError(t, err)

	assert.Equal(t, 0, verdict.Score)
	assert.False(t, verdict.IsSafe)
	assert.Equal(t, domain.CheckMethodFull, verdict.CheckMethod)
}

func TestCheckURL_DegradedReputationFallsBackToHeuristics(t *testing.T) {
	svc := newTestService(serviceOptions{
		verifiers: []ports.Verifier{
			&stubVerifier{dim: domain.DimensionSSL, result: positiveResult(domain.DimensionSSL, 1.0)},
		},
		reputation: domain.ReputationResult{Available: false},
	})

	verdict, err := svc.CheckURL(context.Background(), "https://example-shop.com")
	require.NoError(t, err)

	assert.True(t, verdict.IsSafe)
	assert.Equal(t, domain.CheckMethodHeuristics, verdict.CheckMethod)
}

func TestCheckURL_VerdictsAreReproducible(t *testing.T) {
	build := func() *TriageService {
		return newTestService(serviceOptions{
			verifiers: []ports.Verifier{
				&stubVerifier{dim: domain.DimensionDomain, result: positiveResult(domain.DimensionDomain, 1.0)},
				&stubVerifier{dim: domain.DimensionSSL, result: positiveResult(domain.DimensionSSL, 1.0)},
			},
		})
	}

	first, err := build().CheckURL(context.Background(), "https://example-shop.com/offer")
	require.NoError(t, err)
	second, err := build().CheckURL(context.Background(), "https://example-shop.com/offer")
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b), "same input and clock must produce a byte-identical verdict")
}

func TestCheckSMS_ScamMessageIsFraud(t *testing.T) {
	svc := newTestService(serviceOptions{})

	// Several scam keyword families plus a shortener link stack enough hard
	// issues for the top classification.
	verdict, err := svc.CheckSMS(context.Background(), "VX-PRIZE",
		"Congratulations you have won a lottery! Your account blocked, share your otp at https://bit.ly/claim")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFraud, verdict.Status)
	assert.False(t, verdict.IsSafe)
	assert.Equal(t, "high", verdict.Confidence)
}

func TestCheckSMS_CleanTransactionalMessage(t *testing.T) {
	svc := newTestService(serviceOptions{
		verifiers: []ports.Verifier{
			&stubVerifier{dim: domain.DimensionSender, result: domain.VerificationResult{
				IsPositive: true,
				Confidence: 0.97,
				Source:     "stub",
				Details:    map[string]string{"organization": "HDFC Bank"},
			}},
		},
	})

	verdict, err := svc.CheckSMS(context.Background(), "HDFCBK",
		"Rs 1,250.00 debited from your account for UPI payment. Ref 829134.")
	require.NoError(t, err)

	assert.True(t, verdict.IsSafe)
}

func TestCheckSMS_RejectsEmptyBody(t *testing.T) {
	svc := newTestService(serviceOptions{})

	_, err := svc.CheckSMS(context.Background(), "HDFCBK", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheckPhone_BlacklistedNumber(t *testing.T) {
	svc := newTestService(serviceOptions{
		verifiers: []ports.Verifier{
			&stubVerifier{dim: domain.DimensionPhone, result: positiveResult(domain.DimensionPhone, 0.9)},
			&stubVerifier{dim: domain.DimensionBlacklist, result: domain.VerificationResult{
				IsPositive: false,
				Confidence: 0.98,
				Source:     "stub",
				Details:    map[string]string{"hit": "true", "reason": "reported vishing number"},
			}},
		},
	})

	verdict, err := svc.CheckPhone(context.Background(), "+911234500000", "")
	require.NoError(t, err)

	assert.False(t, verdict.IsSafe)
	require.NotEmpty(t, verdict.Threats)
	assert.Equal(t, domain.ThreatBlacklisted, verdict.Threats[0].Type)
}

func TestCheckSocial_ScamProfile(t *testing.T) {
	svc := newTestService(serviceOptions{})

	verdict, err := svc.CheckSocial(context.Background(), domain.SocialSignals{
		Username:       "freecash_2026",
		FollowerCount:  2,
		FollowingCount: 4000,
		AccountAgeDays: 5,
		DefaultAvatar:  true,
		PostsLast24h:   80,
		Bio:            "crypto investment tips, 100% profit guaranteed returns",
	})
	require.NoError(t, err)

	assert.False(t, verdict.IsSafe)
	assert.Contains(t, []domain.Status{domain.StatusSuspicious, domain.StatusFraud}, verdict.Status)
}

func TestCheckTransaction_FlagsHighRiskForReview(t *testing.T) {
	audit := newMemoryAuditStore()
	svc := newTestService(serviceOptions{audit: audit})

	txID := uuid.MustParse("99999999-8888-4777-8666-555555555555")
	verdict, err := svc.CheckTransaction(context.Background(), domain.Transaction{
		ID:        txID,
		Amount:    decimal.NewFromInt(60000),
		Currency:  "INR",
		Telemetry: &domain.DeviceTelemetry{Rooted: true},
	})
	require.NoError(t, err)

	assert.True(t, verdict.RequiresReview)
	assert.Equal(t, 90, verdict.Score)

	score, flagged := audit.flagged[txID]
	assert.True(t, flagged, "review-worthy transactions reach the audit store")
	assert.Equal(t, 90, score)
}

func TestCheckTransaction_LowRiskSkipsReview(t *testing.T) {
	audit := newMemoryAuditStore()
	svc := newTestService(serviceOptions{audit: audit})

	verdict, err := svc.CheckTransaction(context.Background(), domain.Transaction{
		ID:       uuid.New(),
		Amount:   decimal.NewFromInt(500),
		Currency: "INR",
	})
	require.NoError(t, err)

	assert.False(t, verdict.RequiresReview)
	assert.Empty(t, audit.flagged)
}

func TestCheckTransaction_RejectsInvalidInput(t *testing.T) {
	svc := newTestService(serviceOptions{})

	_, err := svc.CheckTransaction(context.Background(), domain.Transaction{
		ID:     uuid.New(),
		Amount: decimal.NewFromInt(-5),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CheckTransaction(context.Background(), domain.Transaction{
		ID:     uuid.New(),
		Amount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "currency is required")
}

func TestAnalyzeMedia_DegradedResultReportsFallback(t *testing.T) {
	svc := newTestService(serviceOptions{
		forensics: &stubForensics{result: ports.ForensicsResult{
			Verdict:    "inconclusive",
			Score:      50,
			Confidence: 0.25,
			Indicators: []string{"ml-service-unavailable", "local-entropy-heuristic"},
			Degraded:   true,
		}},
	})

	verdict, err := svc.AnalyzeMedia(context.Background(), []byte{0x1, 0x2, 0x3}, "base64", "image")
	require.NoError(t, err)

	assert.Equal(t, domain.CheckMethodFallback, verdict.CheckMethod)
	assert.Equal(t, "low", verdict.Confidence)
	assert.Equal(t, 50, verdict.Score)
}

func TestAnalyzeMedia_RejectsEmptyPayload(t *testing.T) {
	svc := newTestService(serviceOptions{})

	_, err := svc.AnalyzeMedia(context.Background(), nil, "base64", "image")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRunVerifiers_WaitsForAllResults(t *testing.T) {
	svc := newTestService(serviceOptions{
		verifiers: []ports.Verifier{
			&stubVerifier{dim: domain.DimensionDomain, result: positiveResult(domain.DimensionDomain, 1.0), delay: 20 * time.Millisecond},
			&stubVerifier{dim: domain.DimensionSSL, result: positiveResult(domain.DimensionSSL, 1.0), delay: 40 * time.Millisecond},
			&stubVerifier{dim: domain.DimensionBlacklist, result: positiveResult(domain.DimensionBlacklist, 0.9)},
		},
	})

	subject := domain.Subject{Kind: domain.SubjectURL, URL: "https://example.com"}
	results := svc.runVerifiers(context.Background(), subject,
		domain.DimensionDomain, domain.DimensionSSL, domain.DimensionBlacklist)

	assert.Len(t, results, 3)
	for _, dim := range []domain.Dimension{domain.DimensionDomain, domain.DimensionSSL, domain.DimensionBlacklist} {
		assert.Contains(t, results, dim)
	}
}

func TestRunVerifiers_SlowCheckHitsItsOwnTimeout(t *testing.T) {
	svc := newTestService(serviceOptions{
		verifiers: []ports.Verifier{
			&stubVerifier{dim: domain.DimensionSSL, result: positiveResult(domain.DimensionSSL, 1.0), delay: time.Second},
			&stubVerifier{dim: domain.DimensionBlacklist, result: positiveResult(domain.DimensionBlacklist, 0.9)},
		},
	})

	subject := domain.Subject{Kind: domain.SubjectURL, URL: "https://example.com"}
	start := time.Now()
	results := svc.runVerifiers(context.Background(), subject, domain.DimensionSSL, domain.DimensionBlacklist)

	assert.Less(t, time.Since(start), 500*time.Millisecond, "the per-check timeout bounds the fan-out")
	assert.Len(t, results, 2)
	assert.Equal(t, "unknown", results[domain.DimensionSSL].Details["status"],
		"a timed-out check degrades instead of blocking")
}

func TestRecordAudit_EveryCheckLeavesATrail(t *testing.T) {
	audit := newMemoryAuditStore()
	svc := newTestService(serviceOptions{audit: audit})

	_, err := svc.CheckSender(context.Background(), "VX-PRIZE")
	require.NoError(t, err)

	require.Len(t, audit.events, 1)
	assert.Equal(t, "check_sender", audit.events[0].Action)
	assert.Equal(t, "VX-PRIZE", audit.events[0].Target)
	assert.NotEmpty(t, audit.events[0].Details["status"])
}
