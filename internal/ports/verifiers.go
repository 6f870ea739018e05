package ports

import (
	"context"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// Verifier is the driven port for one external verification dimension.
//
// Verify must never return an error: adapters convert every internal
// failure (timeout, refused connection, bad response) into a low-confidence
// "unknown" VerificationResult so a single unavailable upstream never blocks
// the overall verdict. Implementations must honor ctx cancellation.
type Verifier interface {
	// Dimension names the check this verifier performs
	Dimension() domain.Dimension

	// Verify evaluates the subject on this dimension
	Verify(ctx context.Context, subject domain.Subject) domain.VerificationResult
}

// ReputationClient is the authoritative reputation API. Unavailability
// (network error, rate limit, bad key) is reported through
// ReputationResult.Available, never as an error into the scorer.
type ReputationClient interface {
	CheckURL(ctx context.Context, url string) domain.ReputationResult
}

// ForensicsRequest is the narrow contract of the ML inference collaborator
type ForensicsRequest struct {
	Payload  []byte
	Encoding string
	Type     string // "image", "audio"
}

// ForensicsResult is the collaborator's verdict. Degraded marks results
// produced by the reduced-confidence local fallback after the service was
// found unavailable.
type ForensicsResult struct {
	Verdict    string
	Score      int
	Confidence float64
	Indicators []string
	Degraded   bool
}

// ModelClient is the black-box ML inference service (image/audio forensics,
// deepfake and voice detection, OCR)
type ModelClient interface {
	// Healthy probes the service health endpoint
	Healthy(ctx context.Context) bool

	// Analyze submits a payload for inference. Implementations retry with
	// bounded backoff before substituting a degraded local heuristic; the
	// returned error is reserved for invalid requests, not availability.
	Analyze(ctx context.Context, req ForensicsRequest) (ForensicsResult, error)
}
