package verify

import (
	"context"
	"strings"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// SenderRegistryVerifier looks a sender ID up in the official short-code /
// sender-ID registry and returns the registered organization on a hit.
type SenderRegistryVerifier struct {
	registry map[string]string // uppercased sender ID -> organization
}

func NewSenderRegistryVerifier(registry map[string]string) *SenderRegistryVerifier {
	normalized := make(map[string]string, len(registry))
	for id, org := range registry {
		normalized[strings.ToUpper(strings.TrimSpace(id))] = org
	}
	return &SenderRegistryVerifier{registry: normalized}
}

func (v *SenderRegistryVerifier) Dimension() domain.Dimension { return domain.DimensionSender }

func (v *SenderRegistryVerifier) Verify(ctx context.Context, subject domain.Subject) domain.VerificationResult {
	sender := ""
	switch subject.Kind {
	case domain.SubjectSenderID:
		sender = subject.SenderID
	case domain.SubjectSMS:
		if subject.SMS != nil {
			sender = subject.SMS.Sender
		}
	}
	if sender == "" {
		return domain.UnknownResult(domain.DimensionSender, "sender-registry", "subject has no sender ID")
	}

	if org, ok := v.registry[strings.ToUpper(strings.TrimSpace(sender))]; ok {
		return domain.VerificationResult{
			Dimension:  domain.DimensionSender,
			IsPositive: true,
			Confidence: 0.97,
			Source:     "sender-registry",
			Details:    map[string]string{"organization": org},
		}
	}
	return domain.VerificationResult{
		Dimension:  domain.DimensionSender,
		IsPositive: false,
		Confidence: 0.4,
		Source:     "sender-registry",
		Details:    map[string]string{"status": "unregistered"},
	}
}
