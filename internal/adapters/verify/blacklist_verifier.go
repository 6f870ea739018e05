package verify

import (
	"context"
	"strings"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// BlacklistVerifier looks subjects up in a maintained list of known-bad
// URLs, hosts and phone numbers. The result is binary with high inherent
// confidence: a curated blacklist entry is authoritative.
type BlacklistVerifier struct {
	entries map[string]string // normalized key -> reason
}

// NewBlacklistVerifier builds a verifier over the given entries. Keys may
// be full URLs, bare hosts, or phone numbers.
func NewBlacklistVerifier(entries map[string]string) *BlacklistVerifier {
	normalized := make(map[string]string, len(entries))
	for k, reason := range entries {
		normalized[strings.ToLower(strings.TrimSpace(k))] = reason
	}
	return &BlacklistVerifier{entries: normalized}
}

func (v *BlacklistVerifier) Dimension() domain.Dimension { return domain.DimensionBlacklist }

func (v *BlacklistVerifier) Verify(ctx context.Context, subject domain.Subject) domain.VerificationResult {
	for _, key := range v.lookupKeys(subject) {
		if reason, hit := v.entries[key]; hit {
			return domain.VerificationResult{
				Dimension:  domain.DimensionBlacklist,
				IsPositive: false,
				Confidence: 0.98,
				Source:     "blacklist",
				Details:    map[string]string{"hit": "true", "matched": key, "reason": reason},
			}
		}
	}
	return domain.VerificationResult{
		Dimension:  domain.DimensionBlacklist,
		IsPositive: true,
		Confidence: 0.9,
		Source:     "blacklist",
		Details:    map[string]string{"hit": "false"},
	}
}

// lookupKeys derives every normalized key worth checking for the subject
func (v *BlacklistVerifier) lookupKeys(subject domain.Subject) []string {
	keys := make([]string, 0, 3)
	switch subject.Kind {
	case domain.SubjectURL:
		keys = append(keys, strings.ToLower(strings.TrimSpace(subject.URL)))
	case domain.SubjectPhone:
		if subject.Phone != nil {
			keys = append(keys, strings.TrimSpace(subject.Phone.Number))
		}
	case domain.SubjectSMS:
		if subject.SMS != nil {
			keys = append(keys, strings.ToLower(strings.TrimSpace(subject.SMS.Sender)))
		}
	}
	if host, ok := subjectHost(subject); ok {
		keys = append(keys, host)
	}
	return keys
}
