package patterns

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sentryline/fraud-triage/internal/domain"
)

// subjectSender returns the sender ID to inspect: the SenderID member, or
// the sender of an SMS subject
func subjectSender(subject domain.Subject) string {
	switch subject.Kind {
	case domain.SubjectSenderID:
		return subject.SenderID
	case domain.SubjectSMS:
		if subject.SMS != nil {
			return subject.SMS.Sender
		}
	}
	return ""
}

// SenderLookalikeRule flags sender IDs one edit away from a protected brand
// name (e.g. "PAYTN" vs "PAYTM"). Exact brand matches are left to the
// registry verifier; this rule only catches near-misses.
type SenderLookalikeRule struct{}

func NewSenderLookalikeRule() *SenderLookalikeRule { return &SenderLookalikeRule{} }

func (r *SenderLookalikeRule) Name() string { return "Sender lookalike" }

func (r *SenderLookalikeRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	sender := strings.ToLower(subjectSender(subject))
	if len(sender) < 4 {
		return nil
	}
	for _, brand := range tables.ProtectedBrands {
		name, _, _ := strings.Cut(brand, ".")
		if len(name) < 4 || sender == name {
			continue
		}
		if fuzzy.LevenshteinDistance(sender, name) == 1 {
			return &domain.Finding{
				Category: CategorySenderLookalike,
				Severity: 15,
				Message:  fmt.Sprintf("sender %q is one edit away from brand %q", sender, name),
			}
		}
	}
	return nil
}

// SenderFormatRule flags alphanumeric sender IDs that mix letters and digits
// in a non-standard way. Registered short codes are all-digit and registered
// alphanumeric IDs are all-letter; mixtures like "HD1FC" imitate brands
// while dodging exact-match filters.
type SenderFormatRule struct{}

func NewSenderFormatRule() *SenderFormatRule { return &SenderFormatRule{} }

func (r *SenderFormatRule) Name() string { return "Sender format" }

func (r *SenderFormatRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	sender := subjectSender(subject)
	if len(sender) < 4 || len(sender) > 11 {
		return nil
	}
	hasLetter, hasDigit := false, false
	for _, ch := range sender {
		switch {
		case unicode.IsLetter(ch):
			hasLetter = true
		case unicode.IsDigit(ch):
			hasDigit = true
		case ch == '+' || ch == '-':
			// phone-number shaped, out of scope for this rule
			return nil
		}
	}
	if hasLetter && hasDigit {
		return &domain.Finding{
			Category: CategorySenderFormat,
			Severity: 10,
			Message:  fmt.Sprintf("sender %q mixes letters and digits, unlike registered IDs", sender),
		}
	}
	return nil
}
