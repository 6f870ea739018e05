package patterns

import (
	"fmt"
	"strings"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// smsText returns the lowercased body+sender for keyword matching, and the
// original-cased body for structural checks. Keyword matching normalizes
// case; capitalization analysis must not.
func smsText(subject domain.Subject) (normalized, original string) {
	if subject.Kind != domain.SubjectSMS || subject.SMS == nil {
		return "", ""
	}
	original = subject.SMS.Body
	normalized = strings.ToLower(subject.SMS.Sender + " " + subject.SMS.Body)
	return normalized, original
}

// KeywordFamilyRule fires when a scam keyword family reaches its required
// match count in the message text. One rule instance exists per family, so
// several families can fire on the same message. That multiplicity is what
// the fraud-polarity classifier counts as distinct hard issues.
type KeywordFamilyRule struct {
	family KeywordFamily
}

func NewKeywordFamilyRule(family KeywordFamily) *KeywordFamilyRule {
	return &KeywordFamilyRule{family: family}
}

func (r *KeywordFamilyRule) Name() string { return r.family.Name }

func (r *KeywordFamilyRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	text, _ := smsText(subject)
	if text == "" {
		return nil
	}
	matched := countKeywords(text, r.family.Keywords)
	if matched >= r.family.RequiredMatches {
		return &domain.Finding{
			Category: r.family.Category,
			Severity: r.family.Severity,
			Message:  fmt.Sprintf("%s language detected (%d keyword matches)", r.family.Name, matched),
		}
	}
	return nil
}

// UrgencyRule flags pressure language. Urgency alone is warning-grade: many
// legitimate notifications are urgent, so it only hardens a verdict in
// combination with scam keyword families.
type UrgencyRule struct {
	minMatches int
}

func NewUrgencyRule() *UrgencyRule { return &UrgencyRule{minMatches: 2} }

func (r *UrgencyRule) Name() string { return "Urgency language" }

func (r *UrgencyRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	text, _ := smsText(subject)
	if text == "" {
		return nil
	}
	matched := countKeywords(text, tables.UrgencyKeywords)
	if matched >= r.minMatches {
		return &domain.Finding{
			Category: CategoryUrgency,
			Severity: 10,
			Message:  fmt.Sprintf("%d urgency keywords present", matched),
		}
	}
	return nil
}

// ExcessiveCapsRule flags shouting: a high share of uppercase letters in a
// message of meaningful length. Runs on the original casing.
type ExcessiveCapsRule struct {
	minLetters int
	threshold  float64
}

func NewExcessiveCapsRule() *ExcessiveCapsRule {
	return &ExcessiveCapsRule{minLetters: 20, threshold: 0.6}
}

func (r *ExcessiveCapsRule) Name() string { return "Excessive capitalization" }

func (r *ExcessiveCapsRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	_, original := smsText(subject)
	if len(original) < r.minLetters {
		return nil
	}
	if ratio := capsRatio(original); ratio >= r.threshold {
		return &domain.Finding{
			Category: CategoryExcessiveCaps,
			Severity: 5,
			Message:  fmt.Sprintf("%.0f%% of letters are uppercase", ratio*100),
		}
	}
	return nil
}

// GrammarRule applies crude orthography heuristics common in scam copy:
// stacked exclamation marks and digit-for-letter substitutions inside words
type GrammarRule struct{}

func NewGrammarRule() *GrammarRule { return &GrammarRule{} }

func (r *GrammarRule) Name() string { return "Grammar heuristics" }

func (r *GrammarRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	_, original := smsText(subject)
	if original == "" {
		return nil
	}
	signals := 0
	if strings.Contains(original, "!!") {
		signals++
	}
	for _, sub := range []string{"w1n", "0ffer", "fr33", "acc0unt", "b4nk", "m0ney"} {
		if strings.Contains(strings.ToLower(original), sub) {
			signals++
			break
		}
	}
	if signals > 0 {
		return &domain.Finding{
			Category: CategoryGrammar,
			Severity: 5,
			Message:  "scam-typical orthography (stacked punctuation or leetspeak substitutions)",
		}
	}
	return nil
}
