package patterns

import (
	"fmt"
	"strings"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// subjectURL returns the URL to inspect for URL-shaped rules: the URL member
// for URL subjects, or the first link embedded in an SMS body. Empty string
// means the rule does not apply.
func subjectURL(subject domain.Subject) string {
	switch subject.Kind {
	case domain.SubjectURL:
		return subject.URL
	case domain.SubjectSMS:
		if subject.SMS == nil {
			return ""
		}
		if urls := extractURLs(subject.SMS.Body); len(urls) > 0 {
			return urls[0]
		}
	}
	return ""
}

// ShortenerRule flags links behind URL-shortener hosts. Shorteners hide the
// real destination, which is the dominant delivery mechanism for smishing.
type ShortenerRule struct{}

func NewShortenerRule() *ShortenerRule { return &ShortenerRule{} }

func (r *ShortenerRule) Name() string { return "URL shortener" }

func (r *ShortenerRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	raw := subjectURL(subject)
	if raw == "" {
		return nil
	}
	u := parseURL(raw)
	if u == nil {
		return nil // malformed URL: skip this rule, never abort the pass
	}
	host := strings.ToLower(u.Hostname())
	for _, shortener := range tables.ShortenerDomains {
		if hostMatches(host, shortener) {
			return &domain.Finding{
				Category: CategoryShortenerLink,
				Severity: 15,
				Message:  fmt.Sprintf("link uses URL shortener %q which hides the destination", shortener),
			}
		}
	}
	return nil
}

// SuspiciousTLDRule flags hosts under TLDs with disproportionate abuse rates
type SuspiciousTLDRule struct{}

func NewSuspiciousTLDRule() *SuspiciousTLDRule { return &SuspiciousTLDRule{} }

func (r *SuspiciousTLDRule) Name() string { return "Suspicious TLD" }

func (r *SuspiciousTLDRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	raw := subjectURL(subject)
	if raw == "" {
		return nil
	}
	u := parseURL(raw)
	if u == nil {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	for _, tld := range tables.SuspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			return &domain.Finding{
				Category: CategorySuspiciousTLD,
				Severity: 10,
				Message:  fmt.Sprintf("host %q uses high-abuse TLD %q", host, tld),
			}
		}
	}
	return nil
}

// SubdomainDepthRule flags hosts with excessive subdomain nesting, a common
// trick to bury a trusted brand name inside a hostile domain
// (e.g. paypal.com.secure-login.example.tk)
type SubdomainDepthRule struct {
	maxLabels int
}

func NewSubdomainDepthRule() *SubdomainDepthRule {
	return &SubdomainDepthRule{maxLabels: 4}
}

func (r *SubdomainDepthRule) Name() string { return "Excessive subdomains" }

func (r *SubdomainDepthRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	raw := subjectURL(subject)
	if raw == "" {
		return nil
	}
	u := parseURL(raw)
	if u == nil {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	labels := strings.Count(host, ".") + 1
	if labels > r.maxLabels {
		return &domain.Finding{
			Category: CategorySubdomainDepth,
			Severity: 10,
			Message:  fmt.Sprintf("host %q has %d labels (more than %d)", host, labels, r.maxLabels),
		}
	}
	return nil
}

// RandomTokenRule flags URLs whose path carries several long random-looking
// strings. A minimum occurrence threshold keeps legitimate tokens (session
// IDs, tracking params) from firing it; UUIDs and base64 payloads are
// recognized and excluded outright.
type RandomTokenRule struct {
	minOccurrences int
}

func NewRandomTokenRule() *RandomTokenRule {
	return &RandomTokenRule{minOccurrences: 3}
}

func (r *RandomTokenRule) Name() string { return "Long random tokens" }

func (r *RandomTokenRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	raw := subjectURL(subject)
	if raw == "" {
		return nil
	}
	u := parseURL(raw)
	if u == nil {
		return nil
	}
	tokens := randomTokens(u.Path + "?" + u.RawQuery)
	if len(tokens) >= r.minOccurrences {
		return &domain.Finding{
			Category: CategoryRandomTokens,
			Severity: 10,
			Message:  fmt.Sprintf("URL contains %d long random-looking tokens", len(tokens)),
		}
	}
	return nil
}

// MaliciousHostRule flags literal malicious keywords inside the host itself.
// This is terminal: the aggregator forces score 0 for this category no
// matter what any other signal says.
type MaliciousHostRule struct{}

func NewMaliciousHostRule() *MaliciousHostRule { return &MaliciousHostRule{} }

func (r *MaliciousHostRule) Name() string { return "Malicious host keyword" }

func (r *MaliciousHostRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	raw := subjectURL(subject)
	if raw == "" {
		return nil
	}
	u := parseURL(raw)
	if u == nil {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	for _, kw := range tables.MaliciousHostKeywords {
		if strings.Contains(host, kw) {
			return &domain.Finding{
				Category: CategoryMaliciousHost,
				Severity: 100,
				Message:  fmt.Sprintf("host %q contains malicious keyword %q", host, kw),
			}
		}
	}
	return nil
}
