package verify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sentryline/fraud-triage/internal/domain"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// subjectHost extracts the hostname the domain/SSL verifiers should probe:
// the URL host for URL subjects, or the host of the first link in an SMS.
// ok=false means the dimension does not apply to this subject.
func subjectHost(subject domain.Subject) (string, bool) {
	raw := ""
	switch subject.Kind {
	case domain.SubjectURL:
		raw = subject.URL
	case domain.SubjectSMS:
		if subject.SMS != nil {
			if links := urlPattern.FindAllString(subject.SMS.Body, -1); len(links) > 0 {
				raw = links[0]
			}
		}
	}
	if raw == "" {
		return "", false
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return strings.ToLower(u.Hostname()), true
}

// subjectNumber extracts the phone number for phone-shaped checks: the
// Phone member, or a numeric SMS sender
func subjectNumber(subject domain.Subject) (number, region string, ok bool) {
	switch subject.Kind {
	case domain.SubjectPhone:
		if subject.Phone != nil {
			return subject.Phone.Number, subject.Phone.Region, true
		}
	case domain.SubjectSMS:
		if subject.SMS != nil && looksNumeric(subject.SMS.Sender) {
			return subject.SMS.Sender, "", true
		}
	}
	return "", "", false
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '+' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
