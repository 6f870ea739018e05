package patterns

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var (
	uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	urlPattern  = regexp.MustCompile(`https?://[^\s<>"']+`)
	// Candidate random tokens: long unbroken alphanumeric runs. '/' is
	// excluded so path segments never merge into one token.
	tokenPattern = regexp.MustCompile(`[A-Za-z0-9+=_-]{20,}`)
)

// parseURL parses a raw URL, tolerating a missing scheme. It returns nil on
// anything unparseable so callers can skip the affected rule instead of
// aborting the whole pass.
func parseURL(raw string) *url.URL {
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	return u
}

// extractURLs pulls all URL-shaped substrings out of free text
func extractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// hostMatches reports whether host equals domain or is a subdomain of it
func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// countKeywords counts how many keywords from the list appear in text.
// Text must already be lowercased.
func countKeywords(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}

// isUUID reports whether token is a canonical UUID. UUIDs are legitimate
// high-entropy tokens and must not count toward the random-token rule.
func isUUID(token string) bool {
	return uuidPattern.MatchString(strings.ToLower(token))
}

// looksLikeBase64 reports whether token is plausibly a base64 payload:
// length divisible by 4, base64 alphabet, optional '=' padding at the end
func looksLikeBase64(token string) bool {
	if len(token)%4 != 0 {
		return false
	}
	trimmed := strings.TrimRight(token, "=")
	if len(token)-len(trimmed) > 2 {
		return false
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '/' {
			return false
		}
	}
	return true
}

// randomTokens extracts long tokens that look like random blobs, excluding
// recognized legitimate formats (UUIDs, base64 payloads)
func randomTokens(text string) []string {
	var out []string
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if isUUID(tok) || looksLikeBase64(tok) {
			continue
		}
		if !mixedAlphaNumeric(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// mixedAlphaNumeric requires both letters and digits: plain words and plain
// numbers are not random blobs
func mixedAlphaNumeric(s string) bool {
	hasLetter, hasDigit := false, false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// capsRatio returns the share of uppercase letters among all letters.
// Original casing must be preserved by the caller for this check.
func capsRatio(text string) float64 {
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}
