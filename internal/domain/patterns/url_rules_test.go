package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentryline/fraud-triage/internal/domain"
)

func urlSubject(raw string) domain.Subject {
	return domain.Subject{Kind: domain.SubjectURL, URL: raw}
}

func TestShortenerRule_Match(t *testing.T) {
	tables := Default()

	tests := []struct {
		name        string
		url         string
		expectMatch bool
	}{
		{
			name:        "bit.ly link",
			url:         "https://bit.ly/3xYzAbc",
			expectMatch: true,
		},
		{
			name:        "shortener as subdomain suffix",
			url:         "http://promo.tinyurl.com/deal",
			expectMatch: true,
		},
		{
			name:        "regular domain",
			url:         "https://example.com/page",
			expectMatch: false,
		},
		{
			name:        "shortener name embedded in another domain",
			url:         "https://bitly-fans.example.com",
			expectMatch: false,
		},
		{
			name:        "malformed URL skips rule",
			url:         "http://%zz%%",
			expectMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewShortenerRule().Match(urlSubject(tt.url), tables)
			if tt.expectMatch {
				assert.NotNil(t, f)
				assert.Equal(t, CategoryShortenerLink, f.Category)
			} else {
				assert.Nil(t, f)
			}
		})
	}
}

func TestShortenerRule_MatchesLinkInsideSMS(t *testing.T) {
	tables := Default()
	subject := domain.Subject{
		Kind: domain.SubjectSMS,
		SMS:  &domain.SMSMessage{Sender: "VX-PRIZE", Body: "claim at https://bit.ly/win now"},
	}

	f := NewShortenerRule().Match(subject, tables)
	assert.NotNil(t, f)
	assert.Equal(t, CategoryShortenerLink, f.Category)
}

func TestSuspiciousTLDRule_Match(t *testing.T) {
	tables := Default()

	tests := []struct {
		name        string
		url         string
		expectMatch bool
	}{
		{name: "tk domain", url: "http://login-update.tk", expectMatch: true},
		{name: "xyz domain", url: "https://free-prizes.xyz/go", expectMatch: true},
		{name: "com domain", url: "https://example.com", expectMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSuspiciousTLDRule().Match(urlSubject(tt.url), tables)
			assert.Equal(t, tt.expectMatch, f != nil)
		})
	}
}

func TestSubdomainDepthRule_Match(t *testing.T) {
	tables := Default()

	assert.Nil(t, NewSubdomainDepthRule().Match(urlSubject("https://www.example.com"), tables))

	f := NewSubdomainDepthRule().Match(urlSubject("https://paypal.com.secure.login.example.tk"), tables)
	assert.NotNil(t, f)
	assert.Equal(t, CategorySubdomainDepth, f.Category)
}

func TestRandomTokenRule_Match(t *testing.T) {
	tables := Default()
	rule := NewRandomTokenRule()

	t.Run("three long random tokens fire", func(t *testing.T) {
		u := "https://example.com/a1b2c3d4e5f6g7h8i9j0k1l2m3n4o5/x9y8z7w6v5u4t3s2r1q0p9o8n7m6l5/q5w6e7r8t9y0u1i2o3p4a5s6d7f8g9"
		f := rule.Match(urlSubject(u), tables)
		assert.NotNil(t, f)
		assert.Equal(t, CategoryRandomTokens, f.Category)
	})

	t.Run("two tokens stay below threshold", func(t *testing.T) {
		u := "https://example.com/a1b2c3d4e5f6g7h8i9j0k1l2m3n4o5/x9y8z7w6v5u4t3s2r1q0p9o8n7m6l5"
		assert.Nil(t, rule.Match(urlSubject(u), tables))
	})

	t.Run("UUIDs are recognized and excluded", func(t *testing.T) {
		u := "https://example.com/d4b4f7e0-1111-4a2b-9c3d-aabbccddeeff/" +
			"1a2b3c4d-5e6f-4a2b-9c3d-001122334455/" +
			"99887766-5544-4a2b-9c3d-ffeeddccbbaa"
		assert.Nil(t, rule.Match(urlSubject(u), tables))
	})
}

func TestMaliciousHostRule_Match(t *testing.T) {
	tables := Default()

	f := NewMaliciousHostRule().Match(urlSubject("https://secure-phishing-check.com"), tables)
	assert.NotNil(t, f)
	assert.Equal(t, CategoryMaliciousHost, f.Category)

	assert.Nil(t, NewMaliciousHostRule().Match(urlSubject("https://example.com"), tables))
}
