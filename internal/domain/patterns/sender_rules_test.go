package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentryline/fraud-triage/internal/domain"
)

func senderSubject(id string) domain.Subject {
	return domain.Subject{Kind: domain.SubjectSenderID, SenderID: id}
}

func TestSenderLookalikeRule_Match(t *testing.T) {
	tables := Default()
	rule := NewSenderLookalikeRule()

	tests := []struct {
		name        string
		sender      string
		expectMatch bool
	}{
		{name: "one edit from paytm", sender: "PAYTN", expectMatch: true},
		{name: "one edit from netflix", sender: "NETFLIK", expectMatch: true},
		{name: "exact brand name is left to the registry", sender: "PAYTM", expectMatch: false},
		{name: "unrelated sender", sender: "AIRTEL", expectMatch: false},
		{name: "too short to compare", sender: "OK1", expectMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rule.Match(senderSubject(tt.sender), tables)
			if tt.expectMatch {
				assert.NotNil(t, f)
				assert.Equal(t, CategorySenderLookalike, f.Category)
				assert.Equal(t, SeverityHardIssue, f.Severity)
			} else {
				assert.Nil(t, f)
			}
		})
	}
}

func TestSenderLookalikeRule_ReadsSMSSender(t *testing.T) {
	tables := Default()
	subject := smsSubject("PAYTN", "Your wallet has been credited")

	f := NewSenderLookalikeRule().Match(subject, tables)
	assert.NotNil(t, f)
	assert.Equal(t, CategorySenderLookalike, f.Category)
}

func TestSenderFormatRule_Match(t *testing.T) {
	tables := Default()
	rule := NewSenderFormatRule()

	tests := []struct {
		name        string
		sender      string
		expectMatch bool
	}{
		{name: "letters mixed with digits", sender: "HD1FC", expectMatch: true},
		{name: "all letters", sender: "HDFCBK", expectMatch: false},
		{name: "all digits short code", sender: "56789", expectMatch: false},
		{name: "phone number shaped", sender: "+9198765432", expectMatch: false},
		{name: "too long", sender: "PROMOTIONS2024", expectMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rule.Match(senderSubject(tt.sender), tables)
			assert.Equal(t, tt.expectMatch, f != nil)
		})
	}
}
