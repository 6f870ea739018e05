package verify

import (
	"context"

	"github.com/nyaruka/phonenumbers"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// PhoneVerifier validates a number against the country-specific numbering
// plan. This is pure format/telecom validation, independent of the
// registry and blacklist checks.
type PhoneVerifier struct {
	defaultRegion string
}

func NewPhoneVerifier(defaultRegion string) *PhoneVerifier {
	return &PhoneVerifier{defaultRegion: defaultRegion}
}

func (v *PhoneVerifier) Dimension() domain.Dimension { return domain.DimensionPhone }

func (v *PhoneVerifier) Verify(ctx context.Context, subject domain.Subject) domain.VerificationResult {
	number, region, ok := subjectNumber(subject)
	if !ok {
		return domain.UnknownResult(domain.DimensionPhone, "numbering-plan", "subject has no phone number")
	}
	if region == "" {
		region = v.defaultRegion
	}

	parsed, err := phonenumbers.Parse(number, region)
	if err != nil {
		return domain.VerificationResult{
			Dimension:  domain.DimensionPhone,
			IsPositive: false,
			Confidence: 0.9,
			Source:     "numbering-plan",
			Details:    map[string]string{"reason": "unparseable number: " + err.Error()},
		}
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return domain.VerificationResult{
			Dimension:  domain.DimensionPhone,
			IsPositive: false,
			Confidence: 0.9,
			Source:     "numbering-plan",
			Details:    map[string]string{"reason": "number not valid for region " + region},
		}
	}

	return domain.VerificationResult{
		Dimension:  domain.DimensionPhone,
		IsPositive: true,
		Confidence: 0.9,
		Source:     "numbering-plan",
		Details: map[string]string{
			"region": phonenumbers.GetRegionCodeForNumber(parsed),
			"type":   numberTypeName(phonenumbers.GetNumberType(parsed)),
		},
	}
}

func numberTypeName(t phonenumbers.PhoneNumberType) string {
	switch t {
	case phonenumbers.MOBILE:
		return "mobile"
	case phonenumbers.FIXED_LINE:
		return "fixed_line"
	case phonenumbers.FIXED_LINE_OR_MOBILE:
		return "fixed_line_or_mobile"
	case phonenumbers.TOLL_FREE:
		return "toll_free"
	case phonenumbers.PREMIUM_RATE:
		return "premium_rate"
	case phonenumbers.VOIP:
		return "voip"
	default:
		return "other"
	}
}
