package verify

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// DomainVerifier checks a subject host against the official allowlist and a
// typosquatting detector over protected brand domains.
//
// isPositive is true only for allowlist hits. Typosquat hits report
// confidence 1.0 so the aggregator may treat them as hard threats; anything
// else is a neutral low-confidence result.
type DomainVerifier struct {
	allowlist []string
	brands    []string
}

func NewDomainVerifier(allowlist, brands []string) *DomainVerifier {
	return &DomainVerifier{allowlist: allowlist, brands: brands}
}

func (v *DomainVerifier) Dimension() domain.Dimension { return domain.DimensionDomain }

func (v *DomainVerifier) Verify(ctx context.Context, subject domain.Subject) domain.VerificationResult {
	host, ok := subjectHost(subject)
	if !ok {
		return domain.UnknownResult(domain.DimensionDomain, "domain-registry", "subject has no host")
	}

	// Normalize IDN hosts so "xn--" punycode and unicode lookalikes compare
	// against the same ASCII form
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		ascii = host
	}

	for _, official := range v.allowlist {
		if ascii == official || strings.HasSuffix(ascii, "."+official) {
			return domain.VerificationResult{
				Dimension:  domain.DimensionDomain,
				IsPositive: true,
				Confidence: 1.0,
				Source:     "domain-registry",
				Details:    map[string]string{"allowlist": "true", "matched": official},
			}
		}
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(ascii)
	if err != nil {
		registrable = ascii
	}

	if brand, dist := v.closestBrand(registrable); brand != "" {
		return domain.VerificationResult{
			Dimension:  domain.DimensionDomain,
			IsPositive: false,
			Confidence: 1.0,
			Source:     "typosquat-detector",
			Details: map[string]string{
				"typosquat_of": brand,
				"distance":     fmt.Sprintf("%d", dist),
			},
		}
	}

	// Also catch brand names buried inside a longer hostile registrable
	// domain, e.g. paytm-secure-verify.tk
	for _, brand := range v.brands {
		name, _, _ := strings.Cut(brand, ".")
		if len(name) >= 5 && strings.Contains(registrable, name) && registrable != brand {
			return domain.VerificationResult{
				Dimension:  domain.DimensionDomain,
				IsPositive: false,
				Confidence: 1.0,
				Source:     "typosquat-detector",
				Details:    map[string]string{"typosquat_of": brand, "distance": "0"},
			}
		}
	}

	return domain.VerificationResult{
		Dimension:  domain.DimensionDomain,
		IsPositive: false,
		Confidence: 0.4,
		Source:     "domain-registry",
		Details:    map[string]string{"status": "unregistered"},
	}
}

// closestBrand returns the first protected brand within edit-distance
// threshold of the registrable domain. The threshold scales with length:
// 1 edit for short names, 2 for medium, ~15% of length beyond that.
func (v *DomainVerifier) closestBrand(registrable string) (string, int) {
	l := len(registrable)
	var thresh int
	switch {
	case l <= 11:
		thresh = 1
	case l <= 15:
		thresh = 2
	default:
		thresh = int(math.Ceil(float64(l) * 0.15))
	}

	for _, brand := range v.brands {
		if registrable == brand {
			continue // exact brand match is legitimate, not a squat
		}
		if dist := fuzzy.LevenshteinDistance(registrable, brand); dist <= thresh {
			return brand, dist
		}
	}
	return "", 0
}
