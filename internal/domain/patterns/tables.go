package patterns

// KeywordFamily is a named cluster of scam keywords. A family fires when at
// least RequiredMatches distinct keywords appear in the normalized text.
// RequiredMatches exists to keep single incidental words (e.g. "account" in
// a legitimate notification) from flagging a message.
type KeywordFamily struct {
	Name            string
	Category        string
	Keywords        []string
	RequiredMatches int
	Severity        int
}

// Tables holds the process-wide static rule configuration: loaded once at
// startup, never mutated at runtime. Hot reload happens only via redeploy.
type Tables struct {
	// LegitimateDomains is the allowlist of well-known registrable domains.
	// Matching is exact or suffix ("google.com" covers "www.google.com").
	LegitimateDomains []string

	// ProtectedBrands are domains defended against typosquatting
	ProtectedBrands []string

	// ShortenerDomains are URL-shortener hosts
	ShortenerDomains []string

	// SuspiciousTLDs are top-level domains with disproportionate abuse rates
	SuspiciousTLDs []string

	// MaliciousHostKeywords are literal substrings in a host that always
	// force an unsafe verdict, regardless of all other signals
	MaliciousHostKeywords []string

	// KeywordFamilies are the scam keyword clusters for SMS/content analysis
	KeywordFamilies []KeywordFamily

	// UrgencyKeywords trigger the urgency-language heuristic
	UrgencyKeywords []string
}

// IsAllowlisted reports whether host exactly matches or is a subdomain of a
// legitimate domain
func (t *Tables) IsAllowlisted(host string) bool {
	for _, d := range t.LegitimateDomains {
		if hostMatches(host, d) {
			return true
		}
	}
	return false
}

// Default returns the built-in rule tables. Callers must treat the returned
// tables as immutable.
func Default() *Tables {
	return &Tables{
		LegitimateDomains: []string{
			"google.com", "youtube.com", "facebook.com", "instagram.com",
			"twitter.com", "x.com", "linkedin.com", "github.com",
			"microsoft.com", "apple.com", "amazon.com", "netflix.com",
			"paypal.com", "wikipedia.org", "whatsapp.com",
			"paytm.com", "phonepe.com", "sbi.co.in", "hdfcbank.com",
			"icicibank.com", "axisbank.com", "irctc.co.in", "uidai.gov.in",
		},
		ProtectedBrands: []string{
			"google.com", "microsoft.com", "apple.com", "amazon.com",
			"paypal.com", "netflix.com", "facebook.com", "instagram.com",
			"paytm.com", "phonepe.com", "sbi.co.in", "hdfcbank.com",
			"icicibank.com", "axisbank.com",
		},
		ShortenerDomains: []string{
			"bit.ly", "tinyurl.com", "goo.gl", "t.co", "ow.ly", "is.gd",
			"buff.ly", "rebrand.ly", "cutt.ly", "shorturl.at", "rb.gy",
			"tiny.cc", "lnkd.in",
		},
		SuspiciousTLDs: []string{
			".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".club",
			".work", ".click", ".loan", ".win", ".bid", ".stream",
		},
		MaliciousHostKeywords: []string{
			"phishing", "malware",
		},
		KeywordFamilies: []KeywordFamily{
			{
				Name:     "Bank scam",
				Category: "SCAM_KEYWORDS_BANK",
				Keywords: []string{
					"account blocked", "account suspended", "kyc", "kyc expired",
					"update your bank", "verify your account", "account will be closed",
					"debit card blocked", "net banking suspended", "pan card",
				},
				RequiredMatches: 1,
				Severity:        15,
			},
			{
				Name:     "Prize and lottery",
				Category: "SCAM_KEYWORDS_LOTTERY",
				Keywords: []string{
					"congratulations you have won", "lottery", "lucky draw",
					"claim your prize", "you are selected", "cash prize",
					"winner", "jackpot", "free gift",
				},
				RequiredMatches: 1,
				Severity:        15,
			},
			{
				Name:     "Delivery scam",
				Category: "SCAM_KEYWORDS_DELIVERY",
				Keywords: []string{
					"package held", "customs fee", "delivery failed",
					"redelivery fee", "parcel pending", "shipment on hold",
					"pay a small fee",
				},
				RequiredMatches: 1,
				Severity:        15,
			},
			{
				Name:     "Tech support scam",
				Category: "SCAM_KEYWORDS_TECHSUPPORT",
				Keywords: []string{
					"virus detected", "your device is infected", "call support",
					"microsoft support", "remote access", "anydesk", "teamviewer",
				},
				RequiredMatches: 1,
				Severity:        15,
			},
			{
				Name:     "Credential harvesting",
				Category: "SCAM_KEYWORDS_CREDENTIALS",
				Keywords: []string{
					"enter your otp", "share your otp", "one time password",
					"confirm your password", "login to verify", "cvv",
					"card number and pin", "reset your password immediately",
				},
				RequiredMatches: 1,
				Severity:        15,
			},
			{
				Name:     "Investment scam",
				Category: "SCAM_KEYWORDS_INVESTMENT",
				Keywords: []string{
					"guaranteed returns", "double your money", "crypto investment",
					"trading tips", "100% profit", "risk free investment",
				},
				RequiredMatches: 1,
				Severity:        15,
			},
		},
		UrgencyKeywords: []string{
			"urgent", "immediately", "right now", "within 24 hours",
			"act now", "expires today", "final notice", "last chance",
			"asap", "don't delay",
		},
	}
}
