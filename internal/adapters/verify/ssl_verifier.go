package verify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// SSLVerifier performs a live certificate fetch against the subject host.
//
// Connection-level failures (timeout, refused, DNS) are reported at low
// confidence with their error kind: network flakiness is not evidence of
// fraud and must never become a hard penalty. A completed handshake whose
// certificate is expired or does not match the hostname is reported at
// confidence 1.0 so the aggregator may record a hard threat.
type SSLVerifier struct {
	timeout time.Duration
	port    string
	now     func() time.Time
}

func NewSSLVerifier(timeout time.Duration) *SSLVerifier {
	return &SSLVerifier{timeout: timeout, port: "443", now: time.Now}
}

func (v *SSLVerifier) Dimension() domain.Dimension { return domain.DimensionSSL }

func (v *SSLVerifier) Verify(ctx context.Context, subject domain.Subject) domain.VerificationResult {
	host, ok := subjectHost(subject)
	if !ok {
		return domain.UnknownResult(domain.DimensionSSL, "tls-probe", "subject has no host")
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: v.timeout},
		Config: &tls.Config{
			ServerName: host,
			// Verification is done manually below so that expiry and hostname
			// mismatch can be reported instead of failing the handshake.
			InsecureSkipVerify: true,
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, v.port))
	if err != nil {
		kind := classifyDialError(err)
		return domain.VerificationResult{
			Dimension:  domain.DimensionSSL,
			IsPositive: false,
			Confidence: 0.3,
			Source:     "tls-probe",
			Details:    map[string]string{"error_kind": kind, "reason": err.Error()},
		}
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok || len(tlsConn.ConnectionState().PeerCertificates) == 0 {
		return domain.UnknownResult(domain.DimensionSSL, "tls-probe", "no peer certificate presented")
	}
	cert := tlsConn.ConnectionState().PeerCertificates[0]

	daysUntilExpiry := int(cert.NotAfter.Sub(v.now()).Hours() / 24)
	hostnameErr := cert.VerifyHostname(host)

	details := map[string]string{
		"issuer":            cert.Issuer.CommonName,
		"days_until_expiry": fmt.Sprintf("%d", daysUntilExpiry),
		"hostname_match":    fmt.Sprintf("%t", hostnameErr == nil),
	}

	if daysUntilExpiry > 0 && hostnameErr == nil {
		return domain.VerificationResult{
			Dimension:  domain.DimensionSSL,
			IsPositive: true,
			Confidence: 1.0,
			Source:     "tls-probe",
			Details:    details,
		}
	}

	reason := "certificate expired"
	if hostnameErr != nil {
		reason = "certificate does not match hostname"
	}
	details["error_kind"] = "tls"
	details["reason"] = reason
	return domain.VerificationResult{
		Dimension:  domain.DimensionSSL,
		IsPositive: false,
		Confidence: 1.0,
		Source:     "tls-probe",
		Details:    details,
	}
}

// classifyDialError buckets connection failures so the aggregator can tell
// network flakiness apart from anything certificate-shaped
func classifyDialError(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return "refused"
	}
	return "dial"
}
