// Package signature verifies Calendly webhook signatures.
//
// Calendly signs each delivery with HMAC-SHA256 over "<timestamp>.<body>"
// and sends the result in the Calendly-Webhook-Signature header as
// "t=<timestamp>,v1=<hex>".
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Verifier checks webhook payload signatures against a shared signing key.
type Verifier struct {
	signingKey string
}

// NewVerifier creates a verifier for the given signing key.
func NewVerifier(signingKey string) *Verifier {
	return &Verifier{signingKey: signingKey}
}

// Verify reports whether header is a valid signature for body. It returns
// false, never an error, for a missing or malformed header or an unset key:
// the caller decides whether verification is required at all.
func (v *Verifier) Verify(body []byte, header string) bool {
	if v.signingKey == "" {
		return false
	}

	timestamp, sigHex, ok := parseHeader(header)
	if !ok {
		return false
	}

	provided, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(v.signingKey))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)

	return hmac.Equal(mac.Sum(nil), provided)
}

// parseHeader extracts the t= and v1= components from a
// "t=<timestamp>,v1=<hex>" header value.
func parseHeader(header string) (timestamp, signature string, ok bool) {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "t="):
			timestamp = strings.TrimPrefix(part, "t=")
		case strings.HasPrefix(part, "v1="):
			signature = strings.TrimPrefix(part, "v1=")
		}
	}

	if timestamp == "" || signature == "" {
		return "", "", false
	}
	return timestamp, signature, true
}
