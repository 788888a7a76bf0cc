package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// signaturePrefix is the scheme prefix Jira puts on the X-Hub-Signature
// header value.
const signaturePrefix = "sha256="

// VerifySignature verifies a Jira webhook signature: HMAC-SHA256 of the raw
// request body, hex-encoded, compared in constant time. rawBody must be the
// exact bytes received on the wire, captured before any JSON decoding;
// re-serializing a parsed body breaks verification whenever whitespace or
// key order differs from the original.
func VerifySignature(secret string, rawBody []byte, signatureHeader string) bool {
	if secret == "" || signatureHeader == "" || len(rawBody) == 0 {
		return false
	}

	received := strings.ToLower(strings.TrimSpace(signatureHeader))
	received = strings.TrimPrefix(received, signaturePrefix)
	if received == "" {
		return false
	}

	receivedMAC, err := hex.DecodeString(received)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hmac.Equal(receivedMAC, mac.Sum(nil))
}
