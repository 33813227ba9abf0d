package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// HeaderName is the request header carrying the webhook signature
const HeaderName = "X-Line-Signature"

// Sign returns the base64-encoded HMAC-SHA256 of body keyed by the channel secret.
// The body must be the exact bytes received on the wire.
func Sign(body, channelSecret []byte) string {
	mac := hmac.New(sha256.New, channelSecret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether header is the signature of body under channelSecret.
// It never fails loudly: a missing, malformed or mismatching header is simply false.
func Verify(body []byte, header string, channelSecret []byte) bool {
	if header == "" || len(channelSecret) == 0 {
		return false
	}

	expected := Sign(body, channelSecret)

	// Compare the encoded forms so that non-canonical base64 never matches
	return subtle.ConstantTimeCompare([]byte(expected), []byte(header)) == 1
}
