package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// SignatureHeader is the request header carrying the webhook signature.
const SignatureHeader = "X-Billing-Signature"

// ErrSignatureInvalid is returned when a webhook signature does not match
// the payload. The event must be discarded without side effects.
var ErrSignatureInvalid = errors.New("invalid webhook signature")

// VerifySignature checks the hex-encoded HMAC-SHA256 signature of the raw
// request body against the shared webhook secret. The body must be the raw
// bytes as received; re-serialized JSON would break the signature.
func VerifySignature(payload []byte, signature, secret string) error {
	if signature == "" {
		return ErrSignatureInvalid
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureInvalid
	}
	return nil
}

// Sign computes the signature for a payload. Used by tests and by tooling
// that replays events against a local server.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
