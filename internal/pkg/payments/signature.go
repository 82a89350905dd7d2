package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultFreshnessWindow bounds how old (or how far in the future, for clock
// skew) a webhook timestamp may be before the request is treated as a replay.
const DefaultFreshnessWindow = 5 * time.Minute

// VerifyWebhookSignature checks an incoming webhook against the shared secret.
// The HMAC-SHA256 is computed over "<timestamp>.<rawBody>" so a captured body
// cannot be replayed under a fresh timestamp, and compared in constant time.
// Freshness is checked first and independently of signature validity.
func VerifyWebhookSignature(rawBody []byte, signatureHeader, timestampHeader, secret string, window time.Duration, now time.Time) error {
	sig := strings.TrimSpace(signatureHeader)
	ts := strings.TrimSpace(timestampHeader)
	if sig == "" || secret == "" {
		return ErrSignatureInvalid
	}
	if window <= 0 {
		window = DefaultFreshnessWindow
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp %q", ErrReplayDetected, ts)
	}
	sent := time.Unix(unix, 0)
	if d := now.Sub(sent); d > window || d < -window {
		return fmt.Errorf("%w: timestamp %s outside ±%s", ErrReplayDetected, sent.UTC().Format(time.RFC3339), window)
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return ErrSignatureInvalid
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	if !hmac.Equal(mac.Sum(nil), decodedSig) {
		return ErrSignatureInvalid
	}
	return nil
}

// SignWebhookPayload produces the signature a well-behaved processor would
// send. Exported for tests and the local webhook replay tool.
func SignWebhookPayload(rawBody []byte, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
