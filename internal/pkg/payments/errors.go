package payments

import "errors"

// Boundary errors: rejected at the webhook endpoint with a non-retryable
// response and a security-audit log line.
var (
	ErrSignatureInvalid = errors.New("payments: webhook signature invalid")
	ErrReplayDetected   = errors.New("payments: webhook timestamp outside freshness window")
	ErrMalformedPayload = errors.New("payments: webhook payload malformed")
)

// Configuration errors: the platform is misconfigured, not the caller. The
// transaction aborts, the provider gets a retryable failure and operations get
// an alert; a retry cannot succeed until the configuration is fixed.
var (
	ErrNoActiveSplitConfig  = errors.New("payments: no active revenue split configuration for scope")
	ErrAmbiguousSplitConfig = errors.New("payments: multiple active revenue split configurations for scope")
	ErrNegativeShare        = errors.New("payments: split configuration yields a negative share")
)

// Flow-control outcomes that are not failures.
var (
	// ErrDuplicateEvent means the event id was already applied; callers
	// acknowledge success without reprocessing.
	ErrDuplicateEvent = errors.New("payments: event already applied")
	// ErrEventInFlight means a concurrent delivery of the same event id holds
	// the claim; callers respond retryable so the redelivery lands after the
	// winner resolves.
	ErrEventInFlight = errors.New("payments: event claim held by concurrent delivery")
	// ErrPurchaseConflict means the customer already owns the content via a
	// distinct event id; surfaced as idempotent success, never as failure.
	ErrPurchaseConflict = errors.New("payments: customer already owns content")
)

// IsConfigurationError reports whether err belongs to the operator-alert family.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoActiveSplitConfig) ||
		errors.Is(err, ErrAmbiguousSplitConfig) ||
		errors.Is(err, ErrNegativeShare)
}
