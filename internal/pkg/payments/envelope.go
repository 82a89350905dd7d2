package payments

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Event types the processor sends. Anything else is accepted and ignored so a
// provider rollout of new types never turns into delivery failures on our side.
const (
	EventCheckoutCompleted      = "checkout.session.completed"
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
	EventChargeRefunded         = "charge.refunded"
)

// VerifiedEvent is the provider-agnostic envelope produced after signature
// verification. Payload stays raw until the event type routes it to a handler.
type VerifiedEvent struct {
	EventID   string
	EventType string
	Payload   json.RawMessage
	RawBody   []byte
}

// IsPurchaseEvent reports whether the event type feeds the purchase ledger.
func (e *VerifiedEvent) IsPurchaseEvent() bool {
	switch e.EventType {
	case EventCheckoutCompleted, EventPaymentIntentSucceeded:
		return true
	default:
		return false
	}
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ParseEvent decodes the verified raw body into the envelope. Only structural
// problems are errors; unknown event types pass through untouched.
func ParseEvent(rawBody []byte) (*VerifiedEvent, error) {
	var env eventEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if strings.TrimSpace(env.ID) == "" {
		return nil, fmt.Errorf("%w: missing event id", ErrMalformedPayload)
	}
	if strings.TrimSpace(env.Type) == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrMalformedPayload)
	}
	return &VerifiedEvent{
		EventID:   env.ID,
		EventType: env.Type,
		Payload:   env.Data.Object,
		RawBody:   rawBody,
	}, nil
}

// CheckoutMetadata is the contract stashed on the checkout session when the
// platform created it. CustomerID is the processor's opaque identity string
// and ContentID/OrganizationID are platform UUIDs; the two identifier spaces
// must never be cross-accepted.
type CheckoutMetadata struct {
	CustomerID     string `json:"customerId" validate:"required,max=191"`
	ContentID      string `json:"contentId" validate:"required,uuid"`
	OrganizationID string `json:"organizationId" validate:"omitempty,uuid"`
}

// PurchasePayload is the slice of the checkout/payment object the ledger needs.
// The amount ceiling mirrors money.MaxAmount so absurd totals fail validation
// before any arithmetic sees them.
type PurchasePayload struct {
	PaymentRef  string           `json:"payment_ref" validate:"required,max=191"`
	AmountTotal int64            `json:"amount_total" validate:"gte=0,lte=100000000000000"`
	Currency    string           `json:"currency"`
	Metadata    CheckoutMetadata `json:"metadata" validate:"required"`
}

var payloadValidator = validator.New()

// ParsePurchasePayload decodes and strictly validates a purchase event payload.
// A UUID-shaped customerId is rejected outright: it means somebody wired the
// wrong identifier into checkout creation and silently accepting it would
// corrupt the ledger's customer dimension.
func ParsePurchasePayload(payload json.RawMessage) (*PurchasePayload, error) {
	var p PurchasePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := payloadValidator.Struct(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if _, err := uuid.Parse(p.Metadata.CustomerID); err == nil {
		return nil, fmt.Errorf("%w: customerId must be an opaque identity, not a UUID", ErrMalformedPayload)
	}
	if _, err := uuid.Parse(p.Metadata.ContentID); err != nil {
		return nil, fmt.Errorf("%w: contentId is not a UUID", ErrMalformedPayload)
	}
	if p.Metadata.OrganizationID != "" {
		if _, err := uuid.Parse(p.Metadata.OrganizationID); err != nil {
			return nil, fmt.Errorf("%w: organizationId is not a UUID", ErrMalformedPayload)
		}
	}
	if p.Currency == "" {
		p.Currency = "usd"
	}
	p.Currency = strings.ToLower(p.Currency)
	return &p, nil
}
