package payments

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukasDorner/StreamGate/internal/pkg/money"
)

func TestParseEvent(t *testing.T) {
	raw := []byte(`{"id":"evt_42","type":"checkout.session.completed","data":{"object":{"payment_ref":"pi_1"}}}`)

	ev, err := ParseEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "evt_42", ev.EventID)
	assert.Equal(t, EventCheckoutCompleted, ev.EventType)
	assert.True(t, ev.IsPurchaseEvent())
	assert.JSONEq(t, `{"payment_ref":"pi_1"}`, string(ev.Payload))
}

func TestParseEvent_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `<xml/>`},
		{name: "missing id", raw: `{"type":"checkout.session.completed","data":{"object":{}}}`},
		{name: "missing type", raw: `{"id":"evt_1","data":{"object":{}}}`},
		{name: "blank id", raw: `{"id":"  ","type":"x","data":{"object":{}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestVerifiedEvent_IsPurchaseEvent(t *testing.T) {
	tests := []struct {
		eventType string
		want      bool
	}{
		{EventCheckoutCompleted, true},
		{EventPaymentIntentSucceeded, true},
		{EventChargeRefunded, false},
		{"customer.updated", false},
	}

	for _, tt := range tests {
		ev := &VerifiedEvent{EventType: tt.eventType}
		if got := ev.IsPurchaseEvent(); got != tt.want {
			t.Fatalf("IsPurchaseEvent(%q) = %v, want %v", tt.eventType, got, tt.want)
		}
	}
}

const validContentUUID = "0d4db78b-59a5-4be8-b298-1b0bbdf7d21e"
const validOrgUUID = "8b96f963-66b1-4492-8bb5-93c6d9d06faa"

func purchasePayload(mutate func(m map[string]any)) json.RawMessage {
	m := map[string]any{
		"payment_ref":  "pi_12345",
		"amount_total": 999,
		"currency":     "USD",
		"metadata": map[string]any{
			"customerId": "cus_abc123",
			"contentId":  validContentUUID,
		},
	}
	if mutate != nil {
		mutate(m)
	}
	raw, _ := json.Marshal(m)
	return raw
}

func TestParsePurchasePayload(t *testing.T) {
	p, err := ParsePurchasePayload(purchasePayload(nil))
	require.NoError(t, err)
	assert.Equal(t, "pi_12345", p.PaymentRef)
	assert.Equal(t, int64(999), p.AmountTotal)
	assert.Equal(t, "usd", p.Currency, "currency is normalized to lower case")
	assert.Equal(t, "cus_abc123", p.Metadata.CustomerID)
	assert.Equal(t, validContentUUID, p.Metadata.ContentID)
}

func TestParsePurchasePayload_DefaultCurrency(t *testing.T) {
	p, err := ParsePurchasePayload(purchasePayload(func(m map[string]any) {
		delete(m, "currency")
	}))
	require.NoError(t, err)
	assert.Equal(t, "usd", p.Currency)
}

func TestParsePurchasePayload_OptionalOrganization(t *testing.T) {
	p, err := ParsePurchasePayload(purchasePayload(func(m map[string]any) {
		m["metadata"].(map[string]any)["organizationId"] = validOrgUUID
	}))
	require.NoError(t, err)
	assert.Equal(t, validOrgUUID, p.Metadata.OrganizationID)
}

func TestParsePurchasePayload_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{"missing payment ref", func(m map[string]any) { delete(m, "payment_ref") }},
		{"negative amount", func(m map[string]any) { m["amount_total"] = -1 }},
		{"amount beyond supported range", func(m map[string]any) {
			m["amount_total"] = int64(money.MaxAmount) + 1
		}},
		{"missing customerId", func(m map[string]any) {
			delete(m["metadata"].(map[string]any), "customerId")
		}},
		{"missing contentId", func(m map[string]any) {
			delete(m["metadata"].(map[string]any), "contentId")
		}},
		{"contentId not a uuid", func(m map[string]any) {
			m["metadata"].(map[string]any)["contentId"] = "video-123"
		}},
		// The two identifier spaces must not be cross-accepted.
		{"uuid-shaped customerId", func(m map[string]any) {
			m["metadata"].(map[string]any)["customerId"] = validContentUUID
		}},
		{"organizationId not a uuid", func(m map[string]any) {
			m["metadata"].(map[string]any)["organizationId"] = "org-9"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePurchasePayload(purchasePayload(tt.mutate))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestParsePurchasePayload_ZeroAmountIsValid(t *testing.T) {
	p, err := ParsePurchasePayload(purchasePayload(func(m map[string]any) {
		m["amount_total"] = 0
	}))
	require.NoError(t, err)
	assert.Zero(t, p.AmountTotal)
}
