package counter

import (
	"context"
	"time"

	"github.com/LukasDorner/StreamGate/internal/pkg/cache"
)

const (
	webhookReceivedKey = "payments:counters:webhook_received"
	webhookAppliedKey  = "payments:counters:webhook_applied"
	webhookRejectedKey = "payments:counters:webhook_rejected"
	accessAllowedKey   = "access:counters:allowed"
	accessDeniedKey    = "access:counters:denied"
)

// AddWebhookReceived increments the received-webhook counter in Redis
func AddWebhookReceived() error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookReceivedKey, today(), 1).Err()
}

// AddWebhookApplied increments the applied-webhook counter in Redis
func AddWebhookApplied() error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookAppliedKey, today(), 1).Err()
}

// AddWebhookRejected increments the rejected-webhook counter in Redis
func AddWebhookRejected() error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookRejectedKey, today(), 1).Err()
}

// AddAccessDecision increments the daily allow/deny counter in Redis
func AddAccessDecision(allowed bool) error {
	ctx := context.Background()
	key := accessDeniedKey
	if allowed {
		key = accessAllowedKey
	}
	return cache.GetClient().HIncrBy(ctx, key, today(), 1).Err()
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
