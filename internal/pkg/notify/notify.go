package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/LukasDorner/StreamGate/internal/pkg/cache"
	"github.com/LukasDorner/StreamGate/internal/pkg/mail"
	"github.com/LukasDorner/StreamGate/internal/pkg/money"
	"github.com/LukasDorner/StreamGate/internal/pkg/payments"
)

const intentQueueKey = "notify:intents"

// Mailer is the purchase-completed notification collaborator. Intents are
// pushed onto a Redis list for the out-of-process notification worker and, as
// a convenience in small deployments, a confirmation email is attempted
// inline. All failures are logged and swallowed: delivery is best-effort by
// contract and never reaches back into the purchase flow.
type Mailer struct{}

// NewMailer creates the default notification collaborator.
func NewMailer() *Mailer {
	return &Mailer{}
}

// PurchaseCompleted implements payments.Notifier.
func (m *Mailer) PurchaseCompleted(n payments.PurchaseNotification) {
	intent := map[string]interface{}{
		"type":        "content_purchased",
		"user_id":     n.UserID,
		"content_id":  n.ContentID,
		"total_cents": n.TotalCents,
		"currency":    n.Currency,
		"queued_at":   time.Now().UTC().Format(time.RFC3339),
	}
	if payload, err := json.Marshal(intent); err == nil {
		if err := cache.GetClient().RPush(context.Background(), intentQueueKey, payload).Err(); err != nil {
			log.Warnf("failed to enqueue purchase notification for user %d: %v", n.UserID, err)
		}
	}

	if n.UserEmail == "" {
		return
	}
	subject := "Your purchase is complete"
	body := fmt.Sprintf(
		"<p>Thanks for your purchase!</p><p><strong>%s</strong> is now available in your library.</p><p>Amount charged: %s %s</p>",
		n.ContentTitle, money.Cents(n.TotalCents), n.Currency,
	)
	if err := mail.SendMail(n.UserEmail, subject, body); err != nil {
		log.Warnf("purchase confirmation mail to user %d failed: %v", n.UserID, err)
	}
}
