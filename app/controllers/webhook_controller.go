package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/LukasDorner/StreamGate/internal/pkg/database"
	"github.com/LukasDorner/StreamGate/internal/pkg/env"
	"github.com/LukasDorner/StreamGate/internal/pkg/metrics/counter"
	"github.com/LukasDorner/StreamGate/internal/pkg/notify"
	"github.com/LukasDorner/StreamGate/internal/pkg/payments"
)

// HandlePaymentWebhook ingests payment-processor events. Responses follow the
// provider's retry contract: 2xx acknowledges (including duplicates), 4xx is
// never retried (signature/freshness/shape problems), 5xx/409 asks for a retry.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("X-Payment-Signature"))
	timestamp := strings.TrimSpace(c.Get("X-Payment-Timestamp"))
	secret := env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")

	_ = counter.AddWebhookReceived()

	if err := payments.VerifyWebhookSignature(rawBody, signature, timestamp, secret, payments.DefaultFreshnessWindow, time.Now()); err != nil {
		_ = counter.AddWebhookRejected()
		if errors.Is(err, payments.ErrReplayDetected) {
			log.Warnf("SECURITY: webhook replay rejected from %s: %v", c.IP(), err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stale_timestamp"})
		}
		log.Warnf("SECURITY: webhook signature rejected from %s", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	event, err := payments.ParseEvent(rawBody)
	if err != nil {
		_ = counter.AddWebhookRejected()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	svc := payments.NewServiceFromDB(database.GetDB(), notify.NewMailer())
	svc.SetAlertFunc(notify.NewThrottledAlert(notify.DefaultAlertWindow))
	ctx, cancel := context.WithTimeout(c.UserContext(), 15*time.Second)
	defer cancel()

	outcome, err := svc.ProcessEvent(ctx, event)
	switch {
	case err == nil:
		_ = counter.AddWebhookApplied()
		resp := fiber.Map{"received": true}
		if outcome.Duplicate {
			resp["duplicate"] = true
		}
		if outcome.Ignored {
			resp["ignored"] = true
		}
		return c.Status(fiber.StatusOK).JSON(resp)

	case errors.Is(err, payments.ErrMalformedPayload):
		_ = counter.AddWebhookRejected()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})

	case errors.Is(err, payments.ErrEventInFlight):
		// A concurrent delivery holds the claim; the provider should redeliver
		// after the winner resolves.
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "event_in_flight", "retryable": true})

	case payments.IsConfigurationError(err) || errors.Is(err, payments.ErrUnlinkedCustomer):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "platform_misconfigured", "retryable": true})

	default:
		log.Errorf("webhook event %s processing failed: %v", event.EventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "processing_failed", "retryable": true})
	}
}
