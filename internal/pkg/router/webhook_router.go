package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LukasDorner/StreamGate/app/controllers"
	"github.com/LukasDorner/StreamGate/internal/pkg/constants"
)

type WebhookRouter struct {
}

// InstallRouter registers the payment provider's delivery endpoint. It sits
// outside the /api/v1 group: authentication is the HMAC signature, not an API
// key, and the provider's retry loop must not be rate limited.
func (h WebhookRouter) InstallRouter(app *fiber.App) {
	app.Post(constants.PaymentWebhookRoute, controllers.HandlePaymentWebhook)
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{}
}
