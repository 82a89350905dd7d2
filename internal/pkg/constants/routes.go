package constants

// Static route constants
const (
	PaymentWebhookRoute    = "/api/internal/payments/webhook"
	ContentAccessRoute     = "/content/:uuid/access"
	CustomerPurchasesRoute = "/customers/:customer_id/purchases"
)
