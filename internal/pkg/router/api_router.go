package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/LukasDorner/StreamGate/app/controllers"
	"github.com/LukasDorner/StreamGate/internal/pkg/constants"
	"github.com/LukasDorner/StreamGate/internal/pkg/middleware"
	"github.com/LukasDorner/StreamGate/internal/pkg/ratelimit"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    ratelimit.NewStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	v1.Get(constants.ContentAccessRoute, middleware.OptionalAPIKeyMiddleware(), controllers.HandleContentAccessCheck)
	v1.Get(constants.CustomerPurchasesRoute, middleware.APIKeyAuthMiddleware(), controllers.HandleListCustomerPurchases)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
