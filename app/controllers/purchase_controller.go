package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/LukasDorner/StreamGate/internal/pkg/database"
	"github.com/LukasDorner/StreamGate/internal/pkg/payments"
)

// HandleListCustomerPurchases returns a page of the ledger for one processor
// customer id, newest first. Used by support tooling; requires API key auth.
func HandleListCustomerPurchases(c *fiber.Ctx) error {
	customerID := strings.TrimSpace(c.Params("customer_id"))
	if customerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_customer_id"})
	}

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	svc := payments.NewServiceFromDB(database.GetDB(), nil)
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	records, err := svc.ListPurchases(ctx, customerID, offset, limit)
	if err != nil {
		log.Errorf("purchase history lookup for customer %s failed: %v", customerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"purchases": records,
		"offset":    offset,
		"limit":     limit,
	})
}
