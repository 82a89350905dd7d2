package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LukasDorner/StreamGate/app/repository"
	"github.com/LukasDorner/StreamGate/internal/pkg/access"
	"github.com/LukasDorner/StreamGate/internal/pkg/delivery"
	"github.com/LukasDorner/StreamGate/internal/pkg/metrics/counter"
	"github.com/LukasDorner/StreamGate/internal/pkg/usercontext"
)

// urlIssuer is initialized once at startup; nil when media delivery is not
// configured (tests, local dev without a bucket).
var urlIssuer delivery.URLIssuer

// SetURLIssuer wires the signed delivery URL collaborator.
func SetURLIssuer(issuer delivery.URLIssuer) {
	urlIssuer = issuer
}

// HandleContentAccessCheck answers "may this requester watch this content".
// Anonymous requests are legitimate here; free public content allows them.
// With ?issue_url=true an allow decision also returns a signed delivery URL.
func HandleContentAccessCheck(c *fiber.Ctx) error {
	contentUUID := strings.TrimSpace(c.Params("uuid"))
	if _, err := uuid.Parse(contentUUID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_content_id"})
	}

	var userID *uint
	if userCtx := usercontext.GetUserContext(c); userCtx.IsLoggedIn {
		id := userCtx.UserID
		userID = &id
	}

	verifier := access.NewVerifierFromRepositories(repository.GetGlobalRepositories())
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	decision, content, err := verifier.CanWatch(ctx, userID, contentUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "content_not_found"})
		}
		log.Errorf("access check for content %s failed: %v", contentUUID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "access_check_failed"})
	}

	_ = counter.AddAccessDecision(decision.Allowed)

	resp := fiber.Map{
		"can_watch": decision.Allowed,
		"reason":    decision.Reason,
	}
	if decision.AccessType != "" {
		resp["access_type"] = decision.AccessType
	}
	if decision.ExpiresAt != nil {
		resp["expires_at"] = decision.ExpiresAt
	}

	if decision.Allowed && c.QueryBool("issue_url") {
		if urlIssuer == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "delivery_unavailable"})
		}
		var viewerID uint
		if userID != nil {
			viewerID = *userID
		}
		signed, err := urlIssuer.Issue(ctx, content.StorageKey, viewerID, 0)
		if err != nil {
			log.Errorf("failed to issue delivery URL for content %s: %v", contentUUID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "url_issuance_failed"})
		}
		resp["url"] = signed.URL
		resp["url_expires_at"] = signed.ExpiresAt
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
