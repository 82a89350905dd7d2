package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/LukasDorner/StreamGate/app/models"
	"github.com/LukasDorner/StreamGate/app/repository"
	"github.com/LukasDorner/StreamGate/internal/pkg/database"
	"github.com/LukasDorner/StreamGate/internal/pkg/usercontext"
)

// APIKeyAuthMiddleware authenticates requests carrying a user API key header.
func APIKeyAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := extractAPIKeyFromHeader(c)
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing API key"})
		}

		user, status := resolveAPIKey(c, apiKey)
		if status != fiber.StatusOK {
			return c.SendStatus(status)
		}
		if user.Status != models.STATUS_ACTIVE {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "User inactive"})
		}
		attachUserContext(c, user)
		return c.Next()
	}
}

// OptionalAPIKeyMiddleware resolves the user context when an API key is
// present but lets anonymous requests through untouched. The access check
// endpoint serves both audiences and decides on its own.
func OptionalAPIKeyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := extractAPIKeyFromHeader(c)
		if apiKey == "" {
			return c.Next()
		}

		user, status := resolveAPIKey(c, apiKey)
		if status == fiber.StatusUnauthorized {
			// A presented-but-invalid key is an error, not anonymity.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid API key"})
		}
		if status != fiber.StatusOK {
			return c.SendStatus(status)
		}
		if user.Status != models.STATUS_ACTIVE {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "User inactive"})
		}
		attachUserContext(c, user)
		return c.Next()
	}
}

func resolveAPIKey(c *fiber.Ctx, apiKey string) (*models.User, int) {
	db := database.GetDB()
	if db == nil {
		log.Print("api key middleware: database unavailable")
		return nil, fiber.StatusInternalServerError
	}

	hash := models.HashAPIKey(apiKey)
	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByAPIKeyHash(c.UserContext(), hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.StatusUnauthorized
		}
		log.Printf("api key lookup failed: %v", err)
		return nil, fiber.StatusInternalServerError
	}

	// Refresh last-used timestamp best-effort.
	now := time.Now()
	if err := db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{"api_key_last_used_at": now}).Error; err != nil {
		log.Printf("failed to update api key usage timestamp for user %d: %v", user.ID, err)
	}

	return user, fiber.StatusOK
}

func attachUserContext(c *fiber.Ctx, user *models.User) {
	userCtx := usercontext.UserContext{
		UserID:     user.ID,
		Username:   user.Name,
		IsLoggedIn: true,
		IsAdmin:    user.Role == models.ROLE_ADMIN,
	}
	c.Locals("USER_CONTEXT", userCtx)
}

func extractAPIKeyFromHeader(c *fiber.Ctx) string {
	apiKey := strings.TrimSpace(c.Get("X-API-Key"))
	if apiKey != "" {
		return apiKey
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
