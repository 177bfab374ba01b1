package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/utils"
)

const userContextKey = "user"

// AuthMiddleware verifies the bearer token, loads the user it references and
// attaches the record to the request context. Malformed, expired and
// dangling tokens are all 401; a blocked account authenticates but is
// rejected with 403.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			message := "Unauthorized"
			if ferr, ok := err.(*fiber.Error); ok {
				message = ferr.Message
			}
			return utils.Unauthorized(c, message)
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "User not found")
		}

		if user.Blocked {
			return utils.Forbidden(c, "Account is blocked")
		}

		c.Locals(userContextKey, &user)
		return c.Next()
	}
}

// RequireRole gates a route on the role of the already-authenticated user.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return utils.Forbidden(c, "Insufficient permissions")
	}
}

// CurrentUser returns the user attached by AuthMiddleware, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userContextKey).(*models.User)
	return user
}
