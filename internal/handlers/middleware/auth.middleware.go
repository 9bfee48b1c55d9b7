package middleware

import (
	"context"
	"errors"

	"hotelparadise/internal/models"
	"hotelparadise/internal/types"
	"hotelparadise/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthContextKey is used to store the user in the Go context.
type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User"
)

// Authenticate resolves the bearer token when one is present. A rejected
// token leaves the request anonymous and protected routes reject it
// afterwards. A registry failure ends the request with a 500.
func (m *Middleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := utils.BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Next()
		}

		log := m.log.TraceFromContext(c.UserContext()).Function("Authenticate")

		user, err := m.session.Authenticate(c.UserContext(), raw, models.TokenTypeAccess)
		if err != nil {
			if !errors.Is(err, types.ErrAuthentication) {
				log.Er("failed to authenticate request", err, "path", c.Path())
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to authenticate request",
				})
			}
			log.Debug("proceeding anonymously", "path", c.Path(), "reason", err.Error())
			return c.Next()
		}

		c.Locals(UserKeyFiber, user)
		c.SetUserContext(context.WithValue(c.UserContext(), UserKey, user))

		return c.Next()
	}
}

func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}
		return c.Next()
	}
}

// RequireRole implies RequireAuth.
func (m *Middleware) RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !user.HasRole(roles...) {
			m.log.TraceFromContext(c.UserContext()).Function("RequireRole").
				Info("role not allowed", "userID", user.ID, "role", user.Role, "path", c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}

		return c.Next()
	}
}

// GetUser extracts user from Fiber context
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}
