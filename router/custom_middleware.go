package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jalexanderII/zero-todo/auth"
	"github.com/jalexanderII/zero-todo/handlers"
	"github.com/sirupsen/logrus"
)

// RequireUser resolves the caller from the Authorization bearer token and stores the user id
// in c.Locals(handlers.UserIDKey). Requests without a valid token stop here with 401.
func RequireUser(secret []byte, l logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := auth.FromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return handlers.FiberJsonResponse(c, fiber.StatusUnauthorized, "error", err.Error(), nil)
		}

		userID, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			l.WithError(err).WithField("path", c.Path()).Debug("[Auth] rejected token")
			return handlers.FiberJsonResponse(c, fiber.StatusUnauthorized, "error", "invalid token", nil)
		}

		c.Locals(handlers.UserIDKey, userID)
		return c.Next()
	}
}
