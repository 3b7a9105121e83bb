package api

import (
	"context"
	"strings"

	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/logger"

	"github.com/gofiber/fiber/v2"
)

const localUserID = "user_id"

// Authenticator resolves bearer tokens to user ids.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// WithLogger puts the request-scoped logger into the user context.
func WithLogger(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(logger.ContextWithLogger(c.UserContext(), log))
		return c.Next()
	}
}

// OptionalAuth sets the user id when a valid token is sent and lets guests through.
func OptionalAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}
		userID, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(localUserID, userID)
		return c.Next()
	}
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.Authenticate(c.UserContext(), bearerToken(c))
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(localUserID, userID)
		return c.Next()
	}
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func requireUser(c *fiber.Ctx) (string, error) {
	if id := userID(c); id != "" {
		return id, nil
	}
	return "", entity.ErrUnauthorized
}
