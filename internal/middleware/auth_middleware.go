package middleware

import (
	"strings"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the token in the Authorization header and sets the
// user info in context. The header carries the raw token; a "Bearer "
// prefix is accepted too.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authenticate(c, auth, headerToken(c))
	}
}

// RequireWebSocketAuth guards the /ws upgrade. Browsers cannot set headers
// on a websocket handshake, so ?token= is accepted when the header is empty.
func RequireWebSocketAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		token := headerToken(c)
		if token == "" {
			token = strings.TrimSpace(c.Query("token"))
		}
		return authenticate(c, auth, token)
	}
}

func headerToken(c *fiber.Ctx) string {
	token := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

func authenticate(c *fiber.Ctx, auth service.AuthService, token string) error {
	if token == "" {
		return apperr.Auth("missing authorization token")
	}

	user, err := auth.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}

	// Set user info in context for downstream handlers
	c.Locals(handler.LocalUserID, user.ID.String())
	c.Locals(handler.LocalUserName, user.Name)
	c.Locals(handler.LocalUserEmail, user.Email)

	return c.Next()
}
