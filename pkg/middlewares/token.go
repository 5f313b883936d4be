package middlewares

import (
	"context"
	"strings"

	t_token "chatterbox_service/pkg/token"

	"github.com/gofiber/fiber/v2"
)

const (
	//QueryToken token in query name, the websocket handshake auth slot
	QueryToken = "auth"

	//CookieToken token in cookie name
	CookieToken = "auth_token"

	//TokenMemberID get member from token, set c.locals name
	TokenMemberID = "MemberID"
	//TokenRole get role from token, set c.locals name
	TokenRole = "role"
)

// IdentityVerifier resolve a bearer credential to verified claims.
// One implementation is shared by the REST middleware and the websocket
// gatekeeper so credential handling is not duplicated.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*t_token.Claims, error)
}

// ExtractToken pull the bearer credential from the Authorization header
// first, then the handshake query slot, then the cookie
func ExtractToken(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if t := c.Query(QueryToken); t != "" {
		return t
	}
	return c.Cookies(CookieToken)
}

// AuthRequired validates the credential and binds the identity to the request
func AuthRequired(verifier IdentityVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := ExtractToken(c)

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		claims, err := verifier.Verify(c.Context(), tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(TokenMemberID, claims.MemberID)
		c.Locals(TokenRole, claims.Role)

		return c.Next()
	}
}
