package middleware

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/auth"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const claimsKey = "user"

const (
	msgMissingToken = "Authorization token missing or invalid."
	msgExpiredToken = "Token has expired"
	msgInvalidToken = "Invalid token"
)

// PublicPaths are served without a bearer token.
var PublicPaths = map[string]bool{
	"/":                 true,
	"/health":           true,
	"/docs":             true,
	"/openapi.json":     true,
	"/metrics":          true,
	"/users/signup":     true,
	"/users/signin":     true,
	"/users/login":      true,
	"/contents/analyze": true,
}

// AuthGate verifies the bearer token on every request outside PublicPaths and
// stores the decoded claims for the handlers. Pre-flight requests pass
// through. The user row is not re-read; the claims are the identity.
func AuthGate(codec *auth.TokenCodec) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Filter:      isPublic,
		KeyFunc:     codec.Keyfunc,
		Claims:      &auth.Claims{},
		ContextKey:  claimsKey,
		TokenLookup: "header:" + fiber.HeaderAuthorization,
		AuthScheme:  "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return reject(c, msgMissingToken)
			}
			if errors.Is(auth.Classify(err), auth.ErrTokenExpired) {
				return reject(c, msgExpiredToken)
			}
			return reject(c, msgInvalidToken)
		},
	})
}

func isPublic(c *fiber.Ctx) bool {
	if c.Method() == fiber.MethodOptions {
		return true
	}
	path := c.Path()
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return PublicPaths[path]
}

func reject(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.DetailResponse{Detail: detail})
}

// ClaimsFrom returns the claims AuthGate attached to the request.
func ClaimsFrom(c *fiber.Ctx) (*auth.Claims, bool) {
	token, ok := c.Locals(claimsKey).(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(*auth.Claims)
	return claims, ok
}

// UserID is the authenticated caller, or 0 on a public route.
func UserID(c *fiber.Ctx) uint {
	if claims, ok := ClaimsFrom(c); ok {
		return claims.UserID
	}
	return 0
}
