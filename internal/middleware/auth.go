package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Role names carried in the JWT "role" claim. Admin corresponds to the
// manage-evaluations capability; jury members may only score their own
// assignments.
const (
	RoleAdmin = "admin"
	RoleJury  = "jury"
)

// Locals keys set by JWTAuth.
const (
	LocalsUserID = "user_id"
	LocalsRole   = "role"
)

// JWTAuth verifies the bearer token and stores the caller's identity on the
// request context. Authentication itself is the platform's concern; this
// middleware only consumes its tokens.
func JWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return unauthorized(c, err.Error())
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, "Invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "Invalid token claims")
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return unauthorized(c, "Token subject is not a valid user id")
		}

		role, _ := claims["role"].(string)

		c.Locals(LocalsUserID, userID)
		c.Locals(LocalsRole, role)
		return c.Next()
	}
}

// RequireRole gates a route group on the caller's role claim.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalsRole).(string)
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"code":    fiber.StatusForbidden,
				"status":  "error",
				"message": "You do not have permission to perform this action",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated caller's id from the request context.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalsUserID).(uuid.UUID)
	return id, ok
}

// Role returns the authenticated caller's role from the request context.
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalsRole).(string)
	return role
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"code":    fiber.StatusUnauthorized,
		"status":  "error",
		"message": message,
	})
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Missing Authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be a bearer token")
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}
