package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

const operatorLocalKey = "operator"

// Middleware extracts and verifies the bearer token, storing the operator
// principal in the request locals.
func Middleware(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return apperrors.NewUnauthorized("missing authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperrors.NewUnauthorized("malformed authorization header")
		}

		operator, err := tokens.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return apperrors.NewUnauthorized("invalid or expired token")
		}

		c.Locals(operatorLocalKey, operator)
		return c.Next()
	}
}

// OperatorFromContext returns the authenticated operator for a request.
func OperatorFromContext(c *fiber.Ctx) (*Operator, bool) {
	operator, ok := c.Locals(operatorLocalKey).(*Operator)
	return operator, ok
}
