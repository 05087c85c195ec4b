package middleware // reusable HTTP middleware for the recipe API

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ovasquez/recipebook/internal/auth"
)

// JWTAuth returns an Echo middleware that validates a Bearer token and
// injects the resolved identity into the request context. The provided
// secret must match the one used when issuing tokens. Handlers behind this
// guard read the acting user via `c.Get("user_id")` (uint64) and, when the
// token carried one, `c.Get("email")`.
//
// A missing token and an invalid/expired token both produce 401, but with
// distinct messages, and the invalid case is logged with the parse error so
// the two show up separately in server logs.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "no authentication token provided"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := auth.ParseToken(secret, raw)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					c.Logger().Warnf("auth: expired token on %s %s", c.Request().Method, c.Path())
				} else {
					c.Logger().Warnf("auth: invalid token on %s %s: %v", c.Request().Method, c.Path(), err)
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication failed"})
			}

			c.Set("user_id", claims.UserID)
			if claims.Email != "" {
				c.Set("email", claims.Email)
			}
			return next(c)
		}
	}
}
