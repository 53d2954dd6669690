package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/tokens"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
)

// RequireAuth verifies the bearer token and stores the caller's identity
// on the echo context. Every failure mode answers the same 401.
func RequireAuth(issuer *tokens.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return errorJSON(c, http.StatusUnauthorized, "missing Authorization header")
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return errorJSON(c, http.StatusUnauthorized, "invalid Authorization header")
			}

			id, err := issuer.Verify(raw)
			if err != nil {
				return errorJSON(c, http.StatusUnauthorized, "invalid token")
			}

			c.Set(ctxUserID, id.ID)
			c.Set(ctxUsername, id.Username)
			return next(c)
		}
	}
}

func userID(c echo.Context) (string, bool) {
	v, ok := c.Get(ctxUserID).(string)
	return v, ok && v != ""
}
