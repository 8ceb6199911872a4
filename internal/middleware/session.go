package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authpkg "github.com/bricksvaluation/web/internal/auth"
	"github.com/bricksvaluation/web/internal/dto"
)

// Session authenticates requests by the jwt_token cookie and stores the user
// id and username in the echo context.
func Session(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(authpkg.CookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, dto.DetailBody{Detail: "Authentication credentials were not provided."})
			}

			claims, err := manager.ParseToken(cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, dto.DetailBody{Detail: "Invalid or expired token."})
			}
			userID, _ := claims.UserID()

			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyUsername, claims.Username)

			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated user id set by Session.
func UserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(ContextKeyUserID).(int64)
	return id, ok
}
