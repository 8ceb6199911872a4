package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bricksvaluation/web/internal/dto"
)

// RequestID tags each request with the id the bricks client generated for
// it, so client debug lines and the access log share one key. Requests
// without a UUID in the header get a fresh one.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := clientRequestID(c.Request())
			c.Set(ContextKeyRequestID, rid)
			c.Response().Header().Set(dto.HeaderRequestID, rid)
			return next(c)
		}
	}
}

func clientRequestID(r *http.Request) string {
	if id, err := uuid.Parse(r.Header.Get(dto.HeaderRequestID)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// RequestIDFromContext returns the id set by RequestID, or "".
func RequestIDFromContext(c echo.Context) string {
	rid, _ := c.Get(ContextKeyRequestID).(string)
	return rid
}
