package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bricksvaluation/web/internal/dto"
)

// Success writes data as the JSON response body.
func Success(c echo.Context, status int, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, data)
}

// Error sends a {"detail": ...} error body.
func Error(c echo.Context, status int, detail string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, dto.DetailBody{Detail: detail})
}

// ValidationFailed sends a 400 response listing messages per field.
func ValidationFailed(c echo.Context, fields map[string][]string) error {
	return c.JSON(http.StatusBadRequest, dto.ValidationErrorBody{
		Errors: fields,
		Code:   dto.CodeValidationError,
	})
}

// Conflict sends a 409 response naming the conflicting field.
func Conflict(c echo.Context, field, code, detail string) error {
	return c.JSON(http.StatusConflict, dto.ConflictErrorBody{Detail: detail, Field: field, Code: code})
}
