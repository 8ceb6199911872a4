package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bricksvaluation/web/internal/auth"
	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/middleware"
	"github.com/bricksvaluation/web/internal/repository"
	"github.com/bricksvaluation/web/internal/service"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService  *service.AuthService
	jwt          *auth.JWTManager
	cookieSecure bool
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, jwt *auth.JWTManager, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, jwt: jwt, cookieSecure: cookieSecure}
}

// Register handles POST /auth/register requests.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return ValidationFailed(c, map[string][]string{"non_field_errors": {"Invalid data."}})
	}

	resp, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return ValidationFailed(c, verr.Fields)
		case errors.Is(err, service.ErrUsernameTaken):
			return Conflict(c, "username", dto.CodeUsernameTaken, "Username already exists.")
		case errors.Is(err, service.ErrEmailTaken):
			return Conflict(c, "email", dto.CodeEmailTaken, "Email already registered.")
		default:
			return Error(c, http.StatusInternalServerError, "Unable to register user.")
		}
	}

	return Success(c, http.StatusCreated, resp)
}

// Login handles POST /auth/login requests and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return ValidationFailed(c, map[string][]string{"non_field_errors": {"Invalid data."}})
	}

	user, token, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return ValidationFailed(c, verr.Fields)
		case errors.Is(err, service.ErrInvalidCredentials):
			return Error(c, http.StatusUnauthorized, "Invalid credentials.")
		default:
			return Error(c, http.StatusInternalServerError, "Unable to login.")
		}
	}

	c.SetCookie(h.jwt.SessionCookie(token, h.cookieSecure))
	return Success(c, http.StatusOK, dto.LoginResponse{User: *user})
}

// Logout handles POST /auth/logout by expiring the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(auth.ExpiredCookie(h.cookieSecure))
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /auth/me for the user resolved by the session middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Error(c, http.StatusNotFound, "User not found.")
		}
		return Error(c, http.StatusInternalServerError, "Unable to load profile.")
	}

	return Success(c, http.StatusOK, user)
}
