package dto

// LoginRequest captures credential input.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse wraps the authenticated user returned by POST /auth/login.
type LoginResponse struct {
	User User `json:"user"`
}

// Error codes carried by failure bodies.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeUsernameTaken   = "USERNAME_TAKEN"
	CodeEmailTaken      = "EMAIL_TAKEN"
)

// ValidationErrorBody is the 400 response body: field name to messages.
type ValidationErrorBody struct {
	Errors map[string][]string `json:"errors"`
	Code   string              `json:"code,omitempty"`
}

// ConflictErrorBody is the 409 response body for duplicate usernames or emails.
type ConflictErrorBody struct {
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
	Code   string `json:"code,omitempty"`
}

// DetailBody is the generic single-message error body.
type DetailBody struct {
	Detail string `json:"detail"`
}
