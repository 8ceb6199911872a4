// Package form validates user input before it is sent to the API.
package form

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bricksvaluation/web/internal/dto"
)

// Field names of the register form.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// Message keys for register validation errors.
const (
	ErrUsernameRequired        = "register.errors.usernameRequired"
	ErrUsernameLength          = "register.errors.usernameLength"
	ErrUsernameFormat          = "register.errors.usernameFormat"
	ErrEmailRequired           = "register.errors.emailRequired"
	ErrEmailFormat             = "register.errors.emailFormat"
	ErrPasswordRequired        = "register.errors.passwordRequired"
	ErrPasswordLength          = "register.errors.passwordLength"
	ErrConfirmPasswordRequired = "register.errors.confirmPasswordRequired"
	ErrPasswordsNotMatch       = "register.errors.passwordsNotMatch"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 50
	passwordMinLength = 8
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// RegisterForm holds the registration input and its field errors.
type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string

	fieldErrors
}

// ValidateField validates a single field, trimming username and email in place.
// Unknown fields are always valid.
func (f *RegisterForm) ValidateField(field string) bool {
	switch field {
	case FieldUsername:
		f.Username = strings.TrimSpace(f.Username)
		return f.check(field, usernameError(f.Username))
	case FieldEmail:
		f.Email = strings.TrimSpace(f.Email)
		return f.check(field, emailError(f.Email))
	case FieldPassword:
		return f.check(field, passwordError(f.Password))
	case FieldConfirmPassword:
		return f.check(field, confirmError(f.Password, f.ConfirmPassword))
	default:
		return true
	}
}

// Validate checks every field and reports whether the form is valid.
func (f *RegisterForm) Validate() bool {
	valid := true
	for _, field := range []string{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword} {
		if !f.ValidateField(field) {
			valid = false
		}
	}
	return valid
}

// Request builds the API payload. The confirmation is never sent.
func (f *RegisterForm) Request() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
	}
}

func usernameError(username string) string {
	n := utf8.RuneCountInString(username)
	switch {
	case username == "":
		return ErrUsernameRequired
	case n < usernameMinLength || n > usernameMaxLength:
		return ErrUsernameLength
	case !usernamePattern.MatchString(username):
		return ErrUsernameFormat
	}
	return ""
}

func emailError(email string) string {
	switch {
	case email == "":
		return ErrEmailRequired
	case !emailPattern.MatchString(email):
		return ErrEmailFormat
	}
	return ""
}

func passwordError(password string) string {
	switch {
	case password == "":
		return ErrPasswordRequired
	case utf8.RuneCountInString(password) < passwordMinLength:
		return ErrPasswordLength
	}
	return ""
}

func confirmError(password, confirm string) string {
	switch {
	case confirm == "":
		return ErrConfirmPasswordRequired
	case confirm != password:
		return ErrPasswordsNotMatch
	}
	return ""
}
