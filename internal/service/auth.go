package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/bricksvaluation/web/internal/auth"
	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/entity"
	"github.com/bricksvaluation/web/internal/repository"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 50
	passwordMinLength = 8
	passwordMaxLength = 128
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AuthService coordinates registration, credential validation and token issuance.
type AuthService struct {
	users repository.UsersRepository
	jwt   *auth.JWTManager
	cost  int
}

// Option customises an AuthService.
type Option func(*AuthService)

// WithHashCost overrides the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(s *AuthService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, jwtManager *auth.JWTManager, opts ...Option) *AuthService {
	s := &AuthService{users: users, jwt: jwtManager, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the payload and creates the account.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Username, req.Email, string(hashed))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameDuplicate):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailDuplicate):
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &dto.RegisterResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// Login validates credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.User, string, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(req.Username) == "" {
		verr.add("username", "This field may not be blank.")
	}
	if req.Password == "" {
		verr.add("password", "This field may not be blank.")
	}
	if err := verr.orNil(); err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	ref := &dto.User{ID: user.ID, Username: user.Username, Email: user.Email}
	return ref, token, nil
}

// Profile returns the full profile of the user with id.
func (s *AuthService) Profile(ctx context.Context, id int64) (*dto.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

func toProfile(u *entity.User) *dto.User {
	created := u.CreatedAt
	return &dto.User{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: &created}
}

func validateRegister(req dto.RegisterRequest) error {
	verr := &ValidationError{}

	switch n := utf8.RuneCountInString(req.Username); {
	case n == 0:
		verr.add("username", "This field may not be blank.")
	case n < usernameMinLength:
		verr.add("username", fmt.Sprintf("Ensure this field has at least %d characters.", usernameMinLength))
	case n > usernameMaxLength:
		verr.add("username", fmt.Sprintf("Ensure this field has no more than %d characters.", usernameMaxLength))
	}

	if req.Email == "" {
		verr.add("email", "This field may not be blank.")
	} else if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		verr.add("email", "Enter a valid email address.")
	}

	switch n := utf8.RuneCountInString(req.Password); {
	case n == 0:
		verr.add("password", "This field may not be blank.")
	case n < passwordMinLength:
		verr.add("password", fmt.Sprintf("Ensure this field has at least %d characters.", passwordMinLength))
	case n > passwordMaxLength:
		verr.add("password", fmt.Sprintf("Ensure this field has no more than %d characters.", passwordMaxLength))
	}

	return verr.orNil()
}
