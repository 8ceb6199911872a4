package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bricksvaluation/web/internal/auth"
	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/entity"
	"github.com/bricksvaluation/web/internal/repository"
)

type mockUsersRepository struct {
	findByUsername func(ctx context.Context, username string) (*entity.User, error)
	findByID       func(ctx context.Context, id int64) (*entity.User, error)
	create         func(ctx context.Context, username, email, passwordHash string) (*entity.User, error)
}

func (m *mockUsersRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.findByUsername != nil {
		return m.findByUsername(ctx, username)
	}
	return nil, errors.New("FindByUsername not implemented")
}

func (m *mockUsersRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockUsersRepository) Create(ctx context.Context, username, email, passwordHash string) (*entity.User, error) {
	if m.create != nil {
		return m.create(ctx, username, email, passwordHash)
	}
	return nil, errors.New("Create not implemented")
}

func newTestService(repo repository.UsersRepository) *AuthService {
	return NewAuthService(repo, auth.NewJWTManager("test-secret", 0), WithHashCost(bcrypt.MinCost))
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("super-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unexpected bcrypt error: %v", err)
	}
	stored := func(ctx context.Context, username string) (*entity.User, error) {
		return &entity.User{ID: 12, Username: username, Email: "john@example.com", PasswordHash: string(hashed)}, nil
	}

	tests := map[string]struct {
		req         dto.LoginRequest
		repo        repository.UsersRepository
		expectError error
	}{
		"empty credentials": {
			repo: &mockUsersRepository{},
		},
		"user not found": {
			req: dto.LoginRequest{Username: "john", Password: "whatever"},
			repo: &mockUsersRepository{
				findByUsername: func(ctx context.Context, username string) (*entity.User, error) {
					return nil, repository.ErrUserNotFound
				},
			},
			expectError: ErrInvalidCredentials,
		},
		"password mismatch": {
			req:         dto.LoginRequest{Username: "john", Password: "wrong"},
			repo:        &mockUsersRepository{findByUsername: stored},
			expectError: ErrInvalidCredentials,
		},
		"success": {
			req:  dto.LoginRequest{Username: "john", Password: "super-secret"},
			repo: &mockUsersRepository{findByUsername: stored},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			user, token, err := newTestService(tt.repo).Login(context.Background(), tt.req)

			if name == "empty credentials" {
				var verr *ValidationError
				if !errors.As(err, &verr) || len(verr.Fields) != 2 {
					t.Fatalf("expected validation error for both fields, got %v", err)
				}
				return
			}
			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				if token != "" || user != nil {
					t.Fatalf("expected empty result on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token == "" || user.ID != 12 || user.Username != "john" {
				t.Fatalf("unexpected result: %+v %q", user, token)
			}
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	created := time.Date(2025, 10, 24, 12, 0, 0, 0, time.UTC)
	tests := map[string]struct {
		req         dto.RegisterRequest
		repo        repository.UsersRepository
		expectError error
		fields      []string
	}{
		"empty payload": {
			repo:   &mockUsersRepository{},
			fields: []string{"username", "email", "password"},
		},
		"short values": {
			req:    dto.RegisterRequest{Username: "ab", Email: "not-an-email", Password: "short"},
			repo:   &mockUsersRepository{},
			fields: []string{"username", "email", "password"},
		},
		"long username": {
			req:    dto.RegisterRequest{Username: strings.Repeat("a", 51), Email: "a@b.com", Password: "password123"},
			repo:   &mockUsersRepository{},
			fields: []string{"username"},
		},
		"duplicate username": {
			req: dto.RegisterRequest{Username: "john", Email: "john@example.com", Password: "password123"},
			repo: &mockUsersRepository{
				create: func(ctx context.Context, username, email, passwordHash string) (*entity.User, error) {
					return nil, repository.ErrUsernameDuplicate
				},
			},
			expectError: ErrUsernameTaken,
		},
		"duplicate email": {
			req: dto.RegisterRequest{Username: "john", Email: "john@example.com", Password: "password123"},
			repo: &mockUsersRepository{
				create: func(ctx context.Context, username, email, passwordHash string) (*entity.User, error) {
					return nil, repository.ErrEmailDuplicate
				},
			},
			expectError: ErrEmailTaken,
		},
		"success": {
			req: dto.RegisterRequest{Username: "  jane ", Email: "jane@example.com", Password: "password123"},
			repo: &mockUsersRepository{
				create: func(ctx context.Context, username, email, passwordHash string) (*entity.User, error) {
					if username != "jane" {
						return nil, errors.New("username not trimmed")
					}
					if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("password123")) != nil {
						return nil, errors.New("password not hashed")
					}
					return &entity.User{ID: 1, Username: username, Email: email, CreatedAt: created}, nil
				},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := newTestService(tt.repo).Register(context.Background(), tt.req)

			if len(tt.fields) > 0 {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				for _, f := range tt.fields {
					if len(verr.Fields[f]) == 0 {
						t.Fatalf("expected error for field %s, got %v", f, verr.Fields)
					}
				}
				if len(verr.Fields) != len(tt.fields) {
					t.Fatalf("unexpected fields: %v", verr.Fields)
				}
				return
			}
			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) || resp != nil {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.ID != 1 || resp.Username != "jane" || !resp.CreatedAt.Equal(created) {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestAuthService_Profile(t *testing.T) {
	created := time.Date(2025, 10, 24, 12, 34, 56, 0, time.UTC)
	svc := newTestService(&mockUsersRepository{
		findByID: func(ctx context.Context, id int64) (*entity.User, error) {
			if id != 4 {
				return nil, repository.ErrUserNotFound
			}
			return &entity.User{ID: 4, Username: "brick", Email: "b@example.com", CreatedAt: created}, nil
		},
	})

	profile, err := svc.Profile(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.CreatedAt == nil || !profile.CreatedAt.Equal(created) || profile.Email != "b@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := svc.Profile(context.Background(), 5); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
