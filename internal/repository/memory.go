package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bricksvaluation/web/internal/entity"
)

// MemoryUsersRepository keeps users in process memory. It backs the mock API
// when no database is configured.
type MemoryUsersRepository struct {
	mu     sync.RWMutex
	users  map[int64]entity.User
	nextID int64
	now    func() time.Time
}

// NewMemoryUsersRepository returns an empty repository.
func NewMemoryUsersRepository() *MemoryUsersRepository {
	return &MemoryUsersRepository{users: make(map[int64]entity.User), nextID: 1, now: time.Now}
}

// FindByUsername fetches a user by username if present.
func (r *MemoryUsersRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// FindByID retrieves a user by identifier.
func (r *MemoryUsersRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// Create stores a new user. Usernames are unique as given, emails case-insensitively.
func (r *MemoryUsersRepository) Create(ctx context.Context, username, email, passwordHash string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return nil, ErrUsernameDuplicate
		}
		if strings.EqualFold(u.Email, email) {
			return nil, ErrEmailDuplicate
		}
	}

	now := r.now().UTC()
	u := entity.User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	r.nextID++
	return &u, nil
}

var _ UsersRepository = (*MemoryUsersRepository)(nil)
