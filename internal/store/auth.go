// Package store holds the client-side state containers: the auth request
// lifecycle, the brick set catalog and the notification queue. Each store instance is the single
// writer of its state; consumers read snapshots or subscribe to changes.
package store

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bricksvaluation/web/internal/config"
	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/httpclient"
	"github.com/bricksvaluation/web/internal/logging"
)

// ErrRequestInFlight is returned when an operation is started while another
// one on the same store is still pending.
var ErrRequestInFlight = errors.New("request already in flight")

// Login failure messages shown to the user.
const (
	MsgFillAllFields      = "Wypełnij wszystkie pola"
	MsgInvalidCredentials = "Nieprawidłowe dane logowania"
	MsgUnexpectedError    = "Wystąpił nieoczekiwany błąd. Spróbuj ponownie później"
	MsgLoginFailed        = "Błąd logowania. Spróbuj ponownie"
)

// AuthState is a snapshot of the auth store. An empty Error means no error.
type AuthState struct {
	User      *dto.User
	IsLoading bool
	Error     string
}

// IsAuthenticated reports whether a user is signed in.
func (s AuthState) IsAuthenticated() bool {
	return s.User != nil
}

// AuthStore owns the authentication state and the auth API calls.
type AuthStore struct {
	cfg    config.Configuration
	client httpclient.Requester
	logger *zap.Logger

	state *observable[AuthState]
}

// AuthOption customises an AuthStore.
type AuthOption func(*AuthStore)

// WithAuthLogger sets the store logger.
func WithAuthLogger(logger *zap.Logger) AuthOption {
	return func(s *AuthStore) {
		s.logger = logging.OrNop(logger)
	}
}

// NewAuthStore creates an auth store issuing requests through client.
func NewAuthStore(cfg config.Configuration, client httpclient.Requester, opts ...AuthOption) *AuthStore {
	s := &AuthStore{
		cfg:    cfg,
		client: client,
		logger: zap.NewNop(),
		state:  newObservable(AuthState{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *AuthStore) State() AuthState {
	return s.state.snapshot()
}

// IsAuthenticated reports whether a user is signed in.
func (s *AuthStore) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

// Subscribe registers fn to be called after every state transition. The
// returned function removes the subscription.
func (s *AuthStore) Subscribe(fn func(AuthState)) func() {
	return s.state.subscribe(fn)
}

// Register creates a new account. Non-2xx responses are returned as
// *httpclient.ResponseError, transport failures as the original error.
func (s *AuthStore) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := s.begin(true); err != nil {
		return nil, err
	}
	var failure string
	defer func() { s.finish(func(st *AuthState) { st.Error = failure }) }()

	resp, err := httpclient.Post[dto.RegisterRequest, dto.RegisterResponse](ctx, s.client, s.cfg.AuthPath("register"), req)
	if err != nil {
		failure = err.Error()
		s.logger.Debug("register failed", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}
	return &resp, nil
}

// Login authenticates with username and password. The server sets the
// session cookie; the returned user is kept in the store.
func (s *AuthStore) Login(ctx context.Context, req dto.LoginRequest) (*dto.User, error) {
	if err := s.begin(true); err != nil {
		return nil, err
	}
	var (
		failure string
		user    *dto.User
	)
	defer func() {
		s.finish(func(st *AuthState) {
			st.Error = failure
			if user != nil {
				st.User = user
			}
		})
	}()

	resp, err := httpclient.Post[dto.LoginRequest, dto.LoginResponse](ctx, s.client, s.cfg.AuthPath("login"), req)
	if err != nil {
		failure = loginMessage(err)
		s.logger.Debug("login failed", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}
	user = &resp.User
	return user, nil
}

// Logout invalidates the session on the server. Local state is cleared even
// when the request fails; an expired session (401) is not an error.
func (s *AuthStore) Logout(ctx context.Context) error {
	if err := s.begin(false); err != nil {
		return err
	}
	defer s.finish(func(st *AuthState) {
		st.User = nil
		st.Error = ""
	})

	_, err := s.client.Send(ctx, http.MethodPost, s.cfg.AuthPath("logout"), struct{}{})
	if err != nil && statusOf(err) != http.StatusUnauthorized {
		s.logger.Error("logout error", zap.Error(err))
	}
	return nil
}

// FetchProfile restores the signed-in user from the session cookie. It
// returns nil when there is no valid session; a 401 clears the stored user.
func (s *AuthStore) FetchProfile(ctx context.Context) (*dto.User, error) {
	if err := s.begin(false); err != nil {
		return nil, err
	}
	var (
		user         *dto.User
		unauthorized bool
	)
	defer func() {
		s.finish(func(st *AuthState) {
			if user != nil {
				st.User = user
				st.Error = ""
			}
			if unauthorized {
				st.User = nil
			}
		})
	}()

	profile, err := httpclient.Get[dto.User](ctx, s.client, s.cfg.AuthPath("me"))
	if err != nil {
		unauthorized = statusOf(err) == http.StatusUnauthorized
		s.logger.Debug("fetch profile failed", zap.Error(err))
		return nil, nil
	}
	user = &profile
	return user, nil
}

// begin moves the store into the pending state. resetError clears the
// previous error message.
func (s *AuthStore) begin(resetError bool) error {
	return s.state.update(func(st *AuthState) error {
		if st.IsLoading {
			return ErrRequestInFlight
		}
		st.IsLoading = true
		if resetError {
			st.Error = ""
		}
		return nil
	})
}

// finish applies mutate and leaves the pending state.
func (s *AuthStore) finish(mutate func(*AuthState)) {
	_ = s.state.update(func(st *AuthState) error {
		mutate(st)
		st.IsLoading = false
		return nil
	})
}

func statusOf(err error) int {
	var respErr *httpclient.ResponseError
	if errors.As(err, &respErr) {
		return respErr.Status()
	}
	return 0
}

func loginMessage(err error) string {
	switch status := statusOf(err); {
	case status == http.StatusBadRequest:
		return MsgFillAllFields
	case status == http.StatusUnauthorized:
		return MsgInvalidCredentials
	case status >= http.StatusInternalServerError:
		return MsgUnexpectedError
	default:
		return MsgLoginFailed
	}
}
