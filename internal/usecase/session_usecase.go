package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yourusername/warehouse-client/internal/domain/apierr"
	"github.com/yourusername/warehouse-client/internal/domain/entity"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

const opLogin = "login"

// SessionStore holds the credential and the theme preference. Both survive
// restarts through the state repository.
type SessionStore struct {
	auth   repository.Authenticator
	state  repository.StateRepository
	lc     *lifecycle[entity.Session]
	logger *slog.Logger

	// persistMu orders writes of the session keys between login and logout
	persistMu sync.Mutex

	themeMu sync.RWMutex
	theme   entity.Theme
}

// NewSessionStore restores any persisted session and theme.
func NewSessionStore(ctx context.Context, auth repository.Authenticator, state repository.StateRepository, logger *slog.Logger) (*SessionStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	token, err := lookup(ctx, state, repository.KeyToken)
	if err != nil {
		return nil, err
	}
	label, err := lookup(ctx, state, repository.KeyUsername)
	if err != nil {
		return nil, err
	}
	rawTheme, err := lookup(ctx, state, repository.KeyTheme)
	if err != nil {
		return nil, err
	}

	theme := entity.ThemeLight
	if rawTheme != "" {
		if t, err := entity.ParseTheme(rawTheme); err == nil {
			theme = t
		} else {
			logger.Warn("session_theme_ignored", "value", rawTheme)
		}
	}

	var sess entity.Session
	if token != "" {
		sess = entity.Session{Token: token, PrincipalLabel: label}
	}

	return &SessionStore{
		auth:   auth,
		state:  state,
		lc:     newLifecycle(sess, nil),
		logger: logger.With("store", "session"),
		theme:  theme,
	}, nil
}

func lookup(ctx context.Context, state repository.StateRepository, key string) (string, error) {
	v, err := state.Get(ctx, key)
	if errors.Is(err, repository.ErrStateNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: load %s: %w", key, err)
	}
	return v, nil
}

// Snapshot returns the current state.
func (s *SessionStore) Snapshot() entity.RequestState[entity.Session] {
	return s.lc.snapshot()
}

// Subscribe delivers the current snapshot and then one per transition.
func (s *SessionStore) Subscribe() *Subscription[entity.Session] {
	return s.lc.subscribe()
}

// ClearError acknowledges a shown login failure.
func (s *SessionStore) ClearError() {
	s.lc.clearError()
}

// Close tears the store down.
func (s *SessionStore) Close() {
	s.lc.close()
}

// Token returns the held credential, or "" when logged out.
func (s *SessionStore) Token() string {
	return s.lc.snapshot().Data.Token
}

// Authenticated reports whether a credential is held.
func (s *SessionStore) Authenticated() bool {
	return s.lc.snapshot().Data.Authenticated()
}

// Login exchanges creds for a session. On failure no credential is stored
// and the previous session, if any, is kept.
func (s *SessionStore) Login(ctx context.Context, creds entity.Credentials) (entity.Session, error) {
	if invalid := creds.Validate(); invalid != nil {
		s.logger.Warn("session_login_failed", "error", invalid.Message)
		return entity.Session{}, rejectLocal(s.lc, opLogin, invalid)
	}

	sess, err := run(ctx, s.lc, opLogin, apierr.LoginFallback,
		func(ctx context.Context) (entity.Session, error) {
			res, err := s.auth.Login(ctx, creds)
			if err != nil {
				return entity.Session{}, err
			}
			return sessionFrom(res, creds), nil
		},
		func(_ entity.Session, sess entity.Session) entity.Session { return sess },
	)
	if err != nil {
		if _, ok := apierr.As(err); ok {
			s.logger.Warn("session_login_failed", "error", apierr.Message(err))
		}
		return entity.Session{}, err
	}

	s.persist(ctx, sess)
	s.logger.Info("session_login_succeeded", "principal", sess.PrincipalLabel)
	return sess, nil
}

// sessionFrom mints an opaque token when the backend issues none.
func sessionFrom(res repository.LoginResult, creds entity.Credentials) entity.Session {
	token := res.Token
	if token == "" {
		token = uuid.NewString()
	}
	label := strings.TrimSpace(creds.Email)
	if res.Admin != nil {
		switch {
		case res.Admin.Name != "":
			label = res.Admin.Name
		case res.Admin.Email != "":
			label = res.Admin.Email
		}
	}
	return entity.Session{Token: token, PrincipalLabel: label}
}

func (s *SessionStore) persist(ctx context.Context, sess entity.Session) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	// a logout that landed after the login settled wins
	if s.Token() != sess.Token {
		return
	}
	if err := s.state.Set(ctx, repository.KeyToken, sess.Token); err != nil {
		s.logger.Error("session_persist_failed", "key", repository.KeyToken, "error", err)
		return
	}
	if err := s.state.Set(ctx, repository.KeyUsername, sess.PrincipalLabel); err != nil {
		s.logger.Error("session_persist_failed", "key", repository.KeyUsername, "error", err)
	}
}

// Logout drops the credential. It always succeeds locally; a login still in
// flight is discarded when it returns.
func (s *SessionStore) Logout(ctx context.Context) {
	s.lc.invalidate(opLogin)
	if !s.lc.replace(entity.StatusSucceeded, func(entity.Session) entity.Session { return entity.Session{} }) {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if err := s.state.Delete(ctx, repository.KeyToken, repository.KeyUsername); err != nil {
		s.logger.Error("session_logout_persist_failed", "error", err)
	}
	s.logger.Info("session_logout")
}

// Theme returns the display preference.
func (s *SessionStore) Theme() entity.Theme {
	s.themeMu.RLock()
	defer s.themeMu.RUnlock()
	return s.theme
}

// SetTheme stores the display preference. The in-memory value changes even
// when it cannot be persisted.
func (s *SessionStore) SetTheme(ctx context.Context, theme entity.Theme) error {
	if _, err := entity.ParseTheme(string(theme)); err != nil {
		return err
	}
	s.themeMu.Lock()
	s.theme = theme
	s.themeMu.Unlock()

	if err := s.state.Set(ctx, repository.KeyTheme, string(theme)); err != nil {
		return fmt.Errorf("session: save theme: %w", err)
	}
	return nil
}
