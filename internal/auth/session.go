package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/attendance-report/internal"
	sessionDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/session"
)

const purgeTimeout = 10 * time.Second

// SessionStore persists sessions. Get returns nil, nil for unknown tokens.
type SessionStore interface {
	Create(ctx context.Context, s *sessionDatamodel.Session) error
	Get(ctx context.Context, token string) (*sessionDatamodel.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// IdentityLookup loads the identity behind a session. It returns nil, nil
// when the user no longer exists.
type IdentityLookup interface {
	GetIdentity(ctx context.Context, userID int64) (*User, error)
}

type SessionManager struct {
	store      SessionStore
	identities IdentityLookup
	ttl        time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewSessionManager(store SessionStore, identities IdentityLookup, ttl time.Duration, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		store:      store,
		identities: identities,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

func (m *SessionManager) CreateSession(ctx context.Context, userID int64) (*sessionDatamodel.Session, error) {
	token, err := GenerateRandomToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to create session", err)
	}

	now := m.now().UTC()
	s := &sessionDatamodel.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.store.Create(ctx, s); err != nil {
		m.logger.Error("failed to store session", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create session", err)
	}
	return s, nil
}

// ResolveSession returns the identity for a live token. Expiry is checked
// here so rows not yet purged are still rejected.
func (m *SessionManager) ResolveSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, internal.ErrInvalidSession
	}

	s, err := m.store.Get(ctx, token)
	if err != nil {
		m.logger.Error("failed to load session", "error", err)
		return nil, internal.NewInternalError("failed to resolve session", err)
	}
	if s == nil || !m.now().Before(s.ExpiresAt) {
		return nil, internal.ErrInvalidSession
	}

	u, err := m.identities.GetIdentity(ctx, s.UserID)
	if err != nil {
		m.logger.Error("failed to load session user", "error", err, "user_id", s.UserID)
		return nil, internal.NewInternalError("failed to resolve session", err)
	}
	if u == nil {
		return nil, internal.ErrInvalidSession
	}
	return u, nil
}

// RevokeSession deletes the token. Unknown tokens are not an error.
func (m *SessionManager) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		m.logger.Error("failed to revoke session", "error", err)
		return internal.NewInternalError("failed to revoke session", err)
	}
	return nil
}

func (m *SessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := m.store.DeleteExpired(ctx, m.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.logger.Info("expired sessions purged", "count", n)
	}
	return n, nil
}

// PurgeExpiredAsync runs PurgeExpired in the background on a context that
// outlives ctx. Failures are logged only.
func (m *SessionManager) PurgeExpiredAsync(ctx context.Context) {
	go func() {
		pctx, cancel := internal.Detached(ctx, purgeTimeout)
		defer cancel()

		if _, err := m.PurgeExpired(pctx); err != nil {
			m.logger.Warn("background session purge failed", "error", err)
		}
	}()
}
