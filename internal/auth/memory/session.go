// Package memory is a process-local session store for single instance and
// development deployments. Sessions are lost on restart, and the store holds
// at most memory_session_capacity of them: once full, each login evicts the
// oldest session even if it has not expired, and that token stops resolving.
// Use the postgres backend where sessions must not be capped.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	sessionDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/session"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type SessionStore struct {
	cache    *expirable.LRU[string, sessionDatamodel.Session]
	capacity int
	logger   *slog.Logger
	now      func() time.Time

	// tokens being revoked, so their removal is not reported as an eviction
	revoking sync.Map
}

// NewSessionStore keeps at most capacity sessions; entries also drop out of
// the cache ttl after they were added.
func NewSessionStore(capacity int, ttl time.Duration, logger *slog.Logger) *SessionStore {
	s := &SessionStore{
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
	s.cache = expirable.NewLRU[string, sessionDatamodel.Session](capacity, s.onEvict, ttl)
	return s
}

// onEvict runs under the cache lock for every removal.
func (s *SessionStore) onEvict(token string, sess sessionDatamodel.Session) {
	if _, ok := s.revoking.Load(token); ok {
		return
	}
	if !s.now().Before(sess.ExpiresAt) {
		return
	}
	s.logger.Warn("memory session store full, evicted a live session",
		"user_id", sess.UserID,
		"expires_at", sess.ExpiresAt,
		"capacity", s.capacity)
}

func (s *SessionStore) Create(_ context.Context, sess *sessionDatamodel.Session) error {
	s.cache.Add(sess.Token, *sess)
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (*sessionDatamodel.Session, error) {
	sess, ok := s.cache.Peek(token)
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.revoking.Store(token, struct{}{})
	defer s.revoking.Delete(token)
	s.cache.Remove(token)
	return nil
}

func (s *SessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, token := range s.cache.Keys() {
		sess, ok := s.cache.Peek(token)
		if ok && !now.Before(sess.ExpiresAt) {
			s.cache.Remove(token)
			n++
		}
	}
	return n, nil
}

func (s *SessionStore) Len() int {
	return s.cache.Len()
}
