package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sessionDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/session"
	"github.com/jmoiron/sqlx"
)

// SessionStore keeps sessions in the sessions table through sqlx.
type SessionStore struct {
	db *sqlx.DB
}

func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, sess *sessionDatamodel.Session) error {
	query := s.db.Rebind(`INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, sess.Token, sess.UserID, sess.ExpiresAt, sess.CreatedAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*sessionDatamodel.Session, error) {
	var sess sessionDatamodel.Session
	query := s.db.Rebind(`SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?`)
	if err := s.db.GetContext(ctx, &sess, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	query := s.db.Rebind(`DELETE FROM sessions WHERE token = ?`)
	if _, err := s.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := s.db.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`)
	res, err := s.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
