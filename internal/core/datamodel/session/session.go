package session

import "time"

// Session is scanned by sqlx in the session store; the gorm tags only serve
// AutoMigrate in tests.
type Session struct {
	Token     string    `db:"token" gorm:"column:token;primaryKey;size:64"`
	UserID    int64     `db:"user_id" gorm:"column:user_id;not null;index"`
	ExpiresAt time.Time `db:"expires_at" gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;not null"`
}

func (Session) TableName() string {
	return "sessions"
}
