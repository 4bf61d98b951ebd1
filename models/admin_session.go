package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminSession is a time-bounded bearer credential granting moderation
// capability. A session is valid iff a row with a matching SessionID exists
// and the current time is before ExpiresAt. There is no renewal: a session
// lives until ExpiresAt or explicit deletion on logout.
type AdminSession struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	SessionID string    `json:"session_id" db:"session_id" gorm:"type:text;not null;uniqueIndex"`
	Username  string    `json:"username" db:"username" gorm:"type:text;not null"`
	IP        string    `json:"ip" db:"ip" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at" gorm:"not null;index"`
}

func (s *AdminSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the session has passed its expiry.
func (s *AdminSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
