package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User records a public submitter's contact email so moderators can reach
// out about a submission. No authentication semantics are attached to it.
type User struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
