package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions recorded in admin_logs.
const (
	ActionLogin      = "login"
	ActionLogout     = "logout"
	ActionApprove    = "approve"
	ActionReject     = "reject"
	ActionDelete     = "delete"
	ActionScreenshot = "screenshot"
)

// AdminLog is an append-only audit record. Rows are never mutated or deleted
// by this service.
type AdminLog struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Action    string    `json:"action" db:"action" gorm:"type:text;not null"`
	Username  string    `json:"username" db:"username" gorm:"type:text;not null"`
	Success   bool      `json:"success" db:"success" gorm:"not null"`
	IP        string    `json:"ip" db:"ip" gorm:"type:text"`
	Detail    string    `json:"detail,omitempty" db:"detail" gorm:"type:text"`
	Timestamp time.Time `json:"timestamp" db:"timestamp" gorm:"autoCreateTime"`
}

func (l *AdminLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
