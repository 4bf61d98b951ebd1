package database

import (
	"time"

	"github.com/toolgrid/toolgrid-backend/models"
	"gorm.io/gorm"
)

type AdminSessionRepo struct {
	db *gorm.DB
}

func NewAdminSessionRepo(db *gorm.DB) *AdminSessionRepo {
	return &AdminSessionRepo{db}
}

// Add inserts a new admin session into the database
func (r *AdminSessionRepo) Add(session *models.AdminSession) error {
	return r.db.Create(session).Error
}

// FindBySessionID returns the session with the given token, or nil if no
// such row exists. session_id is the single lookup key for sessions.
func (r *AdminSessionRepo) FindBySessionID(sessionID string) (*models.AdminSession, error) {
	var session models.AdminSession
	err := r.db.First(&session, "session_id = ?", sessionID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteBySessionID removes the session with the given token. Deleting an
// absent session is not an error.
func (r *AdminSessionRepo) DeleteBySessionID(sessionID string) error {
	return r.db.Delete(&models.AdminSession{}, "session_id = ?", sessionID).Error
}

// DeleteExpired removes sessions whose expiry has passed. Housekeeping, run
// opportunistically on login; validation never depends on it.
func (r *AdminSessionRepo) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Delete(&models.AdminSession{}, "expires_at < ?", now)
	return result.RowsAffected, result.Error
}
