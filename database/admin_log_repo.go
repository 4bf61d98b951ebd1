package database

import (
	"github.com/toolgrid/toolgrid-backend/models"
	"gorm.io/gorm"
)

type AdminLogRepo struct {
	db *gorm.DB
}

func NewAdminLogRepo(db *gorm.DB) *AdminLogRepo {
	return &AdminLogRepo{db}
}

// Add appends an audit record. The table is write-only for this service;
// rows are never mutated or deleted here.
func (r *AdminLogRepo) Add(entry *models.AdminLog) error {
	return r.db.Create(entry).Error
}

// FindRecent returns the latest audit records, newest first.
func (r *AdminLogRepo) FindRecent(limit int) ([]*models.AdminLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []*models.AdminLog
	err := r.db.Order("timestamp DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
