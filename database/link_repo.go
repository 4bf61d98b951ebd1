package database

import (
	"github.com/google/uuid"
	"github.com/toolgrid/toolgrid-backend/models"
	"gorm.io/gorm"
)

type LinkRepo struct {
	db *gorm.DB
}

func NewLinkRepo(db *gorm.DB) *LinkRepo {
	return &LinkRepo{db}
}

// Add inserts a new link into the database
func (r *LinkRepo) Add(link *models.Link) error {
	return r.db.Create(link).Error
}

// FindByProject returns all links owned by a project, in display order.
func (r *LinkRepo) FindByProject(projectID uuid.UUID) ([]*models.Link, error) {
	var links []*models.Link
	err := r.db.Where("project_id = ?", projectID).Order("sort_order ASC").Find(&links).Error
	return links, err
}

// DeleteByProject removes every link owned by a project.
func (r *LinkRepo) DeleteByProject(projectID uuid.UUID) error {
	return r.db.Delete(&models.Link{}, "project_id = ?", projectID).Error
}
