package database

import (
	"github.com/google/uuid"
	"github.com/toolgrid/toolgrid-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindVerified returns published projects, optionally filtered by category.
// Pending projects never appear here.
func (r *ProjectRepo) FindVerified(category string) ([]*models.Project, error) {
	query := r.db.Preload("Links").Where("verified = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var projects []*models.Project
	err := query.Order("stars DESC, clicks DESC").Find(&projects).Error
	return projects, err
}

// FindPending returns projects awaiting moderation.
func (r *ProjectRepo) FindPending() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Preload("Links").Where("verified = ?", false).Order("created_at ASC").Find(&projects).Error
	return projects, err
}

// FindAll returns every project regardless of verification state.
func (r *ProjectRepo) FindAll() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Preload("Links").Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or nil if no such row exists.
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Links").First(&project, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindBySlug returns a project by its slug, or nil if no such row exists.
func (r *ProjectRepo) FindBySlug(slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Links").First(&project, "slug = ?", slug).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Update updates an existing project in the database
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// SetVerified marks a project as published and refreshes updated_at.
// The returned count is the number of rows matched (0 means no such project).
func (r *ProjectRepo) SetVerified(id uuid.UUID) (int64, error) {
	result := r.db.Model(&models.Project{}).Where("id = ?", id).Update("verified", true)
	return result.RowsAffected, result.Error
}

// IncrementClicks bumps the click counter by one. Single-statement so
// concurrent views never lose increments.
func (r *ProjectRepo) IncrementClicks(id uuid.UUID) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).
		Update("clicks", gorm.Expr("clicks + ?", 1)).Error
}

// SetImage records the stored screenshot reference and refreshes updated_at.
func (r *ProjectRepo) SetImage(id uuid.UUID, image string) (int64, error) {
	result := r.db.Model(&models.Project{}).Where("id = ?", id).Update("image", image)
	return result.RowsAffected, result.Error
}

// Delete removes a project from the database by id. Deleting an absent row
// is not an error; the returned count tells the caller whether a row went away.
func (r *ProjectRepo) Delete(id uuid.UUID) (int64, error) {
	result := r.db.Delete(&models.Project{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
