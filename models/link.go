package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Link types.
const (
	LinkTypeWebsite = "WEBSITE"
	LinkTypeGithub  = "GITHUB"
	LinkTypeDocs    = "DOCS"
	LinkTypePricing = "PRICING"
)

// Link is a secondary entity owned by a Project. ShortURL is filled in when
// the external link-shortening collaborator is available; otherwise it stays
// empty and URL is used directly.
type Link struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	Type      string    `json:"type" db:"type" gorm:"type:text;not null"`
	URL       string    `json:"url" db:"url" gorm:"type:text;not null"`
	ShortURL  string    `json:"short_url,omitempty" db:"short_url" gorm:"type:text"`
	Order     int       `json:"order" db:"order" gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
