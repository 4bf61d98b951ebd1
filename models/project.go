package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project categories. Unknown categories submitted by the public fall back
// to CategoryOther.
const (
	CategoryChatbot      = "chatbot"
	CategoryWriting      = "writing"
	CategoryCoding       = "coding"
	CategoryImage        = "image"
	CategoryAudio        = "audio"
	CategoryVideo        = "video"
	CategoryProductivity = "productivity"
	CategoryResearch     = "research"
	CategoryOther        = "other"
)

// Categories is the fixed set of valid project categories.
var Categories = []string{
	CategoryChatbot,
	CategoryWriting,
	CategoryCoding,
	CategoryImage,
	CategoryAudio,
	CategoryVideo,
	CategoryProductivity,
	CategoryResearch,
	CategoryOther,
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// Project represents one directory entry for an AI tool/site.
// Verified=false entries are pending moderation and never appear on public
// listing surfaces.
type Project struct {
	ID              uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name            string         `json:"name" db:"name" gorm:"type:text;not null"`
	Slug            string         `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Description     string         `json:"description" db:"description" gorm:"type:text;not null"`
	URL             string         `json:"url" db:"url" gorm:"type:text;not null"`
	Category        string         `json:"category" db:"category" gorm:"type:text;not null;index"`
	Logo            string         `json:"logo,omitempty" db:"logo" gorm:"type:text"`
	Image           string         `json:"image,omitempty" db:"image" gorm:"type:text"`
	Keywords        string         `json:"keywords,omitempty" db:"keywords" gorm:"type:text"`
	MetaDescription string         `json:"meta_description,omitempty" db:"meta_description" gorm:"type:text"`
	Verified        bool           `json:"verified" db:"verified" gorm:"not null;default:false;index"`
	Stars           int            `json:"stars" db:"stars" gorm:"not null;default:0"`
	Clicks          int            `json:"clicks" db:"clicks" gorm:"not null;default:0"`
	Gradient        string         `json:"gradient,omitempty" db:"gradient" gorm:"type:text"`
	Features        datatypes.JSON `json:"features,omitempty" db:"features" gorm:"type:jsonb"`
	Instructions    string         `json:"instructions,omitempty" db:"instructions" gorm:"type:text"`
	Stats           datatypes.JSON `json:"stats,omitempty" db:"stats" gorm:"type:jsonb"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
	Links           []Link         `json:"links,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns an ID so the model also works on stores without a
// server-side uuid default.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
