package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhotoUpload records which guest uploaded which object. The object store
// itself is the source of truth for the photo bytes and the feed order;
// this table only answers "who may delete it".
type PhotoUpload struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	GuestID string `gorm:"type:uuid;index;not null" json:"guest_id"`
	Guest   Guest  `gorm:"foreignKey:GuestID" json:"-"`

	// Object name in the gallery bucket, unique by construction
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Size int64  `json:"size"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID primary key
func (p *PhotoUpload) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
