package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Guest represents an invited wedding guest. Guests never have passwords;
// the only way in is a sign-in link emailed to an invited address.
type Guest struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string `gorm:"not null" json:"display_name"`

	// Hosts can delete any photo and manage the guest list
	IsHost bool `gorm:"default:false" json:"is_host"`

	// Activity tracking
	LastSignInAt *time.Time `json:"last_sign_in_at"`
	UploadCount  int        `gorm:"default:0" json:"upload_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID so the model works on both Postgres and the
// sqlite driver used in tests.
func (g *Guest) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}
