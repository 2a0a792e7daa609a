package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignInToken is a single-use magic-link token. The raw token only ever
// appears in the emailed link; at rest we keep a SHA-256 digest for lookup
// and a bcrypt hash for comparison.
type SignInToken struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	GuestID string `gorm:"not null;index" json:"guest_id"`
	Guest   Guest  `gorm:"foreignKey:GuestID" json:"-"`

	// The email the link was requested for. Exchange requires the caller to
	// present the same email as a confirmation factor; the link alone is not
	// enough.
	Email string `gorm:"not null;index" json:"email"`

	Digest      string `gorm:"uniqueIndex;not null" json:"-"`
	CompareHash string `gorm:"not null" json:"-"`

	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *SignInToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
