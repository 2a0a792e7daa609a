package seed

import (
	"fmt"
	"time"

	"github.com/bloomday/gala/internal/logger"
	"github.com/bloomday/gala/internal/models"
	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder populates the guest list. Guests have no passwords, so seeding
// is just invited addresses; sign-in links do the rest.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev fills the guest list with fake invitees plus a pair of hosts
// with predictable addresses for local sign-in.
func (s *Seeder) SeedDev(guestCount int) error {
	hosts := []models.Guest{
		{Email: "bride@example.com", DisplayName: "The Bride", IsHost: true},
		{Email: "groom@example.com", DisplayName: "The Groom", IsHost: true},
	}
	for _, host := range hosts {
		if err := s.createIfMissing(host); err != nil {
			return fmt.Errorf("failed to seed host: %w", err)
		}
	}

	created := 0
	for created < guestCount {
		email := gofakeit.Email()
		guest := models.Guest{
			Email:       email,
			DisplayName: gofakeit.Name(),
		}

		var existing models.Guest
		if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
			continue
		}
		if err := s.db.Create(&guest).Error; err != nil {
			return fmt.Errorf("failed to create guest: %w", err)
		}
		created++
	}

	logger.Log.Info("Seeded guest list",
		zap.Int("guests", created),
		zap.Int("hosts", len(hosts)))
	return nil
}

// SeedTest creates a small fixed guest list for integration tests.
func (s *Seeder) SeedTest() error {
	guests := []models.Guest{
		{Email: "host@example.com", DisplayName: "Harriet Host", IsHost: true},
		{Email: "alice@example.com", DisplayName: "Alice Smith"},
		{Email: "bob@example.com", DisplayName: "Bob Johnson"},
	}
	for _, guest := range guests {
		if err := s.createIfMissing(guest); err != nil {
			return err
		}
	}
	return nil
}

// Invite adds a single guest by email, host or not.
func (s *Seeder) Invite(email, displayName string, isHost bool) error {
	return s.createIfMissing(models.Guest{
		Email:       email,
		DisplayName: displayName,
		IsHost:      isHost,
	})
}

// Clean removes all seed data (use with caution!)
func (s *Seeder) Clean() error {
	if err := s.db.Exec("DELETE FROM photo_uploads").Error; err != nil {
		return fmt.Errorf("failed to clean photo_uploads: %w", err)
	}
	if err := s.db.Exec("DELETE FROM sign_in_tokens").Error; err != nil {
		return fmt.Errorf("failed to clean sign_in_tokens: %w", err)
	}
	if err := s.db.Exec("DELETE FROM guests").Error; err != nil {
		return fmt.Errorf("failed to clean guests: %w", err)
	}
	return nil
}

func (s *Seeder) createIfMissing(guest models.Guest) error {
	var existing models.Guest
	err := s.db.Where("email = ?", guest.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	if err := s.db.Create(&guest).Error; err != nil {
		return fmt.Errorf("failed to create guest %s: %w", guest.Email, err)
	}
	return nil
}
