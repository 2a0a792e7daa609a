package auth

import (
	"context"
	"time"

	"github.com/bloomday/gala/internal/logger"
	"github.com/bloomday/gala/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CleanupService periodically purges sign-in tokens that can never be
// exchanged again: expired ones and ones already burned by a successful
// exchange. Only digests and bcrypt hashes are stored, but there is no
// reason to keep them around once they are dead.
type CleanupService struct {
	db       *gorm.DB
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
}

// NewCleanupService creates a new token cleanup service
func NewCleanupService(db *gorm.DB, interval time.Duration) *CleanupService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CleanupService{
		db:       db,
		ctx:      ctx,
		cancel:   cancel,
		interval: interval,
	}
}

// Start begins the periodic cleanup process
func (s *CleanupService) Start() {
	logger.Log.Info("Starting sign-in token cleanup service",
		zap.Duration("interval", s.interval))
	go s.run()
}

// Stop stops the cleanup service
func (s *CleanupService) Stop() {
	s.cancel()
}

func (s *CleanupService) run() {
	// Run immediately on startup
	s.purgeDeadTokens()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purgeDeadTokens()
		case <-s.ctx.Done():
			return
		}
	}
}

// purgeDeadTokens deletes tokens that are expired or already used.
func (s *CleanupService) purgeDeadTokens() {
	start := time.Now()

	result := s.db.Where("expires_at < ? OR used = ?", time.Now(), true).
		Delete(&models.SignInToken{})
	if result.Error != nil {
		logger.Log.Warn("Sign-in token cleanup failed", zap.Error(result.Error))
		return
	}

	if result.RowsAffected > 0 {
		logger.Log.Info("Purged dead sign-in tokens",
			zap.Int64("deleted", result.RowsAffected),
			zap.Duration("took", time.Since(start)))
	}
}
