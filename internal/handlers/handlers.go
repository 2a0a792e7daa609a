// Package handlers wires the gallery's HTTP surface: magic-link sign-in,
// the newest-first photo feed, uploads, downloads, and deletion.
package handlers

import (
	"github.com/bloomday/gala/internal/auth"
	"github.com/bloomday/gala/internal/config"
	"github.com/bloomday/gala/internal/storage"
	"gorm.io/gorm"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	cfg   *config.Config
	db    *gorm.DB
	store storage.Store
	auth  *auth.Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg *config.Config, db *gorm.DB, store storage.Store, authService *auth.Service) *Handlers {
	return &Handlers{
		cfg:   cfg,
		db:    db,
		store: store,
		auth:  authService,
	}
}
