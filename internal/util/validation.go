package util

import (
	"errors"
	"net/mail"
	"path/filepath"
	"strings"
)

// mediaExtensions lists the file extensions guests may upload
var mediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
	".mp4":  true,
	".mov":  true,
	".webm": true,
}

// IsValidMediaFile checks if a filename has a photo or video extension
func IsValidMediaFile(filename string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ValidateFilename checks if a display filename is valid
// Filename is required and cannot contain directory separators
// Must be <= 255 chars
func ValidateFilename(filename string) error {
	if filename == "" {
		return errors.New("filename is required")
	}
	if strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		return errors.New("filename cannot contain directory paths")
	}
	if len(filename) > 255 {
		return errors.New("filename too long (max 255 characters)")
	}
	return nil
}

// ValidateEmail checks that an address parses as a bare RFC 5322 address
func ValidateEmail(address string) error {
	if address == "" {
		return errors.New("email is required")
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return errors.New("invalid email address")
	}
	if parsed.Address != address {
		return errors.New("email must be a bare address")
	}
	return nil
}
