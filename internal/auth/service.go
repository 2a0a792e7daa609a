package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bloomday/gala/internal/email"
	"github.com/bloomday/gala/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrGuestNotFound = errors.New("guest not found")
	ErrInvalidLink   = errors.New("invalid or expired sign-in link")
	ErrEmailMismatch = errors.New("email does not match this sign-in link")
)

// linkTTL is how long an emailed sign-in link stays valid
const linkTTL = 15 * time.Minute

// sessionTTL is how long an exchanged session token stays valid
const sessionTTL = 24 * time.Hour

// Service handles sign-in link issuance and exchange
type Service struct {
	db        *gorm.DB
	mailer    email.Mailer
	jwtSecret []byte
}

// NewService creates a new authentication service
func NewService(db *gorm.DB, mailer email.Mailer, jwtSecret []byte) *Service {
	return &Service{
		db:        db,
		mailer:    mailer,
		jwtSecret: jwtSecret,
	}
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token     string       `json:"token"`
	Guest     models.Guest `json:"guest"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// RequestSignInLink creates a single-use token for an invited guest and
// emails the link. Only the SHA-256 digest and a bcrypt hash are stored;
// the raw token exists nowhere but the email. Requesting a link never
// signs anyone in by itself.
func (s *Service) RequestSignInLink(ctx context.Context, guestEmail string) error {
	var guest models.Guest
	err := s.db.Where("LOWER(email) = LOWER(?)", guestEmail).First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGuestNotFound
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	// Two UUIDs: 72 chars of token, exactly bcrypt's input limit
	token := uuid.New().String() + uuid.New().String()

	compareHash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash token: %w", err)
	}

	record := models.SignInToken{
		GuestID:     guest.ID,
		Email:       strings.ToLower(guest.Email),
		Digest:      digest(token),
		CompareHash: string(compareHash),
		ExpiresAt:   time.Now().Add(linkTTL),
		Used:        false,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create sign-in token: %w", err)
	}

	if err := s.mailer.SendSignInLink(ctx, guest.Email, token); err != nil {
		return fmt.Errorf("failed to send sign-in link: %w", err)
	}

	return nil
}

// ExchangeLink trades (email, token) for a session. The email is a
// confirmation factor: the link alone cannot recover it, so a link opened
// on another device requires the guest to re-enter their address. The
// token is single use; a successful exchange burns it.
func (s *Service) ExchangeLink(ctx context.Context, guestEmail, token string) (*AuthResponse, error) {
	var record models.SignInToken
	err := s.db.Where("digest = ? AND used = ? AND expires_at > ?", digest(token), false, time.Now()).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidLink
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CompareHash), []byte(token)) != nil {
		return nil, ErrInvalidLink
	}

	if !strings.EqualFold(record.Email, guestEmail) {
		return nil, ErrEmailMismatch
	}

	var guest models.Guest
	if err := s.db.First(&guest, "id = ?", record.GuestID).Error; err != nil {
		return nil, fmt.Errorf("guest not found: %w", err)
	}

	record.Used = true
	if err := s.db.Save(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to mark token used: %w", err)
	}

	now := time.Now()
	guest.LastSignInAt = &now
	s.db.Save(&guest)

	return s.generateAuthResponse(&guest)
}

// generateAuthResponse creates JWT token and auth response
func (s *Service) generateAuthResponse(guest *models.Guest) (*AuthResponse, error) {
	expiresAt := time.Now().Add(sessionTTL)

	claims := jwt.MapClaims{
		"guest_id": guest.ID,
		"email":    guest.Email,
		"is_host":  guest.IsHost,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResponse{
		Token:     tokenString,
		Guest:     *guest,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken validates a session JWT and returns the guest
func (s *Service) ValidateToken(tokenString string) (*models.Guest, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	guestID, ok := claims["guest_id"].(string)
	if !ok {
		return nil, errors.New("invalid guest_id in token")
	}

	// Fetch fresh guest data
	var guest models.Guest
	if err := s.db.First(&guest, "id = ?", guestID).Error; err != nil {
		return nil, fmt.Errorf("guest not found: %w", err)
	}

	return &guest, nil
}

// IsSignInLink reports whether a URL encodes a completed sign-in link
func IsSignInLink(rawURL string) bool {
	_, ok := TokenFromLink(rawURL)
	return ok
}

// TokenFromLink extracts the sign-in token from an emailed link URL
func TokenFromLink(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	token := u.Query().Get("token")
	return token, token != ""
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
