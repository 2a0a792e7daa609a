package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all server configuration, loaded from the environment.
type Config struct {
	Port        string
	Environment string

	LogLevel string
	LogFile  string

	// AWS
	AWSRegion   string
	Bucket      string
	PhotoPrefix string

	// SES
	FromEmail string
	FromName  string

	// Where sign-in links point back to; the emailed URL is
	// AppBaseURL + "/signin?token=..."
	AppBaseURL string

	JWTSecret []byte

	// Redis (optional; server degrades without it)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Feed
	PageSize    int
	MaxPageSize int

	// Presigned retrieval URLs
	URLExpiry time.Duration

	Upload UploadPolicy
}

// UploadPolicy is the configurable validation applied before any object
// write. Validation can be disabled wholesale for trusted deployments.
type UploadPolicy struct {
	Enabled      bool
	MaxSizeBytes int64
	// Accepted top-level media types, e.g. "image", "video"
	AllowedMediaTypes []string
}

// Allows reports whether a declared content type passes the policy.
func (p UploadPolicy) Allows(contentType string) bool {
	if !p.Enabled {
		return true
	}
	for _, t := range p.AllowedMediaTypes {
		if strings.HasPrefix(contentType, t+"/") {
			return true
		}
	}
	return false
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8686"),
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:     getEnvOrDefault("LOG_FILE", "gala.log"),

		AWSRegion:   getEnvOrDefault("AWS_REGION", "us-east-1"),
		Bucket:      os.Getenv("AWS_BUCKET"),
		PhotoPrefix: getEnvOrDefault("PHOTO_PREFIX", "photos/"),

		FromEmail:  getEnvOrDefault("SES_FROM_EMAIL", "no-reply@gala.pictures"),
		FromName:   getEnvOrDefault("SES_FROM_NAME", "Gala"),
		AppBaseURL: getEnvOrDefault("APP_BASE_URL", "http://localhost:8686"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		PageSize:    getEnvInt("FEED_PAGE_SIZE", 24),
		MaxPageSize: getEnvInt("FEED_MAX_PAGE_SIZE", 100),
		URLExpiry:   time.Duration(getEnvInt("URL_EXPIRY_MINUTES", 60)) * time.Minute,

		Upload: UploadPolicy{
			Enabled:           getEnvBool("UPLOAD_VALIDATION", true),
			MaxSizeBytes:      int64(getEnvInt("UPLOAD_MAX_MB", 50)) * 1024 * 1024,
			AllowedMediaTypes: splitAndTrim(getEnvOrDefault("UPLOAD_MEDIA_TYPES", "image,video")),
		},
	}

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("AWS_BUCKET environment variable is required")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if !strings.HasSuffix(cfg.PhotoPrefix, "/") {
		cfg.PhotoPrefix += "/"
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
