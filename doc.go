// Package gala is a shared wedding photo gallery: an S3-backed photo
// feed behind an email sign-in link, plus a CLI client.
//
// The code is organized into subpackages:
//
//   - cmd/server: the HTTP API server
//   - cmd/gala: the command-line client
//   - cmd/seed: guest-list seeding tool
//   - internal/handlers: HTTP request handlers for all API endpoints
//   - internal/auth: sign-in link issuance, exchange, and sessions
//   - internal/feed: cursor pagination over the photo listing
//   - internal/storage: object storage (S3 and in-memory) operations
//   - internal/models: data models and database schemas
//   - internal/database: database connection and migrations
//   - internal/email: sign-in link delivery over SES
//   - internal/cache: Redis caching for presigned URLs
//   - internal/middleware: HTTP middleware (rate limiting, etc.)
//   - internal/cli: the client implementation behind cmd/gala
//
// See the individual package documentation for detailed reference.
package gala
