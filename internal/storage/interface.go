package storage

import (
	"context"
	"time"
)

// Object is one stored photo. Name is the identity key: it embeds the
// upload timestamp in millis, so descending lexicographic order over names
// is reverse-chronological order.
type Object struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Page is one page of a listing. NextCursor is the name of the last item;
// passing it to the next ListPage call resumes after that item.
type Page struct {
	Objects    []Object `json:"objects"`
	NextCursor string   `json:"next_cursor,omitempty"`
	HasMore    bool     `json:"has_more"`
}

// Store is the object-storage boundary for the photo gallery.
// This interface allows for easy faking in tests.
type Store interface {
	// ListPage returns up to limit objects, newest first, resuming after
	// the cursor name when cursor is non-empty.
	ListPage(ctx context.Context, limit int, cursor string) (*Page, error)

	// PresignGet resolves a time-limited retrieval URL for one object key.
	PresignGet(ctx context.Context, key string) (string, error)

	// Upload writes a new photo under a timestamped name and returns it.
	Upload(ctx context.Context, data []byte, filename, contentType string) (*Object, error)

	// Download reads the bytes of one object by name.
	Download(ctx context.Context, name string) ([]byte, error)

	// Delete removes one object by name.
	Delete(ctx context.Context, name string) error
}

// Ensure implementations satisfy the interface
var (
	_ Store = (*S3Store)(nil)
	_ Store = (*MemoryStore)(nil)
)
