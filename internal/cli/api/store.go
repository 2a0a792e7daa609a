package api

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/bloomday/gala/internal/cli/client"
	"github.com/bloomday/gala/internal/storage"
	json "github.com/json-iterator/go"
)

// Store adapts the gallery API to storage.Store so the feed paginator
// can run against the remote gallery. The server resolves retrieval
// URLs during listing; the adapter remembers them per key and hands
// them back when the paginator asks.
type Store struct {
	mu   sync.Mutex
	urls map[string]string
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a Store over the configured API client
func NewStore() *Store {
	return &Store{urls: make(map[string]string)}
}

func (s *Store) ListPage(ctx context.Context, limit int, cursor string) (*storage.Page, error) {
	page, err := ListPhotos(limit, cursor)
	if err != nil {
		return nil, err
	}

	objects := make([]storage.Object, len(page.Items))
	s.mu.Lock()
	for i, item := range page.Items {
		objects[i] = storage.Object{
			Key:          item.Key,
			Name:         item.Name,
			Size:         item.Size,
			LastModified: item.UploadedAt,
		}
		s.urls[item.Key] = item.URL
	}
	s.mu.Unlock()

	return &storage.Page{
		Objects:    objects,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}, nil
}

func (s *Store) PresignGet(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url, ok := s.urls[key]
	if !ok {
		return "", fmt.Errorf("no resolved URL for %s", key)
	}
	return url, nil
}

func (s *Store) Upload(ctx context.Context, data []byte, filename, contentType string) (*storage.Object, error) {
	resp, err := client.GetClient().
		R().
		SetMultipartField("photo", filename, contentType, bytes.NewReader(data)).
		Post("/photos")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var uploadResp UploadResponse
	if err := json.Unmarshal(resp.Body(), &uploadResp); err != nil {
		return nil, err
	}

	item := uploadResp.Item
	s.mu.Lock()
	s.urls[item.Key] = item.URL
	s.mu.Unlock()

	return &storage.Object{
		Key:          item.Key,
		Name:         item.Name,
		Size:         item.Size,
		LastModified: item.UploadedAt,
	}, nil
}

func (s *Store) Download(ctx context.Context, name string) ([]byte, error) {
	return DownloadPhoto(name)
}

func (s *Store) Delete(ctx context.Context, name string) error {
	return DeletePhoto(name)
}
