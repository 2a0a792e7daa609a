package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests. Listing semantics match
// S3Store: newest-first with the emulated name cursor.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte // name -> bytes
	mtimes  map[string]time.Time
	prefix  string

	// Now is the upload clock; tests override it to control name order.
	Now func() time.Time

	// Failure injection
	FailList    error
	FailPresign error
	FailUpload  error

	// Call counters for asserting zero-write properties
	UploadCalls  int
	PresignCalls int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		mtimes:  make(map[string]time.Time),
		prefix:  "photos/",
		Now:     time.Now,
	}
}

// Put seeds an object directly under a given name, bypassing naming
func (m *MemoryStore) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	m.mtimes[name] = m.Now()
}

// Len reports how many objects are stored
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *MemoryStore) ListPage(ctx context.Context, limit int, cursor string) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailList != nil {
		return nil, m.FailList
	}

	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}

	page := paginateDescending(names, limit, cursor)

	objects := make([]Object, 0, len(page.names))
	for _, name := range page.names {
		objects = append(objects, Object{
			Key:          m.prefix + name,
			Name:         name,
			Size:         int64(len(m.objects[name])),
			LastModified: m.mtimes[name],
		})
	}

	result := &Page{Objects: objects, HasMore: page.hasMore}
	if len(objects) > 0 {
		result.NextCursor = objects[len(objects)-1].Name
	}
	return result, nil
}

func (m *MemoryStore) PresignGet(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PresignCalls++
	if m.FailPresign != nil {
		return "", m.FailPresign
	}
	return "https://cdn.test/" + key + "?sig=stub", nil
}

func (m *MemoryStore) Upload(ctx context.Context, data []byte, filename, contentType string) (*Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UploadCalls++
	if m.FailUpload != nil {
		return nil, m.FailUpload
	}

	now := m.Now()
	name := TimestampedName(filename, now)
	m.objects[name] = data
	m.mtimes[name] = now

	return &Object{
		Key:          m.prefix + name,
		Name:         name,
		Size:         int64(len(data)),
		LastModified: now,
	}, nil
}

func (m *MemoryStore) Download(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[name]
	if !ok {
		return nil, fmt.Errorf("object %s not found", name)
	}
	return data, nil
}

func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[name]; !ok {
		return fmt.Errorf("object %s not found", name)
	}
	delete(m.objects, name)
	delete(m.mtimes, name)
	return nil
}
