// Package feed maintains an ordered, deduplicated, incrementally-loaded
// view of the remote photo gallery. It is the client-side counterpart of
// the listing API: a growing list plus a "more available" flag, guarded by
// a single-flight rule so no two page loads are ever in flight at once.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bloomday/gala/internal/storage"
	"golang.org/x/sync/errgroup"
)

// ErrLoadInFlight is returned when a page load is requested while another
// one is still outstanding.
var ErrLoadInFlight = errors.New("page load already in flight")

// Item is one photo in the feed, with its retrieval URL already resolved.
type Item struct {
	Name       string    `json:"name"`
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Paginator holds the feed state. All mutation goes through its mutex;
// unlike a browser page there is no single UI thread to rely on, so the
// loading flag doubles as an explicit single-flight guard.
//
// An item's position is permanent once loaded: pages only append, and a
// successful upload prepends. The feed is never partially updated — a
// failed page load leaves prior state untouched.
type Paginator struct {
	store    storage.Store
	pageSize int

	mu          sync.Mutex
	items       []Item
	seen        map[string]bool
	cursor      string
	hasMore     bool
	loading     bool
	subscribers []func()
}

// NewPaginator creates a feed over the given store
func NewPaginator(store storage.Store, pageSize int) *Paginator {
	return &Paginator{
		store:    store,
		pageSize: pageSize,
		seen:     make(map[string]bool),
		hasMore:  true,
	}
}

// Subscribe registers a callback invoked after every feed change
func (p *Paginator) Subscribe(fn func()) {
	p.mu.Lock()
	p.subscribers = append(p.subscribers, fn)
	p.mu.Unlock()
}

// Items returns a copy of the current feed, newest first
func (p *Paginator) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Item, len(p.items))
	copy(out, p.items)
	return out
}

// HasMore reports whether another page may be available
func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Loading reports whether a page load is in flight
func (p *Paginator) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// LoadFirstPage replaces the feed with the first page of the listing.
func (p *Paginator) LoadFirstPage(ctx context.Context) error {
	return p.load(ctx, true)
}

// LoadNextPage appends the page after the current cursor. Loading past
// the end is a no-op.
func (p *Paginator) LoadNextPage(ctx context.Context) error {
	return p.load(ctx, false)
}

// TryLoadNext is the scroll-trigger entry point: it requests the next
// page only when more items are available and no load is in flight.
// It reports whether a load actually ran. Concurrent callers collapse to
// a single load; the losers observe started=false with no error.
func (p *Paginator) TryLoadNext(ctx context.Context) (started bool, err error) {
	if !p.HasMore() {
		return false, nil
	}
	err = p.load(ctx, false)
	if errors.Is(err, ErrLoadInFlight) {
		return false, nil
	}
	return true, err
}

func (p *Paginator) load(ctx context.Context, first bool) error {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return ErrLoadInFlight
	}
	if !first && !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	cursor := ""
	if !first {
		cursor = p.cursor
	}
	p.mu.Unlock()

	// The loading flag must return to false on every path.
	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	page, err := p.store.ListPage(ctx, p.pageSize, cursor)
	if err != nil {
		return fmt.Errorf("list photos: %w", err)
	}

	items, err := p.resolve(ctx, page.Objects)
	if err != nil {
		// Partial pages are never shown; prior state stays untouched.
		return err
	}

	p.mu.Lock()
	if first {
		p.items = nil
		p.seen = make(map[string]bool)
	}
	for _, item := range items {
		if p.seen[item.Name] {
			continue
		}
		p.seen[item.Name] = true
		p.items = append(p.items, item)
	}
	if page.NextCursor != "" {
		p.cursor = page.NextCursor
	}
	p.hasMore = page.HasMore && len(page.Objects) == p.pageSize
	p.mu.Unlock()

	p.notify()
	return nil
}

// resolve presigns retrieval URLs for one listed page. The N presigns run
// concurrently; results are zipped back to listing order by index, so
// completion order never reorders the page.
func (p *Paginator) resolve(ctx context.Context, objects []storage.Object) ([]Item, error) {
	items := make([]Item, len(objects))
	g, gctx := errgroup.WithContext(ctx)
	for i, obj := range objects {
		g.Go(func() error {
			url, err := p.store.PresignGet(gctx, obj.Key)
			if err != nil {
				return fmt.Errorf("resolve url for %s: %w", obj.Name, err)
			}
			items[i] = Item{
				Name:       obj.Name,
				Key:        obj.Key,
				URL:        url,
				Size:       obj.Size,
				UploadedAt: obj.LastModified,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// Prepend inserts a freshly uploaded item at the head of the feed without
// re-fetching (optimistic insert). Duplicates are ignored.
func (p *Paginator) Prepend(item Item) {
	p.mu.Lock()
	if p.seen[item.Name] {
		p.mu.Unlock()
		return
	}
	p.seen[item.Name] = true
	p.items = append([]Item{item}, p.items...)
	p.mu.Unlock()

	p.notify()
}

// Reset discards the feed. Called when the session changes; the next
// LoadFirstPage starts from scratch.
func (p *Paginator) Reset() {
	p.mu.Lock()
	p.items = nil
	p.seen = make(map[string]bool)
	p.cursor = ""
	p.hasMore = true
	p.mu.Unlock()

	p.notify()
}

func (p *Paginator) notify() {
	p.mu.Lock()
	subs := append([]func(){}, p.subscribers...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
