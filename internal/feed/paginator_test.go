package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bloomday/gala/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(names ...string) *storage.MemoryStore {
	store := storage.NewMemoryStore()
	for _, name := range names {
		store.Put(name, []byte("bytes"))
	}
	return store
}

func itemNames(items []Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

// =============================================================================
// PAGINATION TESTS
// =============================================================================

func TestLoadFirstThenNextPage(t *testing.T) {
	// The worked example: page size 2 over 3_c.jpg, 2_b.jpg, 1_a.jpg
	store := seededStore("3_c.jpg", "2_b.jpg", "1_a.jpg")
	p := NewPaginator(store, 2)

	require.NoError(t, p.LoadFirstPage(context.Background()))
	assert.Equal(t, []string{"3_c.jpg", "2_b.jpg"}, itemNames(p.Items()))
	assert.True(t, p.HasMore())

	require.NoError(t, p.LoadNextPage(context.Background()))
	assert.Equal(t, []string{"3_c.jpg", "2_b.jpg", "1_a.jpg"}, itemNames(p.Items()))
	assert.False(t, p.HasMore())
}

func TestCrossPageOrderAndNoDuplicates(t *testing.T) {
	store := seededStore("5_e.jpg", "4_d.jpg", "3_c.jpg", "2_b.jpg", "1_a.jpg")
	p := NewPaginator(store, 2)

	require.NoError(t, p.LoadFirstPage(context.Background()))
	require.NoError(t, p.LoadNextPage(context.Background()))
	require.NoError(t, p.LoadNextPage(context.Background()))

	names := itemNames(p.Items())
	assert.Equal(t, []string{"5_e.jpg", "4_d.jpg", "3_c.jpg", "2_b.jpg", "1_a.jpg"}, names)

	seen := make(map[string]bool)
	for _, n := range names {
		assert.False(t, seen[n], "duplicate item %s", n)
		seen[n] = true
	}
	assert.False(t, p.HasMore())
}

func TestShortPageEndsFeed(t *testing.T) {
	store := seededStore("1_a.jpg")
	p := NewPaginator(store, 5)

	require.NoError(t, p.LoadFirstPage(context.Background()))
	assert.Len(t, p.Items(), 1)
	assert.False(t, p.HasMore())

	// Loading past the end is a no-op
	require.NoError(t, p.LoadNextPage(context.Background()))
	assert.Len(t, p.Items(), 1)
}

func TestResolvedURLsFollowListingOrder(t *testing.T) {
	store := seededStore("2_b.jpg", "1_a.jpg")
	p := NewPaginator(store, 10)

	require.NoError(t, p.LoadFirstPage(context.Background()))
	items := p.Items()
	require.Len(t, items, 2)
	assert.Contains(t, items[0].URL, "2_b.jpg")
	assert.Contains(t, items[1].URL, "1_a.jpg")
}

func TestLoadFirstPageReplacesWholesale(t *testing.T) {
	store := seededStore("2_b.jpg", "1_a.jpg")
	p := NewPaginator(store, 10)
	require.NoError(t, p.LoadFirstPage(context.Background()))

	store.Put("3_c.jpg", []byte("new"))
	require.NoError(t, p.LoadFirstPage(context.Background()))

	assert.Equal(t, []string{"3_c.jpg", "2_b.jpg", "1_a.jpg"}, itemNames(p.Items()))
}

// =============================================================================
// FAILURE HANDLING TESTS
// =============================================================================

func TestListFailureLeavesStateUntouched(t *testing.T) {
	store := seededStore("2_b.jpg", "1_a.jpg")
	p := NewPaginator(store, 1)
	require.NoError(t, p.LoadFirstPage(context.Background()))
	before := itemNames(p.Items())

	store.FailList = errors.New("listing blew up")
	err := p.LoadNextPage(context.Background())
	require.Error(t, err)

	assert.Equal(t, before, itemNames(p.Items()))
	assert.False(t, p.Loading(), "loading flag must clear after a failed load")

	// Recovery: next load succeeds once the store does
	store.FailList = nil
	require.NoError(t, p.LoadNextPage(context.Background()))
	assert.Equal(t, []string{"2_b.jpg", "1_a.jpg"}, itemNames(p.Items()))
}

func TestPresignFailureHidesPartialPage(t *testing.T) {
	store := seededStore("2_b.jpg", "1_a.jpg")
	store.FailPresign = errors.New("presign blew up")
	p := NewPaginator(store, 10)

	err := p.LoadFirstPage(context.Background())
	require.Error(t, err)
	assert.Empty(t, p.Items(), "no partial page may be published")
	assert.False(t, p.Loading())
}

// =============================================================================
// SINGLE-FLIGHT / TRIGGER TESTS
// =============================================================================

// gatedStore blocks ListPage until released, counting calls.
type gatedStore struct {
	*storage.MemoryStore
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (g *gatedStore) ListPage(ctx context.Context, limit int, cursor string) (*storage.Page, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	<-g.release
	return g.MemoryStore.ListPage(ctx, limit, cursor)
}

func (g *gatedStore) listCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestRapidTriggersCollapseToOneLoad(t *testing.T) {
	store := &gatedStore{
		MemoryStore: seededStore("3_c.jpg", "2_b.jpg", "1_a.jpg"),
		release:     make(chan struct{}),
	}
	p := NewPaginator(store, 2)

	var wg sync.WaitGroup
	results := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started, err := p.TryLoadNext(context.Background())
			assert.NoError(t, err)
			results <- started
		}()
	}

	// Let the first trigger reach the store and the second hit the
	// single-flight guard, then release.
	for store.listCalls() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(store.release)
	wg.Wait()
	close(results)

	startedCount := 0
	for started := range results {
		if started {
			startedCount++
		}
	}
	assert.Equal(t, 1, startedCount, "exactly one trigger may start a load")
	assert.Equal(t, 1, store.listCalls())
}

func TestTryLoadNextNoopAtEndOfFeed(t *testing.T) {
	store := seededStore("1_a.jpg")
	p := NewPaginator(store, 5)
	require.NoError(t, p.LoadFirstPage(context.Background()))
	require.False(t, p.HasMore())

	started, err := p.TryLoadNext(context.Background())
	require.NoError(t, err)
	assert.False(t, started)
}

// =============================================================================
// OPTIMISTIC INSERT / RESET TESTS
// =============================================================================

func TestPrependPlacesUploadFirstWithoutRefetch(t *testing.T) {
	store := seededStore("2_b.jpg", "1_a.jpg")
	p := NewPaginator(store, 10)
	require.NoError(t, p.LoadFirstPage(context.Background()))

	p.Prepend(Item{Name: "9_new.jpg", Key: "photos/9_new.jpg", URL: "https://cdn.test/photos/9_new.jpg"})

	names := itemNames(p.Items())
	assert.Equal(t, []string{"9_new.jpg", "2_b.jpg", "1_a.jpg"}, names)
	assert.Greater(t, names[0], names[1], "prepended name must sort newest")

	// Prepending the same item again is ignored
	p.Prepend(Item{Name: "9_new.jpg"})
	assert.Len(t, p.Items(), 3)
}

func TestResetDiscardsFeed(t *testing.T) {
	store := seededStore("2_b.jpg", "1_a.jpg")
	p := NewPaginator(store, 1)
	require.NoError(t, p.LoadFirstPage(context.Background()))
	require.NotEmpty(t, p.Items())

	p.Reset()
	assert.Empty(t, p.Items())
	assert.True(t, p.HasMore())

	// A fresh first page starts from the top again
	require.NoError(t, p.LoadFirstPage(context.Background()))
	assert.Equal(t, []string{"2_b.jpg"}, itemNames(p.Items()))
}

func TestSubscriberNotifiedOnChange(t *testing.T) {
	store := seededStore("1_a.jpg")
	p := NewPaginator(store, 5)

	notified := 0
	p.Subscribe(func() { notified++ })

	require.NoError(t, p.LoadFirstPage(context.Background()))
	p.Prepend(Item{Name: "2_b.jpg"})
	p.Reset()

	assert.Equal(t, 3, notified)
}
