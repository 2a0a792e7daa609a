package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// CONTENT TYPE TESTS
// =============================================================================

func TestContentTypeForFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"wedding.jpg", "image/jpeg"},
		{"wedding.JPG", "image/jpeg"},
		{"wedding.jpeg", "image/jpeg"},
		{"wedding.png", "image/png"},
		{"wedding.gif", "image/gif"},
		{"wedding.webp", "image/webp"},
		{"wedding.heic", "image/heic"},
		{"first-dance.mp4", "video/mp4"},
		{"first-dance.MOV", "video/quicktime"},
		{"first-dance.webm", "video/webm"},
		{"notes.txt", "application/octet-stream"},
		{"", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContentTypeForFilename(tt.filename))
		})
	}
}

// =============================================================================
// NAMING TESTS
// =============================================================================

func TestTimestampedName(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123_cake.jpg", TimestampedName("cake.jpg", at))
}

func TestTimestampedNameOrdersNewestFirst(t *testing.T) {
	older := TimestampedName("a.jpg", time.UnixMilli(1700000000000))
	newer := TimestampedName("b.jpg", time.UnixMilli(1700000000001))
	// Descending lexicographic order must equal reverse-chronological order
	assert.Greater(t, newer, older)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"cake.jpg", "cake.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"C:\\Users\\guest\\cake.jpg", "cake.jpg"},
		{"émotion.png", "_motion.png"},
		{"", "photo"},
		{"///", "photo"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

// =============================================================================
// CURSOR PAGINATION TESTS
// =============================================================================

func TestPaginateDescending(t *testing.T) {
	names := []string{"1_a.jpg", "3_c.jpg", "2_b.jpg"}

	first := paginateDescending(names, 2, "")
	assert.Equal(t, []string{"3_c.jpg", "2_b.jpg"}, first.names)
	assert.True(t, first.hasMore)

	second := paginateDescending(names, 2, "2_b.jpg")
	assert.Equal(t, []string{"1_a.jpg"}, second.names)
	assert.False(t, second.hasMore)
}

func TestPaginateDescendingExactPageBoundary(t *testing.T) {
	names := []string{"1_a.jpg", "2_b.jpg"}

	first := paginateDescending(names, 2, "")
	assert.Equal(t, []string{"2_b.jpg", "1_a.jpg"}, first.names)
	// The listing walk knows the total, so the boundary page already
	// reports the end
	assert.False(t, first.hasMore)
}

func TestPaginateDescendingCursorPastEnd(t *testing.T) {
	names := []string{"2_b.jpg", "1_a.jpg"}

	page := paginateDescending(names, 2, "1_a.jpg")
	assert.Empty(t, page.names)
	assert.False(t, page.hasMore)
}

func TestPaginateDescendingUnknownCursorSkipsPast(t *testing.T) {
	// Cursor names an item that no longer exists; resume strictly below it
	names := []string{"4_d.jpg", "2_b.jpg", "1_a.jpg"}

	page := paginateDescending(names, 10, "3_c.jpg")
	assert.Equal(t, []string{"2_b.jpg", "1_a.jpg"}, page.names)
	assert.False(t, page.hasMore)
}

func TestPaginateDescendingEmpty(t *testing.T) {
	page := paginateDescending(nil, 5, "")
	assert.Empty(t, page.names)
	assert.False(t, page.hasMore)
}
