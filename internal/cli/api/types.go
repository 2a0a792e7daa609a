package api

import "time"

// Guest is the signed-in guest as the server reports it
type Guest struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
	UploadCount int    `json:"upload_count"`
}

// AuthResponse is the result of exchanging a sign-in link
type AuthResponse struct {
	Token     string    `json:"token"`
	Guest     Guest     `json:"guest"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PhotoItem is one gallery entry with its retrieval URL resolved
type PhotoItem struct {
	Name       string    `json:"name"`
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PhotoPage is one feed page, newest first
type PhotoPage struct {
	Items      []PhotoItem `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

// UploadResponse wraps the item created by an upload
type UploadResponse struct {
	Item PhotoItem `json:"item"`
}

// ErrorResponse is the server's structured error body
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}
