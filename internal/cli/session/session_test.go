package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bloomday/gala/internal/cli/api"
	"github.com/bloomday/gala/internal/cli/client"
	"github.com/bloomday/gala/internal/cli/config"
	"github.com/bloomday/gala/internal/cli/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup points the CLI at a temp config dir and a stub API server
func setup(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	require.NoError(t, config.SetString("api.base_url", server.URL))
	client.Init()
	return server
}

func stubExchange(t *testing.T, wantEmail, wantToken string) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/link", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/auth/exchange", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email != wantEmail || req.Token != wantToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"code":    "AUTH_EXCHANGE_FAILED",
				"message": "invalid link",
			})
			return
		}
		json.NewEncoder(w).Encode(api.AuthResponse{
			Token:     "session-jwt",
			ExpiresAt: time.Now().Add(24 * time.Hour),
			Guest:     api.Guest{ID: "g1", Email: wantEmail, DisplayName: "Rose"},
		})
	})
	return mux
}

// =============================================================================
// SIGN-IN FLOW TESTS
// =============================================================================

func TestBeginRemembersAddress(t *testing.T) {
	setup(t, stubExchange(t, "rose@example.com", "tok"))

	require.NoError(t, Begin("rose@example.com"))
	assert.Equal(t, "rose@example.com", credentials.LoadPendingSignIn())

	// Requesting a link never signs anyone in
	_, state, err := Current()
	require.NoError(t, err)
	assert.Equal(t, AwaitingLink, state)
}

func TestCompleteUsesPendingAddress(t *testing.T) {
	setup(t, stubExchange(t, "rose@example.com", "tok123"))
	require.NoError(t, Begin("rose@example.com"))

	creds, err := Complete("https://gala.pictures/signin?token=tok123", "")
	require.NoError(t, err)
	assert.Equal(t, "rose@example.com", creds.Email)
	assert.Equal(t, "session-jwt", creds.Token)

	// The spent link state is cleared, the session persists
	assert.Empty(t, credentials.LoadPendingSignIn())
	restored, state, err := Current()
	require.NoError(t, err)
	assert.Equal(t, SignedIn, state)
	assert.Equal(t, "rose@example.com", restored.Email)
}

func TestCompleteNeedsAddressOnFreshMachine(t *testing.T) {
	setup(t, stubExchange(t, "rose@example.com", "tok123"))

	// No pending address: the link alone is not enough
	_, err := Complete("https://gala.pictures/signin?token=tok123", "")
	assert.ErrorIs(t, err, ErrEmailRequired)

	// Supplying the address works
	creds, err := Complete("https://gala.pictures/signin?token=tok123", "rose@example.com")
	require.NoError(t, err)
	assert.Equal(t, "rose@example.com", creds.Email)
}

func TestCompleteWrongAddressKeepsPending(t *testing.T) {
	setup(t, stubExchange(t, "rose@example.com", "tok123"))
	require.NoError(t, Begin("rose@example.com"))

	_, err := Complete("tok123", "thorn@example.com")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))

	// The pending state survives a failed attempt
	assert.Equal(t, "rose@example.com", credentials.LoadPendingSignIn())
}

func TestCompleteRejectsNonLink(t *testing.T) {
	setup(t, stubExchange(t, "rose@example.com", "tok"))

	_, err := Complete("https://gala.pictures/?utm_source=email", "rose@example.com")
	assert.Error(t, err)
}

// =============================================================================
// SESSION RESTORE TESTS
// =============================================================================

func TestCurrentDiscardsExpiredSession(t *testing.T) {
	setup(t, stubExchange(t, "rose@example.com", "tok"))

	require.NoError(t, credentials.Save(&credentials.Credentials{
		Token:     "stale-jwt",
		Email:     "rose@example.com",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	creds, state, err := Current()
	require.NoError(t, err)
	assert.Nil(t, creds)
	assert.Equal(t, SignedOut, state)

	// The stale file is gone for good
	reloaded, err := credentials.Load()
	require.NoError(t, err)
	assert.Nil(t, reloaded)
}

func TestSignOut(t *testing.T) {
	setup(t, stubExchange(t, "rose@example.com", "tok123"))
	require.NoError(t, Begin("rose@example.com"))
	_, err := Complete("tok123", "")
	require.NoError(t, err)

	require.NoError(t, SignOut())
	creds, state, err := Current()
	require.NoError(t, err)
	assert.Nil(t, creds)
	assert.Equal(t, SignedOut, state)

	// Signing out twice is fine
	assert.NoError(t, SignOut())
}

// =============================================================================
// LINK PARSING TESTS
// =============================================================================

func TestTokenFromLink(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://gala.pictures/signin?token=abc123", "abc123"},
		{"https://gala.pictures/signin?token=abc123&utm_source=email", "abc123"},
		{"abc123", "abc123"},
		{"https://gala.pictures/", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, TokenFromLink(tt.input))
		})
	}
}
