package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SIGN-IN LINK REQUEST TESTS
// =============================================================================

func TestRequestSignInLinkAccepted(t *testing.T) {
	env := newTestEnv(t)
	env.invite(t, "rose@example.com", false)

	w := env.do(jsonRequest(http.MethodPost, "/auth/link", `{"email":"rose@example.com"}`))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"rose@example.com"}, env.mailer.sentTo)
}

func TestRequestSignInLinkHidesGuestList(t *testing.T) {
	env := newTestEnv(t)

	// An uninvited address gets the same 202 and no email
	w := env.do(jsonRequest(http.MethodPost, "/auth/link", `{"email":"stranger@example.com"}`))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, env.mailer.sentTo)
}

func TestRequestSignInLinkRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/auth/link", `{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/auth/link", `{"email":"not-an-email"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// =============================================================================
// LINK EXCHANGE TESTS
// =============================================================================

func TestExchangeSignInLink(t *testing.T) {
	env := newTestEnv(t)
	env.invite(t, "rose@example.com", false)
	env.do(jsonRequest(http.MethodPost, "/auth/link", `{"email":"rose@example.com"}`))
	require.Len(t, env.mailer.sentTokens, 1)

	body, _ := json.Marshal(map[string]string{
		"email": "rose@example.com",
		"token": env.mailer.sentTokens[0],
	})
	w := env.do(jsonRequest(http.MethodPost, "/auth/exchange", string(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		Guest struct {
			Email string `json:"email"`
		} `json:"guest"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "rose@example.com", resp.Guest.Email)
}

func TestExchangeSignInLinkAcceptsFullLink(t *testing.T) {
	env := newTestEnv(t)
	env.invite(t, "rose@example.com", false)
	env.do(jsonRequest(http.MethodPost, "/auth/link", `{"email":"rose@example.com"}`))

	body, _ := json.Marshal(map[string]string{
		"email": "rose@example.com",
		"link":  "https://gala.pictures/signin?token=" + env.mailer.sentTokens[0],
	})
	w := env.do(jsonRequest(http.MethodPost, "/auth/exchange", string(body)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExchangeSignInLinkWrongEmail(t *testing.T) {
	env := newTestEnv(t)
	env.invite(t, "rose@example.com", false)
	env.do(jsonRequest(http.MethodPost, "/auth/link", `{"email":"rose@example.com"}`))

	body, _ := json.Marshal(map[string]string{
		"email": "thorn@example.com",
		"token": env.mailer.sentTokens[0],
	})
	w := env.do(jsonRequest(http.MethodPost, "/auth/exchange", string(body)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EXCHANGE_FAILED")

	// The wrong address did not burn the link
	body, _ = json.Marshal(map[string]string{
		"email": "rose@example.com",
		"token": env.mailer.sentTokens[0],
	})
	w = env.do(jsonRequest(http.MethodPost, "/auth/exchange", string(body)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExchangeSignInLinkGarbageToken(t *testing.T) {
	env := newTestEnv(t)
	env.invite(t, "rose@example.com", false)

	w := env.do(jsonRequest(http.MethodPost, "/auth/exchange",
		`{"email":"rose@example.com","token":"bogus"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = env.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeReturnsGuest(t *testing.T) {
	env := newTestEnv(t)
	env.invite(t, "rose@example.com", false)
	token := env.signIn(t, "rose@example.com")

	w := env.do(authed(httptest.NewRequest(http.MethodGet, "/auth/me", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rose@example.com")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
}
