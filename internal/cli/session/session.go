// Package session drives the CLI's sign-in lifecycle: requesting a
// link, completing it once the email arrives, and restoring a saved
// session on startup. It is a small state machine with three states:
// signed out, waiting for an emailed link, and signed in.
package session

import (
	"errors"
	"net/url"
	"strings"

	"github.com/bloomday/gala/internal/cli/api"
	"github.com/bloomday/gala/internal/cli/client"
	"github.com/bloomday/gala/internal/cli/credentials"
	"github.com/bloomday/gala/internal/cli/logger"
)

// ErrEmailRequired is returned by Complete when no address is pending
// and none was supplied. The caller must ask the guest for it; the link
// alone cannot recover the address.
var ErrEmailRequired = errors.New("email address required to complete sign-in")

// State is the current sign-in state
type State int

const (
	SignedOut State = iota
	AwaitingLink
	SignedIn
)

// Current restores a saved session. Expired credentials are discarded
// rather than sent, so the server never sees a dead token.
func Current() (*credentials.Credentials, State, error) {
	creds, err := credentials.Load()
	if err != nil {
		return nil, SignedOut, err
	}

	if creds.IsValid() {
		client.SetAuthToken(creds.Token)
		return creds, SignedIn, nil
	}

	if creds != nil {
		logger.Debug("Discarding expired session", "email", creds.Email)
		_ = credentials.Delete()
	}

	if credentials.LoadPendingSignIn() != "" {
		return nil, AwaitingLink, nil
	}
	return nil, SignedOut, nil
}

// Begin requests a sign-in link and remembers the address so Complete
// does not need it again on this machine.
func Begin(email string) error {
	email = strings.TrimSpace(email)
	if err := api.RequestSignInLink(email); err != nil {
		return err
	}
	return credentials.SavePendingSignIn(email)
}

// Complete exchanges an emailed link (or bare token) for a session.
// The address comes from the pending state when this machine requested
// the link; otherwise the caller must pass one. On success the pending
// state is cleared and the session is persisted.
func Complete(linkOrToken, email string) (*credentials.Credentials, error) {
	token := TokenFromLink(linkOrToken)
	if token == "" {
		return nil, errors.New("that does not look like a sign-in link")
	}

	if email == "" {
		email = credentials.LoadPendingSignIn()
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	resp, err := api.ExchangeSignInLink(email, token)
	if err != nil {
		return nil, err
	}

	creds := &credentials.Credentials{
		Token:       resp.Token,
		ExpiresAt:   resp.ExpiresAt,
		GuestID:     resp.Guest.ID,
		Email:       resp.Guest.Email,
		DisplayName: resp.Guest.DisplayName,
		IsHost:      resp.Guest.IsHost,
	}
	if err := credentials.Save(creds); err != nil {
		return nil, err
	}

	// The link is spent; nothing should keep pointing at it
	_ = credentials.ClearPendingSignIn()
	client.SetAuthToken(creds.Token)

	return creds, nil
}

// SignOut discards the session and any pending link state
func SignOut() error {
	client.ClearAuthToken()
	_ = credentials.ClearPendingSignIn()
	return credentials.Delete()
}

// TokenFromLink extracts the token from a sign-in link URL. A bare
// token is passed through unchanged.
func TokenFromLink(linkOrToken string) string {
	s := strings.TrimSpace(linkOrToken)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return u.Query().Get("token")
}
