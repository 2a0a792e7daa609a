// Package credentials persists the guest's session between CLI runs,
// the way a browser keeps it in local storage. The pending sign-in file
// remembers which address asked for a link, so completing the sign-in
// later (or from a pasted link) does not require retyping it.
package credentials

import (
	"os"
	"time"

	"github.com/bloomday/gala/internal/cli/config"
	json "github.com/json-iterator/go"
)

type Credentials struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	GuestID     string    `json:"guest_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsHost      bool      `json:"is_host"`
}

// Load loads credentials from disk. A missing file is not an error;
// it just means nobody is signed in.
func Load() (*Credentials, error) {
	data, err := os.ReadFile(config.GetCredentialsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// Save saves credentials to disk with owner-only permissions
func Save(creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(config.GetCredentialsPath(), data, 0600)
}

// Delete deletes credentials from disk
func Delete() error {
	err := os.Remove(config.GetCredentialsPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsExpired checks if the session token is expired
func (c *Credentials) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// IsValid checks if credentials are usable
func (c *Credentials) IsValid() bool {
	return c != nil && c.Token != "" && !c.IsExpired()
}

// SavePendingSignIn remembers the address a sign-in link was requested
// for
func SavePendingSignIn(email string) error {
	return os.WriteFile(config.GetPendingSignInPath(), []byte(email), 0600)
}

// LoadPendingSignIn returns the address awaiting a link, or ""
func LoadPendingSignIn() string {
	data, err := os.ReadFile(config.GetPendingSignInPath())
	if err != nil {
		return ""
	}
	return string(data)
}

// ClearPendingSignIn removes the pending sign-in state
func ClearPendingSignIn() error {
	err := os.Remove(config.GetPendingSignInPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
