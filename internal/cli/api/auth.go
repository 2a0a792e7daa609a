package api

import (
	"github.com/bloomday/gala/internal/cli/client"
	"github.com/bloomday/gala/internal/cli/logger"
	json "github.com/json-iterator/go"
)

// RequestSignInLink asks the server to email a sign-in link. The server
// answers 202 either way, so success here only means the request landed.
func RequestSignInLink(email string) error {
	logger.Debug("Requesting sign-in link", "email", email)

	reqBody, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return err
	}

	resp, err := client.GetClient().
		R().
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post("/auth/link")

	return CheckResponse(resp, err)
}

// ExchangeSignInLink trades the emailed token plus the guest's address
// for a session
func ExchangeSignInLink(email, token string) (*AuthResponse, error) {
	logger.Debug("Exchanging sign-in link", "email", email)

	reqBody, err := json.Marshal(map[string]string{
		"email": email,
		"token": token,
	})
	if err != nil {
		return nil, err
	}

	resp, err := client.GetClient().
		R().
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post("/auth/exchange")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var authResp AuthResponse
	if err := json.Unmarshal(resp.Body(), &authResp); err != nil {
		return nil, err
	}

	logger.Debug("Sign-in complete", "email", authResp.Guest.Email)
	return &authResp, nil
}

// GetCurrentGuest gets the signed-in guest's profile
func GetCurrentGuest() (*Guest, error) {
	logger.Debug("Fetching current guest")

	resp, err := client.GetClient().
		R().
		Get("/auth/me")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var guest Guest
	if err := json.Unmarshal(resp.Body(), &guest); err != nil {
		return nil, err
	}

	return &guest, nil
}
