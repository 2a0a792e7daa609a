package cmd

import (
	"errors"
	"fmt"

	"github.com/bloomday/gala/internal/cli/api"
	"github.com/bloomday/gala/internal/cli/prompter"
	"github.com/bloomday/gala/internal/cli/session"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Request a sign-in link by email",
	Long: `Request a single-use sign-in link. If your address is on the
guest list, the link arrives by email; run "gala complete" with it
to finish signing in.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Begin(args[0]); err != nil {
			return err
		}
		color.Green("Check your inbox! If %s is on the guest list, a sign-in link is on its way.", args[0])
		fmt.Println(`Then run: gala complete "<link from the email>"`)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <link>",
	Short: "Finish signing in with an emailed link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := session.Complete(args[0], "")
		if errors.Is(err, session.ErrEmailRequired) {
			// The link alone cannot prove who opened it
			email, perr := prompter.PromptString("Confirm your email address: ")
			if perr != nil {
				return perr
			}
			creds, err = session.Complete(args[0], email)
		}
		if err != nil {
			if api.IsUnauthorized(err) {
				return fmt.Errorf("sign-in failed: %w", err)
			}
			return err
		}

		name := creds.DisplayName
		if name == "" {
			name = creds.Email
		}
		color.Green("Welcome to the gallery, %s!", name)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in guest",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		guest, err := api.GetCurrentGuest()
		if err != nil {
			return err
		}

		fmt.Printf("%s <%s>\n", guest.DisplayName, guest.Email)
		if guest.IsHost {
			color.Yellow("host")
		}
		fmt.Printf("photos shared: %d\n", guest.UploadCount)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.SignOut(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

// requireSession restores the saved session or explains how to get one
func requireSession() error {
	_, state, err := session.Current()
	if err != nil {
		return err
	}
	switch state {
	case session.SignedIn:
		return nil
	case session.AwaitingLink:
		return errors.New(`sign-in is not finished; run: gala complete "<link from the email>"`)
	default:
		return errors.New("not signed in; run: gala login <email>")
	}
}
