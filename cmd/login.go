// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"orbit/cli/internal/api"
	"orbit/cli/internal/httperrors"
)

// loginCmd represents the login command for password authentication.
// It prompts for credentials, exchanges them for a session token and stores
// the token securely for subsequent commands.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in to your Orbit account",
	Long: `The login command prompts for your email and password and signs you in to the
Orbit service. On success the session token is stored securely (OS keychain
where available) and reused by subsequent commands until you log out.

If you are already logged in with a valid session, the command is a no-op.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp()
		if err != nil {
			return err
		}

		if reportExistingSession(ctx, a) {
			return nil
		}

		email, err := promptLine("Email: ")
		if err != nil {
			return err
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		// Caught locally; validation failures never reach the network.
		if !validEmail(email) || password == "" {
			pterm.Println("❌ Please enter your email address and password.")
			return errors.New("email and password are required")
		}

		spinner, _ := pterm.DefaultSpinner.Start("Signing in")
		err = a.auth.Login(ctx, email, password)
		if err != nil {
			spinner.Fail("Sign in failed")
			showFormError(err, "signing in")
			return err
		}
		spinner.Success("Signed in")

		a.auth.FetchUser(ctx)
		showWelcome(a)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// reportExistingSession verifies a stored session against the server and
// reports it when still valid. If the token turned out stale, the 401 from
// the profile fetch tears the session down through the auth-lost handler, and
// the false return sends the caller on to the credential prompt.
func reportExistingSession(ctx context.Context, a *app) bool {
	if !a.store.Authenticated() {
		return false
	}
	a.auth.FetchUser(ctx)
	if !a.store.Authenticated() {
		return false
	}
	if user := a.store.User(); user != nil {
		fmt.Printf("Already logged in as %s\n", user.DisplayName())
	} else {
		fmt.Println("Already logged in")
	}
	return true
}

// showFormError renders an action failure the way a form would: field errors
// inline, everything else as a single banner line.
func showFormError(err error, context string) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		_ = httperrors.FormatNetworkError(err, context)
		return
	}

	pterm.Println("❌ " + apiErr.Message)
	for field, msgs := range apiErr.Fields {
		for _, msg := range msgs {
			pterm.Printf("   %s: %s\n", field, msg)
		}
	}
}

// showWelcome prints the post-login greeting using whatever profile data the
// fetch managed to populate.
func showWelcome(a *app) {
	if user := a.store.User(); user != nil {
		fmt.Printf("👋 Welcome back, %s!\n", user.DisplayName())
		return
	}
	fmt.Println("✅ Login successful!")
}
