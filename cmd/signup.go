// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// signupCmd represents the signup command for creating a new account.
// A successful signup also establishes a session, so there is no separate
// login step afterwards.
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new Orbit account",
	Long: `The signup command creates a new Orbit account from your email address and a
password. On success you are signed in immediately; the session token is
stored securely and reused by subsequent commands.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp()
		if err != nil {
			return err
		}

		if a.store.Authenticated() {
			fmt.Println("You are already logged in. Run 'orbit logout' first to create a new account.")
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
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}

		// Caught locally; validation failures never reach the network.
		if !validEmail(email) || password == "" {
			pterm.Println("❌ Please enter your email address and a password.")
			return errors.New("email and password are required")
		}
		if password != confirm {
			pterm.Println("❌ Passwords do not match.")
			return errors.New("passwords do not match")
		}

		spinner, _ := pterm.DefaultSpinner.Start("Creating your account")
		err = a.auth.Signup(ctx, email, password)
		if err != nil {
			spinner.Fail("Signup failed")
			showFormError(err, "creating your account")
			return err
		}
		spinner.Success("Account created")

		a.auth.FetchUser(ctx)
		showWelcome(a)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
}
