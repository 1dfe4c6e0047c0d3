// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// forgotPasswordCmd requests a password-reset email. It never touches the
// session: a reset request while logged in leaves the session intact.
var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Request a password reset email",
	Long: `The forgot-password command asks the Orbit service to send a password reset
link to your email address. It does not change your local session state.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		email, err := promptLine("Email: ")
		if err != nil {
			return err
		}
		if !validEmail(email) {
			pterm.Println("❌ Please enter a valid email address.")
			return errors.New("email is required")
		}

		spinner, _ := pterm.DefaultSpinner.Start("Requesting password reset")
		err = a.auth.ForgotPassword(cmd.Context(), email)
		if err != nil {
			spinner.Fail("Request failed")
			showFormError(err, "requesting a password reset")
			return err
		}
		spinner.Success("Request sent")

		pterm.Println("📬 If an account exists for that address, a reset link is on its way.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(forgotPasswordCmd)
}
