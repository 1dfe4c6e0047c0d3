// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing the session.
// Remote invalidation is best-effort; local teardown always happens even when
// the backend is unreachable.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the saved session",
	Long: `The logout command clears the session from the local system, including the
stored token and any cached responses. It also attempts to invalidate the
session on the backend, but local cleanup succeeds regardless of whether the
server can be reached.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		// Best effort remotely, unconditional locally.
		a.auth.Logout(cmd.Context())

		fmt.Println("✅ You have been signed out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
