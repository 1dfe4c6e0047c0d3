package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"orbit/cli/internal/logging"
)

// whoamiCmd represents the whoami command for displaying the current session.
// It refreshes the profile from the backend when possible and falls back to
// the locally stored session otherwise.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently signed-in account",
	Long: `The whoami command displays information about the currently authenticated
account. It refreshes the profile from the backend when the service is
reachable and falls back to the locally stored session when it is not.

If no session exists, it will indicate that you are not logged in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.requireLogin(cmd.Context()) {
			return nil
		}

		a.auth.FetchUser(cmd.Context())
		user, _, fetchErr := a.store.UserState()
		if user != nil {
			fmt.Printf("👤 Current user: %s\n", user.DisplayName())
			return nil
		}

		// Offline or failing backend; the token itself is still our session.
		if fetchErr != nil {
			fmt.Println("👤 You are logged in, but the profile could not be refreshed.")
			pterm.Debug.Println(logging.PresentError("profile refresh", fetchErr))
			return nil
		}
		fmt.Println("👤 You are logged in.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
