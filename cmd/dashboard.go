// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"orbit/cli/internal/api"
	"orbit/cli/internal/session"
)

var dashboardLang string

// dashboardCmd renders the account dashboard. It sits behind the session
// guard: without a token it prints the login redirect instead of rendering.
// Profile data is read through the fetch cache, so repeated invocations in
// scripts reuse the cached response.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your Orbit dashboard",
	Long: `The dashboard command shows an overview of your Orbit account. It requires an
active session; run 'orbit login' first if you are not signed in.

Labels are localized. Use --lang to override the configured language.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.requireLogin(cmd.Context()) {
			return nil
		}

		lang := dashboardLang
		if lang == "" {
			lang = a.cfg.Language
		}

		var profile session.Profile
		spinner, _ := pterm.DefaultSpinner.Start("Loading dashboard")
		if err := a.cache.GetJSON(ctx, api.PathUser, &profile); err != nil {
			spinner.Fail("Could not load dashboard")
			showFormError(err, "loading your dashboard")
			return err
		}
		spinner.Stop()

		renderDashboard(ctx, a, lang, &profile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().StringVar(&dashboardLang, "lang", "", "Language for dashboard labels (e.g. en, de)")
}

// renderDashboard prints the profile box with localized labels. Missing
// translations degrade to the translation keys rather than failing.
func renderDashboard(ctx context.Context, a *app, lang string, p *session.Profile) {
	title := a.locales.T(ctx, lang, "dashboard", "title")
	labelEmail := a.locales.T(ctx, lang, "dashboard", "labels.email")
	labelName := a.locales.T(ctx, lang, "dashboard", "labels.name")

	body := fmt.Sprintf("%s  %s\n%s  %s", labelName, p.DisplayName(), labelEmail, p.Email)
	pterm.DefaultBox.
		WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(title)).
		Println(body)
	pterm.Println()
}
