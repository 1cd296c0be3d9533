package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/di"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/workflow"
)

func newAuthCmd(flags *di.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Gmail and Google Calendar",
		Long: `Prints the Google consent URL, reads the authorization code and stores the
resulting token in google.token_file for later runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(flags, func(logger *zap.Logger, gf *factory.GoogleFactory) error {
				auth, err := gf.CreateAuthenticator()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Open this URL in your browser and authorize access:\n\n%s\n\n", auth.AuthURL())

				console := workflow.NewConsole(cmd.InOrStdin(), out)
				code := console.Ask("Authorization code")
				if code == "" {
					return fmt.Errorf("no authorization code entered")
				}

				if err := auth.Exchange(cmd.Context(), code); err != nil {
					return err
				}
				logger.Info("Authorization complete")
				fmt.Fprintln(out, "Authorization complete.")
				return nil
			})
		},
	}
}
