package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mikey/mail-triage/internal/tone"
)

func newToneCmd() *cobra.Command {
	var (
		recipient string
		formality float64
	)

	cmd := &cobra.Command{
		Use:   "tone",
		Short: "Show the tone profile for a recipient type and formality",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := tone.Resolve(tone.ParseRecipientType(recipient), formality)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Greeting: %s\n", profile.Greeting)
			fmt.Fprintf(out, "Sign-off: %s\n", profile.Signoff)
			fmt.Fprintf(out, "Style: %s\n", profile.Style)
			return nil
		},
	}

	cmd.Flags().StringVarP(&recipient, "recipient", "r", "colleague", "Recipient type ("+tone.MenuText()+")")
	cmd.Flags().Float64VarP(&formality, "formality", "f", 0.5, "Formality between 0 (casual) and 1 (formal)")
	return cmd
}
