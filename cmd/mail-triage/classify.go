package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/di"
	"github.com/mikey/mail-triage/internal/mime"
	"github.com/mikey/mail-triage/internal/ports"
)

func newClassifyCmd(flags *di.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify one RFC 822 message read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open input file: %w", err)
				}
				defer f.Close()
				in = f
			}

			email, err := mime.Parse(in)
			if err != nil {
				return err
			}

			return invoke(flags, func(logger *zap.Logger, emailFilter ports.EmailFilter, store core.VerdictStore) error {
				defer stopStore(store)

				if email.ID == "" && len(args) == 1 {
					email.ID = args[0]
				}
				logger.Debug("Classifying message", zap.String("message_id", email.ID))
				emailFilter.ProcessEmail(context.Background(), email)
				return nil
			})
		},
	}
}
