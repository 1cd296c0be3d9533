package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/di"
	"github.com/mikey/mail-triage/internal/drafting"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/workflow"
)

func newComposeCmd(flags *di.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compose",
		Short: "Draft a new email in a chosen tone and send it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return invoke(flags, func(
				cfg *config.Config,
				logger *zap.Logger,
				mf *factory.MailboxFactory,
				composer *drafting.Composer,
				drafter core.ReplyDrafter,
			) error {
				defer closeDrafter(logger, drafter)

				mb, err := mf.CreateMailbox(ctx)
				if err != nil {
					return err
				}
				defer closeMailbox(logger, mb)

				p := workflow.NewProcessor(workflow.Deps{
					Mailer:   mb.Sender,
					Composer: composer,
					Prompter: workflow.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout()),
					Out:      cmd.OutOrStdout(),
					Calendar: cfg.GetCalendar(),
					Logger:   logger,
				})

				_, err = p.Compose(ctx)
				return err
			})
		},
	}
}
