package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/di"
	"github.com/mikey/mail-triage/internal/drafting"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/workflow"
)

func newProcessCmd(flags *di.CLIFlags) *cobra.Command {
	var maxResults int64

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Triage unread messages and offer meetings and replies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return invoke(flags, func(
				cfg *config.Config,
				logger *zap.Logger,
				mf *factory.MailboxFactory,
				service *core.TriageService,
				composer *drafting.Composer,
				drafter core.ReplyDrafter,
				store core.VerdictStore,
			) error {
				defer closeDrafter(logger, drafter)
				defer stopStore(store)

				mb, err := mf.CreateMailbox(ctx)
				if err != nil {
					return err
				}
				defer closeMailbox(logger, mb)

				if maxResults <= 0 {
					maxResults = cfg.GetGoogle().MaxResults
				}

				p := workflow.NewProcessor(workflow.Deps{
					Source:     mb.Source,
					Mailer:     mb.Sender,
					Scheduler:  mb.Scheduler,
					Triage:     service,
					Composer:   composer,
					Prompter:   workflow.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout()),
					Out:        cmd.OutOrStdout(),
					Calendar:   cfg.GetCalendar(),
					MaxResults: maxResults,
					Logger:     logger,
				})

				_, summary, err := p.ProcessInbox(ctx)
				if err != nil {
					return err
				}
				logger.Info("Inbox processed",
					zap.Int("personal", summary.Personal),
					zap.Int("professional", summary.Professional),
					zap.Int("spam", summary.Spam),
					zap.Int("meetings", summary.Meetings))
				return nil
			})
		},
	}

	cmd.Flags().Int64VarP(&maxResults, "max", "n", 0, "Maximum number of unread messages to process")
	return cmd
}
