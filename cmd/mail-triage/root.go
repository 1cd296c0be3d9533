package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/di"
	"github.com/mikey/mail-triage/internal/factory"
)

func newRootCmd() *cobra.Command {
	flags := &di.CLIFlags{}

	cmd := &cobra.Command{
		Use:   "mail-triage",
		Short: "Classify email, detect meeting requests and draft replies",
		Long: `mail-triage sorts email into SPAM, PROFESSIONAL and PERSONAL using keyword
scoring with a sender-domain bonus, and flags messages that ask for a meeting.

It can classify a single RFC 822 message, walk an unread Gmail or IMAP inbox offering to
book meetings and send replies, or compose a new message in a chosen tone.`,
		Version:      version,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	pf.StringVar(&flags.Provider, "provider", "", "Drafter provider (template, gemini, openai, bedrock)")
	pf.BoolVar(&flags.NoStore, "no-store", false, "Disable the verdict store")

	cmd.AddCommand(newClassifyCmd(flags))
	cmd.AddCommand(newProcessCmd(flags))
	cmd.AddCommand(newComposeCmd(flags))
	cmd.AddCommand(newToneCmd())
	cmd.AddCommand(newAuthCmd(flags))

	return cmd
}

// invoke builds the CLI container and runs fn with its dependencies injected
func invoke(flags *di.CLIFlags, fn interface{}) error {
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	err = container.Invoke(fn)

	_ = container.Invoke(func(logger *zap.Logger) {
		_ = logger.Sync()
	})
	return err
}

// stopStore releases a store built for commands that triage
func stopStore(store core.VerdictStore) {
	if stopper, ok := store.(factory.Stopper); ok {
		stopper.Stop()
	}
}

// closeDrafter releases provider clients that hold connections
func closeDrafter(logger *zap.Logger, drafter core.ReplyDrafter) {
	if closer, ok := drafter.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close drafter", zap.Error(err))
		}
	}
}

func closeMailbox(logger *zap.Logger, mb *factory.Mailbox) {
	if err := mb.Close(); err != nil {
		logger.Warn("Failed to close mailbox", zap.Error(err))
	}
}
