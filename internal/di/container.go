package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/classifier"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/drafting"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/logging"
	"github.com/mikey/mail-triage/internal/metrics"
	"github.com/mikey/mail-triage/internal/ports"
	"github.com/mikey/mail-triage/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideComponents(container); err != nil {
		return nil, err
	}

	// Register metrics server
	if err := container.Provide(func(cfg *config.Config, recorder *metrics.Recorder, logger *zap.Logger) *metrics.Server {
		return metrics.NewServer(cfg.GetString("metrics.listen_address"), recorder, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideComponents registers everything built from a *config.Config and a *zap.Logger
func provideComponents(container *dig.Container) error {
	// Register text processor and metrics
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}
	if err := container.Provide(metrics.NewRecorder); err != nil {
		return err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewDrafterFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewGoogleFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewMailboxFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return err
	}

	// Register classifier and meeting detector
	if err := container.Provide(func(f *factory.ClassifierFactory) *classifier.Classifier {
		return f.CreateClassifier()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ClassifierFactory) *classifier.MeetingDetector {
		return f.CreateMeetingDetector()
	}); err != nil {
		return err
	}

	// Register verdict store, nil when disabled
	if err := container.Provide(func(f *factory.StoreFactory) (core.VerdictStore, error) {
		return f.CreateVerdictStore()
	}); err != nil {
		return err
	}

	// Register triage service
	if err := container.Provide(func(
		f *factory.StoreFactory,
		cls *classifier.Classifier,
		detector *classifier.MeetingDetector,
		store core.VerdictStore,
		recorder *metrics.Recorder,
		logger *zap.Logger,
	) (*core.TriageService, error) {
		opts, err := f.TriageOptions(recorder)
		if err != nil {
			return nil, err
		}
		return core.NewTriageService(cls, detector, store, logger, opts), nil
	}); err != nil {
		return err
	}

	// Register reply drafter, nil for the template provider
	if err := container.Provide(func(f *factory.DrafterFactory) (core.ReplyDrafter, error) {
		return f.CreateDrafter(context.Background())
	}); err != nil {
		return err
	}

	// Register composer
	if err := container.Provide(func(drafter core.ReplyDrafter, recorder *metrics.Recorder, logger *zap.Logger) *drafting.Composer {
		return drafting.NewComposer(drafter, logger, recorder)
	}); err != nil {
		return err
	}

	// Register email filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return err
	}

	return nil
}
