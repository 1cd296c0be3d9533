package factory

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/adapters/filter"
	"github.com/mikey/mail-triage/internal/classifier"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/ports"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg        *config.Config
	logger     *zap.Logger
	service    *core.TriageService
	classifier *classifier.Classifier
	detector   *classifier.MeetingDetector
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.TriageService,
	cls *classifier.Classifier,
	detector *classifier.MeetingDetector,
) *FilterFactory {
	return &FilterFactory{
		cfg:        cfg,
		logger:     logger,
		service:    service,
		classifier: cls,
		detector:   detector,
	}
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	sc := f.cfg.GetServer()

	switch sc.FilterType {
	case "postfix":
		return filter.NewPostfixFilter(f.service, sc, f.logger), nil
	case "cli":
		return filter.NewCliFilter(f.service, f.classifier, f.detector, os.Stdout, f.logger, f.cfg.GetBool("cli.verbose")), nil
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", sc.FilterType)
	}
}
