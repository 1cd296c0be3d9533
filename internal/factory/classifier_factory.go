package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/classifier"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/keywords"
	"github.com/mikey/mail-triage/internal/sender"
)

// ClassifierFactory builds the keyword classifier and meeting detector from configuration
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates a classifier. Empty keyword lists keep the built-in sets.
func (f *ClassifierFactory) CreateClassifier() *classifier.Classifier {
	cc := f.cfg.GetClassifier()

	c := classifier.New(classifier.Options{
		Spam:          phraseSet(keywords.SpamSet, cc.SpamKeywords),
		Professional:  phraseSet(keywords.ProfessionalSet, cc.ProfessionalKeywords),
		Personal:      phraseSet(keywords.PersonalSet, cc.PersonalKeywords),
		Domain:        sender.NewHeuristic(cc.InstitutionalSuffixes, cc.DomainBonus, f.logger),
		SpamThreshold: cc.SpamThreshold,
	})

	f.logger.Debug("Classifier created",
		zap.Int("spam_threshold", cc.SpamThreshold),
		zap.Int("domain_bonus", cc.DomainBonus),
		zap.Strings("institutional_suffixes", cc.InstitutionalSuffixes))
	return c
}

// CreateMeetingDetector creates the meeting intent detector
func (f *ClassifierFactory) CreateMeetingDetector() *classifier.MeetingDetector {
	cc := f.cfg.GetClassifier()
	return classifier.NewMeetingDetector(phraseSet(keywords.MeetingSet, cc.MeetingKeywords))
}

func phraseSet(name string, phrases []string) *keywords.Set {
	if len(phrases) == 0 {
		return nil
	}
	return keywords.FromPhrases(name, phrases)
}
