package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/adapters/bedrock"
	"github.com/mikey/mail-triage/internal/adapters/gemini"
	"github.com/mikey/mail-triage/internal/adapters/openai"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/utils"
)

// DrafterFactory creates reply drafters
type DrafterFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewDrafterFactory creates a new drafter factory
func NewDrafterFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *DrafterFactory {
	return &DrafterFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateDrafter creates the configured drafter. The "template" provider returns
// nil, leaving the composer on its canned bodies.
func (f *DrafterFactory) CreateDrafter(ctx context.Context) (core.ReplyDrafter, error) {
	dc := f.cfg.GetDrafter()

	switch dc.Provider {
	case "", "template":
		return nil, nil
	case "gemini":
		return f.createGemini(ctx, dc.MaxBodySize)
	case "openai":
		return f.createOpenAI(dc.MaxBodySize)
	case "bedrock":
		return f.createBedrock(ctx, dc.MaxBodySize)
	default:
		return nil, fmt.Errorf("unsupported drafter provider: %s", dc.Provider)
	}
}

func (f *DrafterFactory) createGemini(ctx context.Context, maxBodySize int) (core.ReplyDrafter, error) {
	gc := f.cfg.GetGemini()
	if gc.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	d, err := gemini.NewDrafter(ctx, gc, maxBodySize, f.textProcessor, f.logger)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (f *DrafterFactory) createOpenAI(maxBodySize int) (core.ReplyDrafter, error) {
	oc := f.cfg.GetOpenAI()
	if oc.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return openai.NewDrafter(goopenai.NewClient(oc.APIKey), oc, maxBodySize, f.textProcessor, f.logger), nil
}

func (f *DrafterFactory) createBedrock(ctx context.Context, maxBodySize int) (core.ReplyDrafter, error) {
	bc := f.cfg.GetBedrock()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(bc.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return bedrock.NewDrafter(bedrockruntime.NewFromConfig(awsCfg), bc, maxBodySize, f.textProcessor, f.logger), nil
}
