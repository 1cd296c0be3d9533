// Package gemini drafts message bodies with Google Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/drafting"
	"github.com/mikey/mail-triage/internal/utils"
)

var errEmptyResponse = errors.New("empty response from Gemini")

// Drafter is an implementation of the ReplyDrafter interface using Google Gemini
type Drafter struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewDrafter creates a new Gemini drafter
func NewDrafter(
	ctx context.Context,
	cfg config.GeminiConfig,
	maxBodySize int,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) (*Drafter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.ModelName)
	model.SetTemperature(cfg.Temperature)
	model.SetTopP(cfg.TopP)
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}

	return &Drafter{
		client:        client,
		model:         model,
		modelName:     cfg.ModelName,
		maxBodySize:   maxBodySize,
		textProcessor: textProcessor,
		logger:        logger,
	}, nil
}

// Name identifies the drafter
func (d *Drafter) Name() string {
	return "gemini"
}

// Close closes the Gemini client
func (d *Drafter) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

// DraftReply drafts the body of a reply to email
func (d *Drafter) DraftReply(ctx context.Context, email *core.Email, instructions string, profile core.ToneProfile) (string, error) {
	body := d.textProcessor.ProcessText(email.Body, d.maxBodySize)
	return d.generate(ctx, drafting.ReplyPrompt(email, body, instructions, profile))
}

// DraftNew drafts the body of a new message about topic
func (d *Drafter) DraftNew(ctx context.Context, topic string, profile core.ToneProfile) (string, error) {
	return d.generate(ctx, drafting.NewEmailPrompt(topic, profile))
}

func (d *Drafter) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := d.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	d.logger.Debug("Draft generated",
		zap.String("model", d.modelName),
		zap.Int("length", len(text)))
	return text, nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}
