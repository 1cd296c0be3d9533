// Package openai drafts message bodies with the OpenAI chat API.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/drafting"
	"github.com/mikey/mail-triage/internal/utils"
)

const systemPrompt = "You are an email assistant. Reply with the email body text only."

// Drafter is an implementation of the ReplyDrafter interface using OpenAI
type Drafter struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewDrafter creates a new OpenAI drafter around client
func NewDrafter(
	client *openai.Client,
	cfg config.OpenAIConfig,
	maxBodySize int,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *Drafter {
	return &Drafter{
		client:        client,
		modelName:     cfg.ModelName,
		maxTokens:     cfg.MaxTokens,
		temperature:   cfg.Temperature,
		topP:          cfg.TopP,
		maxBodySize:   maxBodySize,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Name identifies the drafter
func (d *Drafter) Name() string {
	return "openai"
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
	req := openai.ChatCompletionRequest{
		Model: d.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   d.maxTokens,
		Temperature: d.temperature,
		TopP:        d.topP,
	}

	resp, err := d.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	d.logger.Debug("Draft generated",
		zap.String("model", d.modelName),
		zap.String("processing_id", resp.ID),
		zap.Int("length", len(text)))
	return text, nil
}
