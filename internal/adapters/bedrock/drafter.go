// Package bedrock drafts message bodies with Amazon Bedrock models.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/drafting"
	"github.com/mikey/mail-triage/internal/utils"
)

const anthropicVersion = "bedrock-2023-05-31"

// InvokeModelAPI is the part of the Bedrock runtime client the drafter needs
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Drafter is an implementation of the ReplyDrafter interface using Amazon Bedrock
type Drafter struct {
	client        InvokeModelAPI
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewDrafter creates a new Bedrock drafter
func NewDrafter(
	client InvokeModelAPI,
	cfg config.BedrockConfig,
	maxBodySize int,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *Drafter {
	return &Drafter{
		client:        client,
		modelID:       cfg.ModelID,
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
	return "bedrock"
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
	payload, err := d.requestBody(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := d.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(d.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := d.responseText(resp.Body)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty response from Bedrock model %s", d.modelID)
	}

	d.logger.Debug("Draft generated",
		zap.String("model", d.modelID),
		zap.Int("length", len(text)))
	return text, nil
}

func (d *Drafter) requestBody(prompt string) ([]byte, error) {
	switch {
	case d.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"anthropic_version": anthropicVersion,
			"max_tokens":        d.maxTokens,
			"temperature":       d.temperature,
			"top_p":             d.topP,
			"messages": []map[string]interface{}{
				{
					"role": "user",
					"content": []map[string]string{
						{"type": "text", "text": prompt},
					},
				},
			},
		})
	case d.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": d.maxTokens,
				"temperature":   d.temperature,
				"topP":          d.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  d.maxTokens,
			"temperature": d.temperature,
			"top_p":       d.topP,
		})
	}
}

func (d *Drafter) responseText(body []byte) (string, error) {
	switch {
	case d.isAnthropicModel():
		var claudeResp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		var b strings.Builder
		for _, c := range claudeResp.Content {
			if c.Type == "text" {
				b.WriteString(c.Text)
			}
		}
		return b.String(), nil
	case d.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output     string `json:"output"`
			Text       string `json:"text"`
			Response   string `json:"response"`
			Generation string `json:"generation"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		for _, s := range []string{genericResp.Output, genericResp.Text, genericResp.Response, genericResp.Generation} {
			if s != "" {
				return s, nil
			}
		}
		return "", nil
	}
}

// isAnthropicModel also matches cross-region inference profiles such as us.anthropic.claude-*
func (d *Drafter) isAnthropicModel() bool {
	return strings.Contains(d.modelID, "anthropic.claude")
}

func (d *Drafter) isAmazonTitanModel() bool {
	return strings.HasPrefix(d.modelID, "amazon.titan")
}
