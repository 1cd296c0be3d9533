package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/utils"
)

type fakeRuntime struct {
	input    *bedrockruntime.InvokeModelInput
	response string
	err      error
}

func (f *fakeRuntime) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.response)}, nil
}

func newDrafter(t *testing.T, rt *fakeRuntime, modelID string) *Drafter {
	logger := zaptest.NewLogger(t)
	return NewDrafter(rt,
		config.BedrockConfig{ModelID: modelID, MaxTokens: 300, Temperature: 0.5, TopP: 0.9},
		500,
		utils.NewTextProcessor(logger),
		logger)
}

func TestDraftReplyByModelFamily(t *testing.T) {
	tests := []struct {
		name      string
		modelID   string
		response  string
		checkBody func(t *testing.T, body map[string]interface{})
	}{
		{
			name:     "anthropic messages",
			modelID:  "us.anthropic.claude-3-haiku-20240307-v1:0",
			response: `{"content":[{"type":"text","text":"Happy to join. "},{"type":"text","text":"See you then."}]}`,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, anthropicVersion, body["anthropic_version"])
				messages := body["messages"].([]interface{})
				require.Len(t, messages, 1)
				content := messages[0].(map[string]interface{})["content"].([]interface{})
				assert.Contains(t, content[0].(map[string]interface{})["text"], "Task: accept the meeting")
			},
		},
		{
			name:     "titan",
			modelID:  "amazon.titan-text-express-v1",
			response: `{"results":[{"outputText":"Happy to join. See you then."}]}`,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Contains(t, body["inputText"], "Task: accept the meeting")
				assert.Contains(t, body, "textGenerationConfig")
			},
		},
		{
			name:     "generic",
			modelID:  "meta.llama3-8b-instruct-v1:0",
			response: `{"generation":"Happy to join. See you then."}`,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Contains(t, body["prompt"], "Task: accept the meeting")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &fakeRuntime{response: tt.response}
			d := newDrafter(t, rt, tt.modelID)

			email := &core.Email{From: "bob@company.com", Subject: "Sync", Body: "Let's meet tomorrow."}
			text, err := d.DraftReply(context.Background(), email, "accept the meeting", core.ToneProfile{Style: "concise"})
			require.NoError(t, err)
			assert.Equal(t, "Happy to join. See you then.", text)

			assert.Equal(t, tt.modelID, aws.ToString(rt.input.ModelId))
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rt.input.Body, &body))
			tt.checkBody(t, body)
		})
	}
}

func TestDraftNewErrors(t *testing.T) {
	tests := []struct {
		name string
		rt   *fakeRuntime
	}{
		{"invoke failure", &fakeRuntime{err: errors.New("throttled")}},
		{"malformed body", &fakeRuntime{response: `not json`}},
		{"empty content", &fakeRuntime{response: `{"content":[]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDrafter(t, tt.rt, "anthropic.claude-3-haiku-20240307-v1:0")
			_, err := d.DraftNew(context.Background(), "offsite", core.ToneProfile{Style: "warm"})
			assert.Error(t, err)
		})
	}
}
