package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicProvider_NilWithoutKey(t *testing.T) {
	assert.Nil(t, NewAnthropicProvider(""))
}

func TestAnthropicRequestConversion(t *testing.T) {
	p := NewAnthropicProvider("test-key")

	req := p.toAnthropicRequest(&CompletionRequest{
		Model:       "claude-sonnet-4-20250514",
		System:      "You are a planner",
		Messages:    []Message{SystemMessage("ignored"), UserMessage("Goal: launch")},
		Temperature: 0.3,
		MaxTokens:   2000,
	})

	assert.Equal(t, "You are a planner", req.System)
	assert.Equal(t, 2000, req.MaxTokens)

	// System messages ride the top-level field, not the message list
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
}

func TestAnthropicRequestConversion_DefaultMaxTokens(t *testing.T) {
	p := NewAnthropicProvider("test-key")

	req := p.toAnthropicRequest(&CompletionRequest{Model: "claude-sonnet-4-20250514"})
	assert.Equal(t, 4096, req.MaxTokens)
}

func TestAnthropicResponseConversion(t *testing.T) {
	p := NewAnthropicProvider("test-key")

	resp := p.fromAnthropicResponse(&anthropicResponse{
		Model: "claude-sonnet-4-20250514",
		Content: []anthropicContentBlock{
			{Type: "text", Text: `{"tasks":`},
			{Type: "text", Text: `[]}`},
		},
		StopReason: "end_turn",
		Usage:      anthropicUsage{InputTokens: 10, OutputTokens: 5},
	})

	assert.Equal(t, `{"tasks":[]}`, resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestAnthropicParseError(t *testing.T) {
	p := NewAnthropicProvider("test-key")

	err := p.parseError(401, []byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "authentication_error", provErr.Code)
	assert.Equal(t, "invalid x-api-key", provErr.Message)
}
