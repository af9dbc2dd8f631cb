// Package llm provides LLM provider abstraction for multiple backends.
package llm

import (
	"context"
	"fmt"
)

// Provider defines the interface for LLM backends.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Models returns available model identifiers.
	Models() []string

	// Complete generates a completion.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// IsAvailable reports whether the backend is reachable.
	IsAvailable() bool
}

// CompletionRequest is a request to generate a completion.
type CompletionRequest struct {
	// Model is the model identifier.
	Model string `json:"model"`

	// Messages is the conversation history.
	Messages []Message `json:"messages"`

	// System is the system prompt.
	System string `json:"system,omitempty"`

	// MaxTokens limits the response length.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0-1).
	Temperature float64 `json:"temperature,omitempty"`

	// TopP is nucleus sampling parameter.
	TopP float64 `json:"top_p,omitempty"`

	// StopSequences are strings that stop generation.
	StopSequences []string `json:"stop_sequences,omitempty"`

	// JSONOutput requests structured JSON output from backends that
	// support constrained decoding.
	JSONOutput bool `json:"json_output,omitempty"`
}

// CompletionResponse is the response from a completion request.
type CompletionResponse struct {
	// Model is the model that generated the response.
	Model string `json:"model"`

	// Content is the text response.
	Content string `json:"content"`

	// FinishReason indicates why generation stopped.
	// Values: "stop", "max_tokens".
	FinishReason string `json:"finish_reason"`

	// Usage contains token counts.
	Usage TokenUsage `json:"usage"`
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	// PromptTokens is input token count.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is output token count.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the sum.
	TotalTokens int `json:"total_tokens"`
}

// Message represents a conversation message.
type Message struct {
	// Role is the message role.
	// Values: "user", "assistant", "system".
	Role string `json:"role"`

	// Content is the message content.
	Content string `json:"content"`
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// ProviderError represents a provider-specific error.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.Provider, e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Code)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// EstimateTokens provides a rough token estimate for text.
// This is approximately 4 characters per token for English text.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
