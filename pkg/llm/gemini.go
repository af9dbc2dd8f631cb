package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiDefaultModel = "gemini-3-flash-preview"

// GeminiProvider implements the Provider interface using the Gemini SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider.
// Returns nil if no API key is configured or the client cannot be created.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = geminiDefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Models returns available model identifiers.
func (p *GeminiProvider) Models() []string {
	return []string{p.model}
}

// Complete generates a completion.
func (p *GeminiProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if p == nil || p.client == nil {
		return nil, &ProviderError{Provider: "gemini", Code: "not_configured", Message: "API key not set"}
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.TopP > 0 {
		config.TopP = genai.Ptr(float32(req.TopP))
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONOutput {
		config.ResponseMIMEType = "application/json"
	}
	if len(req.StopSequences) > 0 {
		config.StopSequences = req.StopSequences
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}

	result, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 {
		return nil, &ProviderError{Provider: "gemini", Code: "empty_response", Message: "no candidates in response"}
	}

	// Extract text from response parts
	var text string
	if result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" {
				text += part.Text
			}
		}
	}

	if text == "" {
		return nil, &ProviderError{Provider: "gemini", Code: "empty_response", Message: "no text in response"}
	}

	resp := &CompletionResponse{
		Model:        model,
		Content:      text,
		FinishReason: "stop",
	}
	if result.UsageMetadata != nil {
		resp.Usage = TokenUsage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return resp, nil
}

// IsAvailable reports whether the provider is configured.
func (p *GeminiProvider) IsAvailable() bool {
	return p != nil && p.client != nil
}
