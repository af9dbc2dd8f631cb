package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider implements Provider for testing
type mockProvider struct {
	name      string
	models    []string
	resp      *CompletionResponse
	err       error
	available bool
	calls     int
}

func (m *mockProvider) Name() string     { return m.name }
func (m *mockProvider) Models() []string { return m.models }
func (m *mockProvider) IsAvailable() bool {
	return m.available
}

func (m *mockProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func TestRouter_ActivePreferred(t *testing.T) {
	ollama := &mockProvider{name: "ollama", available: true}
	gemini := &mockProvider{name: "gemini", available: true}

	r := NewRouter(ollama, gemini).SetActive("gemini")

	require.NotNil(t, r.Active())
	assert.Equal(t, "gemini", r.Active().Name())
	assert.Equal(t, "gemini", r.ActiveName())
}

func TestRouter_FallbackToAvailable(t *testing.T) {
	ollama := &mockProvider{name: "ollama", available: true}

	// Preferred provider is not registered
	r := NewRouter(ollama).SetActive("gemini")

	require.NotNil(t, r.Active())
	assert.Equal(t, "ollama", r.Active().Name())
}

func TestRouter_DefaultsToFirst(t *testing.T) {
	ollama := &mockProvider{name: "ollama", available: true}
	gemini := &mockProvider{name: "gemini", available: true}

	r := NewRouter(ollama, gemini)

	assert.Equal(t, "ollama", r.ActiveName())
}

func TestRouter_SkipsNilProviders(t *testing.T) {
	ollama := &mockProvider{name: "ollama", available: true}

	r := NewRouter(nil, ollama, nil)

	assert.Len(t, r.Providers(), 1)
	assert.Equal(t, "ollama", r.ActiveName())
}

func TestRouter_CompleteRoutesToActive(t *testing.T) {
	ollama := &mockProvider{name: "ollama", available: true, err: errors.New("should not be called")}
	gemini := &mockProvider{
		name:      "gemini",
		available: true,
		resp:      &CompletionResponse{Content: "hello"},
	}

	r := NewRouter(ollama, gemini).SetActive("gemini")

	resp, err := r.Complete(context.Background(), &CompletionRequest{
		Model:    "gemini-3-flash-preview",
		Messages: []Message{UserMessage("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, 1, gemini.calls)
	assert.Zero(t, ollama.calls)
}

func TestRouter_NoProvider(t *testing.T) {
	r := NewRouter()

	_, err := r.Complete(context.Background(), &CompletionRequest{Model: "x"})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "no_provider", provErr.Code)
	assert.False(t, r.IsAvailable())
}

func TestRouter_ModelsFromActive(t *testing.T) {
	ollama := &mockProvider{name: "ollama", available: true, models: []string{"llama3:latest", "mistral"}}

	r := NewRouter(ollama)

	assert.Equal(t, []string{"llama3:latest", "mistral"}, r.Models())
}
