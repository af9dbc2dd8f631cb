package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/planr/pkg/llm"
)

// ErrBlankGoal is returned when a request has no goal after trimming.
var ErrBlankGoal = errors.New("goal is required")

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 2000
)

// GenerationError carries the failure payload sent to clients when the
// model call or response parsing fails.
type GenerationError struct {
	Message string
	Details string
	Raw     string
}

func (e *GenerationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Payload converts the error into its wire form.
func (e *GenerationError) Payload() *Error {
	return &Error{
		Error:       e.Message,
		Details:     e.Details,
		RawResponse: e.Raw,
	}
}

// Generator turns plan requests into validated plans via an LLM provider.
// Model and prompts may be swapped at runtime (config hot-reload), so reads
// and writes go through a lock.
type Generator struct {
	mu          sync.RWMutex
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
	prompts     PromptSet
	now         func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) { g.temperature = t }
}

// WithMaxTokens bounds the completion length.
func WithMaxTokens(n int) Option {
	return func(g *Generator) { g.maxTokens = n }
}

// WithPrompts replaces the default prompt set.
func WithPrompts(p PromptSet) Option {
	return func(g *Generator) { g.prompts = p }
}

// WithClock overrides the generatedAt clock. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a generator backed by the given provider and model.
func NewGenerator(provider llm.Provider, model string, opts ...Option) *Generator {
	g := &Generator{
		provider:    provider,
		model:       model,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
		prompts:     DefaultPrompts(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Model returns the configured model identifier.
func (g *Generator) Model() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.model
}

// SetModel changes the model used for subsequent generations.
func (g *Generator) SetModel(model string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.model = model
}

// SetPrompts replaces the prompt set used for subsequent generations.
func (g *Generator) SetPrompts(p PromptSet) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = p
}

// Generate produces a validated plan for the request. A blank goal fails
// before any provider call. Model and parse failures return a
// *GenerationError so callers can relay the wire payload.
func (g *Generator) Generate(ctx context.Context, req *Request) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	model := g.model
	prompts := g.prompts
	g.mu.RUnlock()

	resp, err := g.provider.Complete(ctx, &llm.CompletionRequest{
		Model:       model,
		System:      prompts.System,
		Messages:    []llm.Message{llm.UserMessage(prompts.UserPrompt(req))},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		JSONOutput:  true,
	})
	if err != nil {
		return nil, &GenerationError{
			Message: "Failed to generate plan",
			Details: err.Error(),
		}
	}

	raw := extractJSON(resp.Content)

	var parsed Plan
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &GenerationError{
			Message: "Failed to parse LLM response as JSON",
			Details: err.Error(),
			Raw:     resp.Content,
		}
	}

	if resp.Model != "" {
		model = resp.Model
	}
	g.validateAndEnhance(&parsed, req, model)

	return &parsed, nil
}

// validateAndEnhance fills missing fields, prunes dangling dependencies,
// normalizes risk severities and stamps metadata including the cycle flag.
func (g *Generator) validateAndEnhance(p *Plan, req *Request, model string) {
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
	if p.Dependencies == nil {
		p.Dependencies = []Dependency{}
	}
	if p.Assumptions == nil {
		p.Assumptions = []string{}
	}
	if p.Risks == nil {
		p.Risks = []Risk{}
	}
	if p.Reasoning == "" {
		p.Reasoning = "Plan generated automatically"
	}

	p.Dependencies = pruneDependencies(p.Tasks, p.Dependencies)

	for i := range p.Risks {
		p.Risks[i].Severity = NormalizeSeverity(p.Risks[i].Severity)
	}

	p.Meta = Meta{
		Goal:        req.Goal,
		Deadline:    req.Deadline,
		Model:       model,
		GeneratedAt: g.now().UTC(),
		HasCycle:    HasCycle(p.Tasks, p.Dependencies),
	}
}

// extractJSON strips markdown fences and surrounding prose, returning the
// outermost JSON object in the text. Models occasionally wrap their output
// despite the JSON-only instruction.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
