package llm

import (
	"context"
	"sync"
)

// Router selects among registered providers by name, falling back to the
// first available backend when the preferred one is unreachable.
type Router struct {
	mu        sync.RWMutex
	providers []Provider
	active    string
}

// NewRouter creates a router over the given providers. Nil providers are
// skipped so callers can pass optional backends unconditionally.
func NewRouter(providers ...Provider) *Router {
	r := &Router{}
	for _, p := range providers {
		if p != nil {
			r.providers = append(r.providers, p)
		}
	}
	if len(r.providers) > 0 {
		r.active = r.providers[0].Name()
	}
	return r
}

// SetActive sets the preferred provider by name.
func (r *Router) SetActive(name string) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = name
	return r
}

// ActiveName returns the preferred provider name.
func (r *Router) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Active returns the preferred provider if registered, otherwise the first
// available provider, otherwise nil.
func (r *Router) Active() Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.Name() == r.active {
			return p
		}
	}
	for _, p := range r.providers {
		if p.IsAvailable() {
			return p
		}
	}
	return nil
}

// Providers returns all registered providers.
func (r *Router) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Provider, len(r.providers))
	copy(result, r.providers)
	return result
}

// Name returns the router name.
func (r *Router) Name() string {
	if p := r.Active(); p != nil {
		return "router:" + p.Name()
	}
	return "router"
}

// Models returns the active provider's models.
func (r *Router) Models() []string {
	if p := r.Active(); p != nil {
		return p.Models()
	}
	return nil
}

// Complete generates a completion using the active provider.
func (r *Router) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	p := r.Active()
	if p == nil {
		return nil, &ProviderError{Provider: "router", Code: "no_provider", Message: "no LLM provider available"}
	}
	return p.Complete(ctx, req)
}

// IsAvailable reports whether any provider is reachable.
func (r *Router) IsAvailable() bool {
	for _, p := range r.Providers() {
		if p.IsAvailable() {
			return true
		}
	}
	return false
}
