// Package plan defines the plan exchange schema and the generation pipeline
// that turns a natural-language goal into a structured task plan.
package plan

import (
	"strings"
	"time"
)

// Severity levels for risks.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Request is a plan generation request.
type Request struct {
	// Goal is the natural-language goal. Must be non-blank.
	Goal string `json:"goal"`

	// Deadline is an optional deadline or timebox ("2 weeks", "2026-09-30").
	Deadline string `json:"deadline,omitempty"`

	// Constraints are optional free-form constraint tokens.
	Constraints []string `json:"constraints,omitempty"`
}

// Plan is the structured task breakdown returned by the generator.
type Plan struct {
	Meta         Meta         `json:"meta"`
	Tasks        []Task       `json:"tasks"`
	Dependencies []Dependency `json:"dependencies"`
	Assumptions  []string     `json:"assumptions"`
	Risks        []Risk       `json:"risks"`
	Reasoning    string       `json:"reasoning,omitempty"`
}

// Meta carries plan-level metadata stamped at generation time.
type Meta struct {
	Goal        string    `json:"goal"`
	Deadline    string    `json:"deadline,omitempty"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
	HasCycle    bool      `json:"hasCycle"`
}

// Task is a single actionable unit within a plan.
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	// EstimateDays may be fractional (0.5 for half a day). Nil means the
	// model gave no estimate.
	EstimateDays *float64 `json:"estimateDays,omitempty"`
}

// Dependency is a directed precedence edge: From must complete before To.
type Dependency struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Risk is a severity-tagged concern with an optional mitigation.
type Risk struct {
	Title      string `json:"title"`
	Severity   string `json:"severity,omitempty"`
	Mitigation string `json:"mitigation,omitempty"`
}

// Error is the payload returned when generation fails. It travels in place
// of a Plan on the wire.
type Error struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`

	// RawResponse holds the unparseable model output, if any.
	RawResponse string `json:"raw_response,omitempty"`
}

// NormalizeSeverity maps arbitrary severity text onto low/medium/high.
// Unknown or empty values default to medium.
func NormalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SeverityLow:
		return SeverityLow
	case SeverityHigh:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// SplitConstraints splits a comma-separated constraints string into trimmed,
// non-empty tokens. Returns nil for a blank input.
func SplitConstraints(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// Validate checks that the request is well-formed.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Goal) == "" {
		return ErrBlankGoal
	}
	return nil
}
