package plan

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// defaultSystemPrompt instructs the model to answer with pure JSON matching
// the plan schema.
const defaultSystemPrompt = `You are a project planning assistant. Your job is to break down goals into actionable tasks.

You MUST respond with ONLY a valid JSON object. No explanation, no markdown, just pure JSON.

The JSON must have this exact structure:
{
  "tasks": [
    {
      "id": "T1",
      "title": "Task title",
      "description": "What needs to be done",
      "estimateDays": 2
    }
  ],
  "dependencies": [
    {
      "from": "T1",
      "to": "T2"
    }
  ],
  "assumptions": ["Assumption 1", "Assumption 2"],
  "risks": [
    {
      "title": "Risk description",
      "severity": "high|medium|low",
      "mitigation": "How to address it"
    }
  ],
  "reasoning": "Brief explanation of the plan structure"
}

Rules:
- Task IDs must be unique (T1, T2, T3, etc.)
- Dependencies reference task IDs that exist
- Estimates are in days (can be fractional like 0.5)
- Keep reasoning brief (1-2 sentences)
- Be realistic with estimates
- No cycles in dependencies`

// PromptSet holds the prompts used for plan generation.
type PromptSet struct {
	// System is the system prompt demanding strict JSON output.
	System string `toml:"system"`

	// UserTemplate, when set, replaces the trailing instruction appended
	// to the user prompt.
	UserTemplate string `toml:"user_template"`
}

// DefaultPrompts returns the built-in prompt set.
func DefaultPrompts() PromptSet {
	return PromptSet{
		System:       defaultSystemPrompt,
		UserTemplate: "Break this down into actionable tasks with dependencies and timelines.",
	}
}

// LoadPrompts reads a TOML prompt override file and merges it over the
// defaults. A missing file returns the defaults unchanged.
func LoadPrompts(path string) (PromptSet, error) {
	prompts := DefaultPrompts()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prompts, nil
		}
		return prompts, fmt.Errorf("read prompts file: %w", err)
	}

	var override PromptSet
	if err := toml.Unmarshal(data, &override); err != nil {
		return prompts, fmt.Errorf("parse prompts file: %w", err)
	}

	if strings.TrimSpace(override.System) != "" {
		prompts.System = override.System
	}
	if strings.TrimSpace(override.UserTemplate) != "" {
		prompts.UserTemplate = override.UserTemplate
	}

	return prompts, nil
}

// UserPrompt builds the user prompt for a request.
func (p PromptSet) UserPrompt(req *Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Goal: %s\n", req.Goal)

	if req.Deadline != "" {
		fmt.Fprintf(&b, "Deadline/Timebox: %s\n", req.Deadline)
	}

	if len(req.Constraints) > 0 {
		fmt.Fprintf(&b, "Constraints: %s\n", strings.Join(req.Constraints, ", "))
	}

	b.WriteString("\n")
	b.WriteString(p.UserTemplate)

	return b.String()
}
