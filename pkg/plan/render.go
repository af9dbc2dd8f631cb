package plan

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	renderRule    = "================================================================================"
	renderDivider = "--------------------------------------------------------------------------------"

	// notAvailable is the placeholder for missing optional scalar fields.
	notAvailable = "not available"
)

// RenderText renders a plan as a plain-text document. It is a pure function:
// no mutation, no network access. Task order and dependency order are
// preserved; empty list sections are omitted entirely.
func RenderText(p *Plan) string {
	var b strings.Builder

	b.WriteString(renderRule + "\n")
	b.WriteString("TASK PLAN\n")
	b.WriteString(renderRule + "\n\n")

	fmt.Fprintf(&b, "Goal:      %s\n", valueOr(p.Meta.Goal, notAvailable))
	fmt.Fprintf(&b, "Deadline:  %s\n", valueOr(p.Meta.Deadline, notAvailable))
	fmt.Fprintf(&b, "Model:     %s\n", valueOr(p.Meta.Model, notAvailable))
	if p.Meta.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", notAvailable)
	} else {
		fmt.Fprintf(&b, "Generated: %s\n", p.Meta.GeneratedAt.Format("2006-01-02T15:04:05Z"))
	}

	if p.Meta.HasCycle {
		b.WriteString("\nWARNING: dependency cycle detected\n")
	}

	b.WriteString("\n" + renderDivider + "\n")
	b.WriteString("TASKS\n")
	b.WriteString(renderDivider + "\n")

	for _, t := range p.Tasks {
		fmt.Fprintf(&b, "\n[%s] %s\n", t.ID, t.Title)
		fmt.Fprintf(&b, "    %s\n", valueOr(t.Description, notAvailable))
		fmt.Fprintf(&b, "    Estimate: %s\n", FormatEstimate(t.EstimateDays))
	}

	if len(p.Dependencies) > 0 {
		b.WriteString("\n" + renderDivider + "\n")
		b.WriteString("DEPENDENCIES\n")
		b.WriteString(renderDivider + "\n")
		for _, d := range p.Dependencies {
			fmt.Fprintf(&b, "  %s → %s\n", d.From, d.To)
		}
	}

	if len(p.Assumptions) > 0 {
		b.WriteString("\n" + renderDivider + "\n")
		b.WriteString("ASSUMPTIONS\n")
		b.WriteString(renderDivider + "\n")
		for _, a := range p.Assumptions {
			fmt.Fprintf(&b, "  - %s\n", a)
		}
	}

	if len(p.Risks) > 0 {
		b.WriteString("\n" + renderDivider + "\n")
		b.WriteString("RISKS\n")
		b.WriteString(renderDivider + "\n")
		for _, r := range p.Risks {
			fmt.Fprintf(&b, "  [%s] %s\n", NormalizeSeverity(r.Severity), r.Title)
			fmt.Fprintf(&b, "      Mitigation: %s\n", valueOr(r.Mitigation, "none specified"))
		}
	}

	if p.Reasoning != "" {
		b.WriteString("\n" + renderDivider + "\n")
		b.WriteString("REASONING\n")
		b.WriteString(renderDivider + "\n")
		fmt.Fprintf(&b, "  %s\n", p.Reasoning)
	}

	b.WriteString("\n" + renderRule + "\n")

	return b.String()
}

// RenderErrorText renders a generation failure. Error payloads never use the
// plan layout.
func RenderErrorText(e *Error) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Error: %s\n", e.Error)
	if e.Details != "" {
		fmt.Fprintf(&b, "Details: %s\n", e.Details)
	}

	return b.String()
}

// FormatEstimate formats a day estimate, trimming a trailing ".0" so whole
// days read naturally.
func FormatEstimate(days *float64) string {
	if days == nil {
		return notAvailable
	}

	s := strconv.FormatFloat(*days, 'f', -1, 64)
	if *days == 1 {
		return s + " day"
	}
	return s + " days"
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
