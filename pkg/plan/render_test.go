package plan

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(f float64) *float64 { return &f }

func samplePlan() *Plan {
	return &Plan{
		Meta: Meta{
			Goal:        "Launch a product in 2 weeks",
			Deadline:    "2 weeks",
			Model:       "llama3:latest",
			GeneratedAt: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		},
		Tasks: []Task{
			{ID: "T1", Title: "Design", Description: "Sketch it", EstimateDays: float(2)},
			{ID: "T2", Title: "Build", EstimateDays: float(0.5)},
			{ID: "T3", Title: "Ship"},
		},
		Dependencies: []Dependency{
			{From: "T1", To: "T2"},
			{From: "T2", To: "T3"},
		},
		Assumptions: []string{"Team is available"},
		Risks: []Risk{
			{Title: "Scope creep", Severity: "high", Mitigation: "Weekly review"},
			{Title: "Unknown market"},
		},
		Reasoning: "Design before build",
	}
}

func TestRenderText_TasksInOrder(t *testing.T) {
	out := RenderText(samplePlan())

	i1 := strings.Index(out, "[T1] Design")
	i2 := strings.Index(out, "[T2] Build")
	i3 := strings.Index(out, "[T3] Ship")

	require.True(t, i1 >= 0 && i2 >= 0 && i3 >= 0, "all task blocks rendered")
	assert.Less(t, i1, i2)
	assert.Less(t, i2, i3)
}

func TestRenderText_DependencyLines(t *testing.T) {
	out := RenderText(samplePlan())

	assert.Contains(t, out, "T1 → T2")
	assert.Contains(t, out, "T2 → T3")
}

func TestRenderText_Placeholders(t *testing.T) {
	out := RenderText(samplePlan())

	// T3 has neither description nor estimate
	assert.Contains(t, out, "Estimate: not available")
	// Risk without severity renders the medium default, without mitigation
	// renders the explicit placeholder
	assert.Contains(t, out, "[medium] Unknown market")
	assert.Contains(t, out, "Mitigation: none specified")
}

func TestRenderText_Estimates(t *testing.T) {
	out := RenderText(samplePlan())

	assert.Contains(t, out, "Estimate: 2 days")
	assert.Contains(t, out, "Estimate: 0.5 days")
}

func TestRenderText_EmptyListSectionsOmitted(t *testing.T) {
	p := samplePlan()
	p.Dependencies = nil
	p.Assumptions = nil
	p.Risks = nil

	out := RenderText(p)

	assert.NotContains(t, out, "DEPENDENCIES")
	assert.NotContains(t, out, "ASSUMPTIONS")
	assert.NotContains(t, out, "RISKS")
	assert.Contains(t, out, "TASKS")
}

func TestRenderText_MissingDeadline(t *testing.T) {
	p := samplePlan()
	p.Meta.Deadline = ""

	out := RenderText(p)
	assert.Contains(t, out, "Deadline:  not available")
}

func TestRenderText_CycleWarning(t *testing.T) {
	p := samplePlan()
	assert.NotContains(t, RenderText(p), "WARNING")

	p.Meta.HasCycle = true
	assert.Contains(t, RenderText(p), "WARNING: dependency cycle detected")
}

func TestRenderText_IsPure(t *testing.T) {
	p := samplePlan()

	first := RenderText(p)
	second := RenderText(p)

	assert.Equal(t, first, second)
	assert.Equal(t, samplePlan(), p)
}

func TestRenderErrorText(t *testing.T) {
	out := RenderErrorText(&Error{Error: "Failed to generate plan", Details: "connection refused"})

	assert.Contains(t, out, "Error: Failed to generate plan")
	assert.Contains(t, out, "Details: connection refused")
	assert.NotContains(t, out, "TASK PLAN")
}

func TestRenderErrorText_NoDetails(t *testing.T) {
	out := RenderErrorText(&Error{Error: "Failed to generate plan"})

	assert.Contains(t, out, "Error: Failed to generate plan")
	assert.NotContains(t, out, "Details:")
}

func TestFormatEstimate(t *testing.T) {
	assert.Equal(t, "not available", FormatEstimate(nil))
	assert.Equal(t, "1 day", FormatEstimate(float(1)))
	assert.Equal(t, "2 days", FormatEstimate(float(2)))
	assert.Equal(t, "0.5 days", FormatEstimate(float(0.5)))
}
