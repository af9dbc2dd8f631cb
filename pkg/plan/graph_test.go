package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tasks(ids ...string) []Task {
	result := make([]Task, len(ids))
	for i, id := range ids {
		result[i] = Task{ID: id, Title: "task " + id}
	}
	return result
}

func TestHasCycle_EmptyGraph(t *testing.T) {
	assert.False(t, HasCycle(nil, nil))
	assert.False(t, HasCycle(tasks("T1", "T2"), nil))
}

func TestHasCycle_Chain(t *testing.T) {
	deps := []Dependency{
		{From: "T1", To: "T2"},
		{From: "T2", To: "T3"},
	}
	assert.False(t, HasCycle(tasks("T1", "T2", "T3"), deps))
}

func TestHasCycle_Diamond(t *testing.T) {
	deps := []Dependency{
		{From: "T1", To: "T2"},
		{From: "T1", To: "T3"},
		{From: "T2", To: "T4"},
		{From: "T3", To: "T4"},
	}
	assert.False(t, HasCycle(tasks("T1", "T2", "T3", "T4"), deps))
}

func TestHasCycle_SelfLoop(t *testing.T) {
	deps := []Dependency{{From: "T1", To: "T1"}}
	assert.True(t, HasCycle(tasks("T1"), deps))
}

func TestHasCycle_TwoNodeCycle(t *testing.T) {
	deps := []Dependency{
		{From: "T1", To: "T2"},
		{From: "T2", To: "T1"},
	}
	assert.True(t, HasCycle(tasks("T1", "T2"), deps))
}

func TestHasCycle_LongerCycle(t *testing.T) {
	deps := []Dependency{
		{From: "T1", To: "T2"},
		{From: "T2", To: "T3"},
		{From: "T3", To: "T1"},
	}
	assert.True(t, HasCycle(tasks("T1", "T2", "T3"), deps))
}

func TestHasCycle_IgnoresUnknownIDs(t *testing.T) {
	deps := []Dependency{
		{From: "T1", To: "TX"},
		{From: "TX", To: "T1"},
	}
	assert.False(t, HasCycle(tasks("T1"), deps))
}

func TestPruneDependencies(t *testing.T) {
	deps := []Dependency{
		{From: "T1", To: "T2"},
		{From: "T2", To: "TX"},
		{From: "TX", To: "T1"},
		{From: "T2", To: "T1"},
	}

	valid := pruneDependencies(tasks("T1", "T2"), deps)

	assert.Equal(t, []Dependency{
		{From: "T1", To: "T2"},
		{From: "T2", To: "T1"},
	}, valid)
}
