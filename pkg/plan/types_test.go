package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitConstraints(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single", "no paid ads", []string{"no paid ads"}},
		{"two tokens", "team of 2, limited budget", []string{"team of 2", "limited budget"}},
		{"extra whitespace", "  team of 2 ,  limited budget  ", []string{"team of 2", "limited budget"}},
		{"empty tokens dropped", "a,,b,", []string{"a", "b"}},
		{"only commas", ",,,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitConstraints(tt.input))
		})
	}
}

func TestNormalizeSeverity(t *testing.T) {
	assert.Equal(t, SeverityLow, NormalizeSeverity("low"))
	assert.Equal(t, SeverityLow, NormalizeSeverity(" LOW "))
	assert.Equal(t, SeverityHigh, NormalizeSeverity("High"))
	assert.Equal(t, SeverityMedium, NormalizeSeverity("medium"))

	// Unknown and empty values default to medium
	assert.Equal(t, SeverityMedium, NormalizeSeverity(""))
	assert.Equal(t, SeverityMedium, NormalizeSeverity("critical"))
}

func TestRequest_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Request{Goal: ""}).Validate(), ErrBlankGoal)
	assert.ErrorIs(t, (&Request{Goal: "   \t\n"}).Validate(), ErrBlankGoal)
	assert.NoError(t, (&Request{Goal: "Launch a product"}).Validate())
}
