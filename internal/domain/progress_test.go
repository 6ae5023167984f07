// internal/domain/progress_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTrend(t *testing.T) {
	pct := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		change *float64
		want   Trend
	}{
		{"nil means no baseline", nil, TrendNoBaseline},
		{"exactly at improving threshold", pct(2.5), TrendImproving},
		{"just under improving threshold", pct(2.49), TrendStable},
		{"zero", pct(0), TrendStable},
		{"just above declining threshold", pct(-2.49), TrendStable},
		{"exactly at declining threshold", pct(-2.5), TrendDeclining},
		{"large drop", pct(-40), TrendDeclining},
		{"large gain", pct(40), TrendImproving},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTrend(tt.change))
		})
	}
}

func TestCriterionIsValid(t *testing.T) {
	assert.True(t, CriterionBalanced.IsValid())
	assert.True(t, CriterionWeightFocused.IsValid())
	assert.True(t, CriterionRepsFocused.IsValid())
	assert.False(t, Criterion("intensity").IsValid())
	assert.False(t, Criterion("").IsValid())
}

func TestSetLogVolume(t *testing.T) {
	assert.InDelta(t, 500, SetLog{Reps: 10, Weight: 50}.Volume(), 1e-9)
	assert.Zero(t, SetLog{Reps: 10, Weight: 0}.Volume())
	assert.Zero(t, SetLog{Reps: 0, Weight: 100}.Volume())
}
