package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
)

func TestCompare_Self(t *testing.T) {
	cfg := samplePhone()
	view := Compare(cfg, cfg)

	assert.Equal(t, 0, view.DifferentCount())
	assert.Equal(t, 0.0, view.PriceDifference)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "Material & Color", view.Rows[0].Label)
	assert.Equal(t, "RAM", view.Rows[1].Label)
}

func TestCompare_PriceDifferenceAndRows(t *testing.T) {
	saved := samplePhone()
	current, err := ApplyOptionSelection(saved, "RAM", entity.CustomizationOption{Selection: "12GB", Price: 50})
	require.NoError(t, err)

	view := Compare(current, saved)
	assert.Equal(t, 50.0, view.PriceDifference)
	assert.Equal(t, 500.0, view.CurrentTotal)
	assert.Equal(t, 450.0, view.OtherTotal)
	assert.Equal(t, 1, view.DifferentCount())
	assert.True(t, view.Rows[1].Different)
	assert.Equal(t, "12GB", view.Rows[1].Current)
	assert.Equal(t, "8GB", view.Rows[1].Other)
}

func TestCompare_MissingComponentsAndBenchmarks(t *testing.T) {
	current := samplePhone()
	other := samplePhone()
	other.DeviceName = "Older"
	other.PerformanceBenchmarks = nil
	other.Customizations = append(other.Customizations, entity.Customization{Component: "Stylus", Selection: "None"})
	other.Customizations[1].Component = "Memory"

	view := Compare(current, other)

	labels := make([]string, 0, len(view.Rows))
	for _, r := range view.Rows {
		labels = append(labels, r.Label)
	}
	// current's order first, then names only the other has
	assert.Equal(t, []string{"Material & Color", "RAM", "Memory", "Stylus"}, labels)

	assert.Equal(t, "N/A", view.Rows[1].Other)
	assert.True(t, view.Rows[1].Different)
	assert.Equal(t, "N/A", view.Rows[3].Current)
	assert.True(t, view.Rows[3].Different)

	require.Len(t, view.Benchmarks, 2)
	assert.Equal(t, "80", view.Benchmarks[0].Current)
	assert.Equal(t, "N/A", view.Benchmarks[0].Other)
	assert.True(t, view.Benchmarks[0].Different)
}

func TestCompare_BothBenchmarksAbsent(t *testing.T) {
	a := samplePhone()
	b := samplePhone()
	a.PerformanceBenchmarks = nil
	b.PerformanceBenchmarks = nil

	view := Compare(a, b)
	assert.False(t, view.Benchmarks[0].Different)
	assert.Equal(t, 0, view.DifferentCount())
}

func TestCompare_DoesNotMutateInputs(t *testing.T) {
	a := samplePhone()
	b := samplePhone()
	before := a.Clone()
	Compare(a, b)
	assert.Equal(t, before, a)
}
