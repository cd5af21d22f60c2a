package usecase

import (
	"strconv"

	"github.com/yourusername/techspec-bot/internal/domain/constants"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
)

// ComparisonRow one aligned line of a comparison table
type ComparisonRow struct {
	Label     string
	Current   string
	Other     string
	Different bool
}

// ComparisonView side-by-side diff of two configurations
type ComparisonView struct {
	CurrentName     string
	OtherName       string
	Rows            []ComparisonRow
	Benchmarks      []ComparisonRow
	CurrentTotal    float64
	OtherTotal      float64
	PriceDifference float64 // positive: current is more expensive
}

// DifferentCount rows (components and benchmarks) that differ
func (v ComparisonView) DifferentCount() int {
	n := 0
	for _, r := range v.Rows {
		if r.Different {
			n++
		}
	}
	for _, r := range v.Benchmarks {
		if r.Different {
			n++
		}
	}
	return n
}

// Compare aligns components by name (current's order first, then names only other has)
// and diffs selections, benchmark scores and totals. Inputs are not modified.
func Compare(current, other *entity.CustomConfiguration) ComparisonView {
	view := ComparisonView{
		CurrentName: current.DeviceName,
		OtherName:   other.DeviceName,
	}

	currentSel := selectionsByName(current)
	otherSel := selectionsByName(other)

	seen := make(map[string]bool, len(current.Customizations)+len(other.Customizations))
	names := make([]string, 0, len(current.Customizations)+len(other.Customizations))
	for _, cfg := range []*entity.CustomConfiguration{current, other} {
		for _, c := range cfg.Customizations {
			if seen[c.Component] {
				continue
			}
			seen[c.Component] = true
			names = append(names, c.Component)
		}
	}

	for _, name := range names {
		view.Rows = append(view.Rows, diffRow(name, currentSel[name], otherSel[name]))
	}

	view.Benchmarks = []ComparisonRow{
		diffRow("CPU Score", cpuScore(current), cpuScore(other)),
		diffRow("GPU Score", gpuScore(current), gpuScore(other)),
	}

	view.CurrentTotal = current.Total()
	view.OtherTotal = other.Total()
	view.PriceDifference = view.CurrentTotal - view.OtherTotal
	return view
}

func selectionsByName(cfg *entity.CustomConfiguration) map[string]*string {
	out := make(map[string]*string, len(cfg.Customizations))
	for i := range cfg.Customizations {
		c := &cfg.Customizations[i]
		if _, exists := out[c.Component]; !exists {
			out[c.Component] = &c.Selection
		}
	}
	return out
}

func diffRow(label string, current, other *string) ComparisonRow {
	row := ComparisonRow{Label: label, Current: constants.NotAvailable, Other: constants.NotAvailable}
	if current != nil {
		row.Current = *current
	}
	if other != nil {
		row.Other = *other
	}
	// absence never equals a present value, even the literal "N/A"
	row.Different = current == nil || other == nil || *current != *other
	if current == nil && other == nil {
		row.Different = false
	}
	return row
}

func cpuScore(cfg *entity.CustomConfiguration) *string {
	if cfg.PerformanceBenchmarks == nil {
		return nil
	}
	s := strconv.Itoa(cfg.PerformanceBenchmarks.CPUScore)
	return &s
}

func gpuScore(cfg *entity.CustomConfiguration) *string {
	if cfg.PerformanceBenchmarks == nil {
		return nil
	}
	s := strconv.Itoa(cfg.PerformanceBenchmarks.GPUScore)
	return &s
}
