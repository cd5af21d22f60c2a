package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
)

func TestApplyOptionSelection_UpdatesOnlyTargetComponent(t *testing.T) {
	cfg := samplePhone()
	assert.Equal(t, 450.0, cfg.Total())

	next, err := ApplyOptionSelection(cfg, "RAM", entity.CustomizationOption{Selection: "12GB", Price: 50, Reason: "multitasking"})
	require.NoError(t, err)
	assert.Equal(t, 500.0, next.Total())
	assert.Equal(t, "12GB", next.Customizations[1].Selection)
	assert.Equal(t, "multitasking", next.Customizations[1].Reason)
	assert.Equal(t, cfg.Customizations[0], next.Customizations[0])
	assert.Equal(t, cfg.ImageURL, next.ImageURL)

	// input untouched
	assert.Equal(t, "8GB", cfg.Customizations[1].Selection)
	assert.Equal(t, 450.0, cfg.Total())

	next, err = ApplyOptionSelection(next, "Material & Color", entity.CustomizationOption{Selection: "Titanium Gray", Price: 70})
	require.NoError(t, err)
	assert.Equal(t, 570.0, next.Total())
}

func TestApplyOptionSelection_Errors(t *testing.T) {
	_, err := ApplyOptionSelection(nil, "RAM", entity.CustomizationOption{})
	assert.ErrorIs(t, err, entity.ErrNoConfiguration)

	_, err = ApplyOptionSelection(samplePhone(), "GPU", entity.CustomizationOption{})
	assert.True(t, errors.Is(err, entity.ErrUnknownComponent))
}

func TestIsDesignComponent(t *testing.T) {
	cases := map[string]bool{
		"Material & Color":       true,
		"Display Size & Type":    true,
		"Camera Design":          true,
		"Keyboard Layout":        true,
		"Design Aesthetic":       true,
		"Form Factor":            true,
		"Biometric Security":     true,
		"Cooling System":         true,
		"Ports & Connectivity":   true,
		"Keyboard Backlight":     true,
		"RAM":                    false,
		"Processor":              false,
		"Storage":                false,
		"Main Camera (Rear)":     false,
		"chassis MATERIAL":       true,
		"Battery":                false,
		"Software Optimizations": false,
	}
	for name, want := range cases {
		assert.Equal(t, want, IsDesignComponent(name), name)
	}
}
