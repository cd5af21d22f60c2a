package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() *CustomConfiguration {
	return &CustomConfiguration{
		DeviceType: DevicePhone,
		DeviceName: "Aurora X",
		BasePrice:  450,
		Customizations: []Customization{
			{
				Component: "RAM", Selection: "8GB", Price: 0,
				Options: []CustomizationOption{{Selection: "8GB"}, {Selection: "12GB", Price: 40}},
			},
			{
				Component: "Storage", Selection: "256GB", Price: 50,
				Options: []CustomizationOption{{Selection: "256GB", Price: 50}, {Selection: "512GB", Price: 120}},
			},
		},
	}
}

func TestComputeTotal(t *testing.T) {
	cfg := sampleConfig()
	assert.Equal(t, 500.0, cfg.Total())
	assert.Equal(t, 500.0, ComputeTotal(cfg.BasePrice, cfg.Customizations))
	// repeated calls are stable
	assert.Equal(t, cfg.Total(), cfg.Total())
}

func TestComputeTotal_NegativePricesPassThrough(t *testing.T) {
	total := ComputeTotal(100, []Customization{{Price: -30}, {Price: 10}})
	assert.Equal(t, 80.0, total)
}

func TestTotalIgnoresStoredField(t *testing.T) {
	cfg := sampleConfig()
	cfg.TotalPrice = 9999
	assert.Equal(t, 500.0, cfg.Total())
}

func TestEnsureSelectedOptions_PrependsMissing(t *testing.T) {
	cfg := &CustomConfiguration{
		Customizations: []Customization{
			{
				Component: "CPU", Selection: "Snapdragon 8 Gen 4", Reason: "fast", Price: 0,
				Options: []CustomizationOption{{Selection: "Dimensity 9400", Price: -20}},
			},
			{
				Component: "RAM", Selection: "8GB",
				Options: []CustomizationOption{{Selection: "8GB"}},
			},
		},
	}
	cfg.EnsureSelectedOptions()

	require.Len(t, cfg.Customizations[0].Options, 2)
	assert.Equal(t, CustomizationOption{Selection: "Snapdragon 8 Gen 4", Reason: "fast"}, cfg.Customizations[0].Options[0])
	assert.Len(t, cfg.Customizations[1].Options, 1)
}

func TestValidate(t *testing.T) {
	var genErr *GenerationError

	err := (&CustomConfiguration{Customizations: []Customization{{Component: "CPU"}}}).Validate()
	require.Error(t, err)
	assert.True(t, errors.As(err, &genErr))

	err = (&CustomConfiguration{DeviceName: "X"}).Validate()
	require.Error(t, err)
	assert.True(t, errors.As(err, &genErr))

	assert.NoError(t, sampleConfig().Validate())
}

func TestClone_DoesNotAlias(t *testing.T) {
	cfg := sampleConfig()
	cfg.PerformanceBenchmarks = &PerformanceBenchmarks{CPUScore: 80}

	cp := cfg.Clone()
	cp.Customizations[0].Selection = "12GB"
	cp.Customizations[1].Options[0].Price = 1
	cp.PerformanceBenchmarks.CPUScore = 10

	assert.Equal(t, "8GB", cfg.Customizations[0].Selection)
	assert.Equal(t, 50.0, cfg.Customizations[1].Options[0].Price)
	assert.Equal(t, 80, cfg.PerformanceBenchmarks.CPUScore)
}

func TestInferLegacyDeviceType(t *testing.T) {
	tests := []struct {
		name string
		want DeviceType
	}{
		{"Creator LAPTOP Pro", DeviceLaptop},
		{"my laptop", DeviceLaptop},
		{"Aurora X", DevicePhone},
		{"", DevicePhone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferLegacyDeviceType(tt.name), tt.name)
	}
}

func TestResolveDeviceType_PrefersExplicitField(t *testing.T) {
	cfg := &CustomConfiguration{DeviceName: "Gaming Laptop", DeviceType: DevicePhone}
	assert.Equal(t, DevicePhone, cfg.ResolveDeviceType())

	cfg.DeviceType = ""
	assert.Equal(t, DeviceLaptop, cfg.ResolveDeviceType())
}

func TestFindComponent(t *testing.T) {
	cfg := &CustomConfiguration{Customizations: []Customization{
		{Component: "Chassis Material & Color", Selection: "Graphite aluminium"},
		{Component: "Keyboard Backlight", Selection: "RGB per-key"},
	}}
	assert.Equal(t, "Graphite aluminium", cfg.SelectionFor("material & color"))
	assert.Equal(t, "RGB per-key", cfg.SelectionFor("BACKLIGHT"))
	assert.Equal(t, "", cfg.SelectionFor("webcam"))

	comp, idx := cfg.Component("Keyboard Backlight")
	require.NotNil(t, comp)
	assert.Equal(t, 1, idx)
	comp, idx = cfg.Component("keyboard backlight")
	assert.Nil(t, comp)
	assert.Equal(t, -1, idx)
}

func TestComponentIcon(t *testing.T) {
	assert.Equal(t, "🔋", ComponentIcon("Battery"))
	assert.Equal(t, "📷", ComponentIcon("Camera System"))
	assert.Equal(t, "📸", ComponentIcon("Camera Design"))
	assert.Equal(t, "❄️", ComponentIcon("Cooling System"))
	assert.Equal(t, "💾", ComponentIcon("RAM"))
	assert.Equal(t, "🔌", ComponentIcon("Port Selection"))
	assert.Equal(t, "🧠", ComponentIcon("Something Unknown"))
}

func TestParseDeviceType(t *testing.T) {
	dt, ok := ParseDeviceType(" Laptop ")
	assert.True(t, ok)
	assert.Equal(t, DeviceLaptop, dt)

	_, ok = ParseDeviceType("tablet")
	assert.False(t, ok)
}
