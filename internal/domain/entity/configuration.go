package entity

import (
	"strings"
)

// DeviceType phone or laptop
type DeviceType string

const (
	DevicePhone  DeviceType = "phone"
	DeviceLaptop DeviceType = "laptop"
)

// ParseDeviceType accepts "phone"/"laptop" in any case.
func ParseDeviceType(raw string) (DeviceType, bool) {
	switch DeviceType(strings.ToLower(strings.TrimSpace(raw))) {
	case DevicePhone:
		return DevicePhone, true
	case DeviceLaptop:
		return DeviceLaptop, true
	default:
		return "", false
	}
}

// CustomizationOption one alternative for a component. Price is a delta from the base price.
type CustomizationOption struct {
	Selection string  `json:"selection"`
	Reason    string  `json:"reason"`
	Price     float64 `json:"price"`
}

// Customization one swappable component slot
type Customization struct {
	Component string                `json:"component"`
	Selection string                `json:"selection"` // must match one of Options
	Reason    string                `json:"reason"`
	Price     float64               `json:"price"`
	Options   []CustomizationOption `json:"options"`
}

// SelectedOption returns the option matching the current selection.
func (c *Customization) SelectedOption() (CustomizationOption, bool) {
	for _, opt := range c.Options {
		if opt.Selection == c.Selection {
			return opt, true
		}
	}
	return CustomizationOption{}, false
}

// PerformanceBenchmarks synthetic scores, 0-100
type PerformanceBenchmarks struct {
	CPUScore int    `json:"cpuScore"`
	GPUScore int    `json:"gpuScore"`
	Summary  string `json:"summary"`
}

// CustomConfiguration one generated device build
type CustomConfiguration struct {
	ID                    string                 `json:"id,omitempty"`
	DeviceType            DeviceType             `json:"deviceType,omitempty"` // empty in legacy records
	DeviceName            string                 `json:"deviceName"`
	Description           string                 `json:"description"`
	DesignDescription     string                 `json:"designDescription"`
	BasePrice             float64                `json:"basePrice"`
	Customizations        []Customization        `json:"customizations"`
	TotalPrice            float64                `json:"totalPrice"` // provenance only, see Total()
	ImageURL              string                 `json:"imageUrl,omitempty"`
	PerformanceBenchmarks *PerformanceBenchmarks `json:"performanceBenchmarks,omitempty"`
}

// ComputeTotal base price plus the price of every current selection.
func ComputeTotal(basePrice float64, customizations []Customization) float64 {
	total := basePrice
	for _, c := range customizations {
		total += c.Price
	}
	return total
}

// Total always recomputed; the stored TotalPrice field is never trusted.
func (c *CustomConfiguration) Total() float64 {
	return ComputeTotal(c.BasePrice, c.Customizations)
}

// Clone deep copy
func (c *CustomConfiguration) Clone() *CustomConfiguration {
	if c == nil {
		return nil
	}
	out := *c
	out.Customizations = make([]Customization, len(c.Customizations))
	for i, cust := range c.Customizations {
		cust.Options = append([]CustomizationOption(nil), cust.Options...)
		out.Customizations[i] = cust
	}
	if c.PerformanceBenchmarks != nil {
		b := *c.PerformanceBenchmarks
		out.PerformanceBenchmarks = &b
	}
	return &out
}

// Component exact-name lookup
func (c *CustomConfiguration) Component(name string) (*Customization, int) {
	for i := range c.Customizations {
		if c.Customizations[i].Component == name {
			return &c.Customizations[i], i
		}
	}
	return nil, -1
}

// FindComponent first component whose name contains keyword (case-insensitive)
func (c *CustomConfiguration) FindComponent(keyword string) *Customization {
	keyword = strings.ToLower(keyword)
	for i := range c.Customizations {
		if strings.Contains(strings.ToLower(c.Customizations[i].Component), keyword) {
			return &c.Customizations[i]
		}
	}
	return nil
}

// SelectionFor selection text of the first component matching keyword, or ""
func (c *CustomConfiguration) SelectionFor(keyword string) string {
	if comp := c.FindComponent(keyword); comp != nil {
		return comp.Selection
	}
	return ""
}

// EnsureSelectedOptions prepends the current selection to Options when the model left it out.
func (c *CustomConfiguration) EnsureSelectedOptions() {
	for i := range c.Customizations {
		cust := &c.Customizations[i]
		if _, ok := cust.SelectedOption(); ok {
			continue
		}
		selected := CustomizationOption{Selection: cust.Selection, Reason: cust.Reason, Price: cust.Price}
		cust.Options = append([]CustomizationOption{selected}, cust.Options...)
	}
}

// Validate minimal shape required from the AI gateway.
func (c *CustomConfiguration) Validate() error {
	if strings.TrimSpace(c.DeviceName) == "" {
		return &GenerationError{Reason: "missing device name"}
	}
	if len(c.Customizations) == 0 {
		return &GenerationError{Reason: "missing component list"}
	}
	return nil
}

// ResolveDeviceType explicit type when present, legacy inference otherwise.
func (c *CustomConfiguration) ResolveDeviceType() DeviceType {
	if c.DeviceType != "" {
		return c.DeviceType
	}
	return InferLegacyDeviceType(c.DeviceName)
}

// InferLegacyDeviceType guesses the device type of records saved before deviceType existed.
// Delete once every stored build carries the field.
func InferLegacyDeviceType(deviceName string) DeviceType {
	if strings.Contains(strings.ToLower(deviceName), "laptop") {
		return DeviceLaptop
	}
	return DevicePhone
}
