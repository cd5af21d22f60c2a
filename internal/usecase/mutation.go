package usecase

import (
	"fmt"
	"strings"

	"github.com/yourusername/techspec-bot/internal/domain/constants"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
)

// ApplyOptionSelection returns a copy of cfg where only componentName carries the chosen
// option's selection/price/reason. ImageURL is left as is (stale-while-revalidate).
func ApplyOptionSelection(cfg *entity.CustomConfiguration, componentName string, option entity.CustomizationOption) (*entity.CustomConfiguration, error) {
	if cfg == nil {
		return nil, entity.ErrNoConfiguration
	}
	next := cfg.Clone()
	comp, _ := next.Component(componentName)
	if comp == nil {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownComponent, componentName)
	}
	comp.Selection = option.Selection
	comp.Price = option.Price
	comp.Reason = option.Reason
	return next, nil
}

// IsDesignComponent reports whether a component change should regenerate the product image.
// Best-effort: case-insensitive substring match on the component name.
func IsDesignComponent(componentName string) bool {
	name := strings.ToLower(componentName)
	for _, keyword := range constants.DesignComponentKeywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}
