package repository

import (
	"context"

	"github.com/yourusername/techspec-bot/internal/domain/entity"
)

// AIRepository generative AI gateway
type AIRepository interface {
	// GenerateConfiguration builds a complete, priced device configuration from a free-text request.
	// Fails with *entity.GenerationError.
	GenerateConfiguration(ctx context.Context, prompt string, deviceType entity.DeviceType) (*entity.CustomConfiguration, error)

	// GenerateDeviceImage renders a product image and returns it as a data URI.
	// Fails with *entity.ImageGenerationError; callers must treat that as non-fatal.
	GenerateDeviceImage(ctx context.Context, req entity.ImageRequest) (string, error)

	// FindBestMarketDevice recommends an existing device using search grounding.
	// Fails with *entity.AdvisorError.
	FindBestMarketDevice(ctx context.Context, criteria entity.AdvisorCriteria) (*entity.AdvisorResult, error)
}
