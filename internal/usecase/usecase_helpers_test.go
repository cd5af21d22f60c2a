package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/yourusername/techspec-bot/internal/domain/entity"
)

type stubAIRepo struct {
	mu sync.Mutex

	config    *entity.CustomConfiguration
	configErr error
	advisor   *entity.AdvisorResult
	advErr    error

	imageURL   string
	imageErr   error
	imageCalls []entity.ImageRequest

	prompts []string
}

func (s *stubAIRepo) GenerateConfiguration(ctx context.Context, prompt string, deviceType entity.DeviceType) (*entity.CustomConfiguration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.configErr != nil {
		return nil, s.configErr
	}
	if s.config == nil {
		return nil, errors.New("no config stubbed")
	}
	return s.config.Clone(), nil
}

func (s *stubAIRepo) GenerateDeviceImage(ctx context.Context, req entity.ImageRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imageCalls = append(s.imageCalls, req)
	if s.imageErr != nil {
		return "", s.imageErr
	}
	return s.imageURL, nil
}

func (s *stubAIRepo) FindBestMarketDevice(ctx context.Context, criteria entity.AdvisorCriteria) (*entity.AdvisorResult, error) {
	if s.advErr != nil {
		return nil, s.advErr
	}
	return s.advisor, nil
}

// samplePhone base 450, one design component and one RAM slot.
func samplePhone() *entity.CustomConfiguration {
	return &entity.CustomConfiguration{
		DeviceName:  "Pixel Pro Custom",
		Description: "A balanced phone",
		BasePrice:   450,
		TotalPrice:  450,
		ImageURL:    "data:image/jpeg;base64,b2xk",
		Customizations: []entity.Customization{
			{
				Component: "Material & Color",
				Selection: "Aluminum Black",
				Price:     0,
				Options: []entity.CustomizationOption{
					{Selection: "Aluminum Black", Price: 0},
					{Selection: "Titanium Gray", Price: 70},
				},
			},
			{
				Component: "RAM",
				Selection: "8GB",
				Price:     0,
				Options: []entity.CustomizationOption{
					{Selection: "8GB", Price: 0},
					{Selection: "12GB", Price: 50},
				},
			},
		},
		PerformanceBenchmarks: &entity.PerformanceBenchmarks{CPUScore: 80, GPUScore: 75},
	}
}
