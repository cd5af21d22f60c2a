package gemini

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	gai "google.golang.org/genai"
)

const sampleConfigJSON = `{
  "deviceName": "Aurora X1",
  "description": "Camera-first phone",
  "designDescription": "Matte glass back",
  "basePrice": 450,
  "totalPrice": 999,
  "customizations": [
    {"component": "RAM", "selection": "12GB", "reason": "headroom", "price": 50,
     "options": [{"selection": "8GB", "reason": "enough", "price": 0}]},
    {"component": "Material & Color", "selection": "Glass Black", "reason": "premium", "price": 0,
     "options": [{"selection": "Glass Black", "reason": "premium", "price": 0},
                 {"selection": "Titanium", "reason": "durable", "price": 80}]}
  ],
  "performanceBenchmarks": {"cpuScore": 88, "gpuScore": 81, "summary": "fast"}
}`

func TestParseConfiguration(t *testing.T) {
	cfg, err := parseConfiguration(sampleConfigJSON, entity.DevicePhone)
	require.NoError(t, err)

	assert.Equal(t, "Aurora X1", cfg.DeviceName)
	assert.Equal(t, entity.DevicePhone, cfg.DeviceType)
	assert.Equal(t, 500.0, cfg.Total())
	assert.Equal(t, 999.0, cfg.TotalPrice)
	require.NotNil(t, cfg.PerformanceBenchmarks)
	assert.Equal(t, 88, cfg.PerformanceBenchmarks.CPUScore)

	// selection missing from options is prepended
	ram := cfg.Customizations[0]
	require.Len(t, ram.Options, 2)
	assert.Equal(t, "12GB", ram.Options[0].Selection)
	assert.Equal(t, 50.0, ram.Options[0].Price)

	// already present, untouched
	assert.Len(t, cfg.Customizations[1].Options, 2)
}

func TestParseConfiguration_Fenced(t *testing.T) {
	cfg, err := parseConfiguration("```json\n"+sampleConfigJSON+"\n```", entity.DeviceLaptop)
	require.NoError(t, err)
	assert.Equal(t, entity.DeviceLaptop, cfg.DeviceType)
}

func TestParseConfiguration_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":          "  ",
		"not json":       "<html>rate limited</html>",
		"no name":        `{"customizations":[{"component":"RAM","selection":"8GB"}]}`,
		"no components":  `{"deviceName":"X","customizations":[]}`,
		"components nil": `{"deviceName":"X"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfiguration(raw, entity.DevicePhone)
			var genErr *entity.GenerationError
			assert.True(t, errors.As(err, &genErr), "got %v", err)
		})
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}}},
			{Content: nil},
		},
	}
	assert.Equal(t, `{"a":1}`, extractText(resp))
}

func TestBuildConfigPrompt(t *testing.T) {
	phone := buildConfigPrompt("  camera phone ", entity.DevicePhone)
	assert.Contains(t, phone, `"camera phone"`)
	assert.Contains(t, phone, "Form Factor")
	assert.NotContains(t, phone, "Keyboard Backlight")

	laptop := buildConfigPrompt("gaming", entity.DeviceLaptop)
	assert.Contains(t, laptop, "futuristic laptop configuration")
	assert.Contains(t, laptop, "Cooling System")
}

func TestConfigSchema(t *testing.T) {
	schema := configSchema()
	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Contains(t, schema.Required, "customizations")

	items := schema.Properties["customizations"].Items
	require.NotNil(t, items)
	assert.ElementsMatch(t, []string{"component", "selection", "reason", "price", "options"}, items.Required)
	assert.Equal(t, genai.TypeArray, items.Properties["options"].Type)
}

func TestBuildImagePrompt(t *testing.T) {
	phone := &entity.CustomConfiguration{
		DeviceName: "Aurora X1",
		Customizations: []entity.Customization{
			{Component: "Form Factor", Selection: "Book-Style Foldable"},
			{Component: "Material & Color", Selection: "Ceramic White"},
			{Component: "Display Size & Type", Selection: "6.7in 120Hz LTPO"},
			{Component: "Camera Design", Selection: "Horizontal bar"},
		},
	}
	p := buildImagePrompt(entity.ImageRequest{Configuration: phone, DeviceType: entity.DevicePhone})
	assert.Contains(t, p, "book-style foldable smartphone")
	assert.Contains(t, p, "Ceramic White")
	assert.Contains(t, p, "Horizontal bar")
	assert.Contains(t, p, "no logos")

	phone.Customizations[0].Selection = "Clamshell Foldable"
	p = buildImagePrompt(entity.ImageRequest{Configuration: phone, DeviceType: entity.DevicePhone})
	assert.Contains(t, p, "clamshell-style")

	laptop := &entity.CustomConfiguration{
		DeviceName: "Forge 16",
		Customizations: []entity.Customization{
			{Component: "Keyboard Backlight", Selection: "RGB per-key"},
			{Component: "Chassis Material & Color", Selection: "Magnesium Gray"},
		},
	}
	p = buildImagePrompt(entity.ImageRequest{Configuration: laptop, DeviceType: entity.DeviceLaptop})
	assert.Contains(t, p, "RGB per-key")
	assert.Contains(t, p, "Magnesium Gray")
	assert.Contains(t, p, "laptop")

	p = buildImagePrompt(entity.ImageRequest{
		Advisor:    &entity.AdvisorResult{DeviceName: "Pixel 9", Company: "Google"},
		DeviceType: entity.DevicePhone,
	})
	assert.True(t, strings.HasPrefix(p, "A professional, clean studio product photograph of the 'Pixel 9' from Google."))
}

func TestAspectRatio(t *testing.T) {
	assert.Equal(t, "9:16", aspectRatio(entity.DevicePhone))
	assert.Equal(t, "16:9", aspectRatio(entity.DeviceLaptop))
}

func TestFirstImage(t *testing.T) {
	_, err := firstImage(&gai.GenerateImagesResponse{})
	var imgErr *entity.ImageGenerationError
	assert.True(t, errors.As(err, &imgErr))

	uri, err := firstImage(&gai.GenerateImagesResponse{
		GeneratedImages: []*gai.GeneratedImage{{Image: &gai.Image{ImageBytes: []byte("abc")}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,YWJj", uri)
}
