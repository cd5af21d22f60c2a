package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/yourusername/techspec-bot/internal/domain/constants"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	"github.com/yourusername/techspec-bot/internal/domain/repository"
	"google.golang.org/api/option"
	gai "google.golang.org/genai"
)

// Client AI gateway backed by Gemini (text, JSON schema) and Imagen (renders).
// Search-grounded advisor calls and image calls go through the newer google.golang.org/genai SDK,
// which is the one exposing Imagen and the GoogleSearch tool.
type Client struct {
	client      *genai.Client
	mediaClient *gai.Client
	textModel   string
	imageModel  string
}

var _ repository.AIRepository = (*Client)(nil)

// NewClient creates both SDK clients with the same API key.
func NewClient(ctx context.Context, apiKey, textModel, imageModel string) (*Client, error) {
	if textModel == "" {
		textModel = constants.GeminiModelName
	}
	if imageModel == "" {
		imageModel = constants.ImagenModelName
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	mediaClient, err := gai.NewClient(ctx, &gai.ClientConfig{
		APIKey:  apiKey,
		Backend: gai.BackendGeminiAPI,
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to create GenAI media client: %w", err)
	}

	return &Client{
		client:      client,
		mediaClient: mediaClient,
		textModel:   textModel,
		imageModel:  imageModel,
	}, nil
}

func (g *Client) configModel() *genai.GenerativeModel {
	model := g.client.GenerativeModel(g.textModel)
	model.SetTemperature(constants.AITemperature)
	model.SetTopK(constants.AITopK)
	model.SetTopP(constants.AITopP)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = configSchema()
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(ConfigInstruction)},
	}
	return model
}

// GenerateConfiguration one request, no retries. The initial render is best-effort:
// a configuration without an image is still a success.
func (g *Client) GenerateConfiguration(ctx context.Context, prompt string, deviceType entity.DeviceType) (*entity.CustomConfiguration, error) {
	if _, ok := entity.ParseDeviceType(string(deviceType)); !ok {
		return nil, &entity.GenerationError{Reason: "unknown device type", Err: entity.ErrNoDeviceType}
	}

	log.Printf("🔄 Gemini: %s configuration request (%s)...", deviceType, g.textModel)
	resp, err := g.configModel().GenerateContent(ctx, genai.Text(buildConfigPrompt(prompt, deviceType)))
	if err != nil {
		log.Printf("❌ Gemini configuration error: %v", err)
		return nil, &entity.GenerationError{Reason: "request failed", Err: err}
	}
	if len(resp.Candidates) == 0 {
		return nil, &entity.GenerationError{Reason: "no response candidates"}
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		log.Printf("🚫 Response blocked by safety filter!")
		return nil, &entity.GenerationError{Reason: "response blocked by safety filter"}
	}

	cfg, err := parseConfiguration(extractText(resp), deviceType)
	if err != nil {
		return nil, err
	}
	cfg.ID = uuid.NewString()

	imageURL, imgErr := g.GenerateDeviceImage(ctx, entity.ImageRequest{Configuration: cfg, DeviceType: deviceType})
	if imgErr != nil {
		log.Printf("⚠️ Initial render skipped: %v", imgErr)
	} else {
		cfg.ImageURL = imageURL
	}

	log.Printf("✅ Configuration ready: %s (%d components)", cfg.DeviceName, len(cfg.Customizations))
	return cfg, nil
}

// parseConfiguration decodes and normalizes the model's JSON answer.
func parseConfiguration(raw string, deviceType entity.DeviceType) (*entity.CustomConfiguration, error) {
	body := extractJSONBlock(raw)
	if body == "" {
		return nil, &entity.GenerationError{Reason: "empty response"}
	}

	var cfg entity.CustomConfiguration
	if err := json.Unmarshal([]byte(body), &cfg); err != nil {
		return nil, &entity.GenerationError{Reason: "malformed JSON", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.DeviceType = deviceType
	cfg.ImageURL = ""
	cfg.EnsureSelectedOptions()
	return &cfg, nil
}

// extractText concatenates the text parts of every candidate
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				result.WriteString(string(text))
			}
		}
	}
	return result.String()
}

// Close releases the text client. The media client holds no resources.
func (g *Client) Close() error {
	return g.client.Close()
}
