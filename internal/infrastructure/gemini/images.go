package gemini

import (
	"context"
	"log"

	"github.com/yourusername/techspec-bot/internal/domain/constants"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	"github.com/yourusername/techspec-bot/pkg/datauri"
	gai "google.golang.org/genai"
)

// GenerateDeviceImage renders one product photo and returns it as a JPEG data URI.
func (g *Client) GenerateDeviceImage(ctx context.Context, req entity.ImageRequest) (string, error) {
	if !req.IsAdvisor() && req.Configuration == nil {
		return "", &entity.ImageGenerationError{Reason: "nothing to render"}
	}

	log.Printf("🎨 Imagen: rendering %s (%s)", req.DeviceType, aspectRatio(req.DeviceType))
	resp, err := g.mediaClient.Models.GenerateImages(ctx, g.imageModel, buildImagePrompt(req), &gai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: constants.ImageMIMEType,
		AspectRatio:    aspectRatio(req.DeviceType),
	})
	if err != nil {
		return "", &entity.ImageGenerationError{Reason: "request failed", Err: err}
	}
	return firstImage(resp)
}

func firstImage(resp *gai.GenerateImagesResponse) (string, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return "", &entity.ImageGenerationError{Reason: "no image returned"}
	}
	img := resp.GeneratedImages[0].Image
	if img == nil || len(img.ImageBytes) == 0 {
		return "", &entity.ImageGenerationError{Reason: "empty image payload"}
	}
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = constants.ImageMIMEType
	}
	return datauri.Encode(mimeType, img.ImageBytes), nil
}

func aspectRatio(deviceType entity.DeviceType) string {
	if deviceType == entity.DeviceLaptop {
		return constants.LaptopAspectRatio
	}
	return constants.PhoneAspectRatio
}
