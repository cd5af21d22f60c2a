package gemini

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"github.com/yourusername/techspec-bot/internal/domain/entity"
	gai "google.golang.org/genai"
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?[ \t]*\r?\n(.*?)\r?\n?```")

// FindBestMarketDevice search-grounded recommendation of a real device.
func (g *Client) FindBestMarketDevice(ctx context.Context, criteria entity.AdvisorCriteria) (*entity.AdvisorResult, error) {
	log.Printf("🔎 Advisor: %s, %s", criteria.DeviceType, criteria.PriceRange)

	resp, err := g.mediaClient.Models.GenerateContent(ctx, g.textModel, gai.Text(buildAdvisorPrompt(criteria)), &gai.GenerateContentConfig{
		Tools: []*gai.Tool{{GoogleSearch: &gai.GoogleSearch{}}},
	})
	if err != nil {
		log.Printf("❌ Advisor error: %v", err)
		return nil, &entity.AdvisorError{Reason: "request failed", Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &entity.AdvisorError{Reason: "no response candidates"}
	}

	result, err := parseAdvisorResult(resp.Text())
	if err != nil {
		return nil, err
	}
	if meta := resp.Candidates[0].GroundingMetadata; meta != nil {
		result.GroundingSources = groundingSources(meta.GroundingChunks)
	}

	imageURL, imgErr := g.GenerateDeviceImage(ctx, entity.ImageRequest{Advisor: result, DeviceType: criteria.DeviceType})
	if imgErr != nil {
		log.Printf("⚠️ Advisor render skipped: %v", imgErr)
	} else {
		result.ImageURL = imageURL
	}

	log.Printf("✅ Advisor picked %s %s (%d sources)", result.Company, result.DeviceName, len(result.GroundingSources))
	return result, nil
}

func parseAdvisorResult(raw string) (*entity.AdvisorResult, error) {
	body := extractJSONBlock(raw)
	if body == "" {
		return nil, &entity.AdvisorError{Reason: "empty response"}
	}
	var result entity.AdvisorResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, &entity.AdvisorError{Reason: "malformed JSON", Err: err}
	}
	if strings.TrimSpace(result.DeviceName) == "" {
		return nil, &entity.AdvisorError{Reason: "missing device name"}
	}
	result.ImageURL = ""
	result.GroundingSources = nil
	return &result, nil
}

// groundingSources keeps web citations that carry both a URI and a title.
func groundingSources(chunks []*gai.GroundingChunk) []entity.GroundingSource {
	var out []entity.GroundingSource
	for _, chunk := range chunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		if chunk.Web.URI == "" || chunk.Web.Title == "" {
			continue
		}
		out = append(out, entity.GroundingSource{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return out
}

// extractJSONBlock returns the first fenced code block, or the trimmed text when unfenced.
func extractJSONBlock(raw string) string {
	text := strings.TrimSpace(raw)
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}
