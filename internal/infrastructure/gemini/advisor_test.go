package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	gai "google.golang.org/genai"
)

const advisorAnswer = "Here is my pick.\n```json\n" + `{
  "deviceName": "Galaxy S24",
  "company": "Samsung",
  "description": "Compact flagship",
  "approximatePriceUSD": 799,
  "keySpecs": ["Snapdragon 8 Gen 3", "6.2in 120Hz"],
  "pros": ["Small"],
  "cons": ["Battery"],
  "reasoning": "Best compact option"
}` + "\n```\nHope this helps."

func TestParseAdvisorResult(t *testing.T) {
	result, err := parseAdvisorResult(advisorAnswer)
	require.NoError(t, err)
	assert.Equal(t, "Galaxy S24", result.DeviceName)
	assert.Equal(t, "Samsung", result.Company)
	assert.Equal(t, 799.0, result.ApproximatePriceUSD)
	assert.Len(t, result.KeySpecs, 2)
	assert.Empty(t, result.GroundingSources)
}

func TestParseAdvisorResult_Invalid(t *testing.T) {
	for _, raw := range []string{"", "I could not find anything", "```json\n{\"company\":\"X\"}\n```"} {
		_, err := parseAdvisorResult(raw)
		var advErr *entity.AdvisorError
		assert.True(t, errors.As(err, &advErr), raw)
	}
}

func TestExtractJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONBlock("text\n```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONBlock("  {\"a\":1}  "))
}

func TestGroundingSources(t *testing.T) {
	chunks := []*gai.GroundingChunk{
		{Web: &gai.GroundingChunkWeb{URI: "https://a.example", Title: "A"}},
		{Web: &gai.GroundingChunkWeb{URI: "https://b.example"}},
		{Web: &gai.GroundingChunkWeb{Title: "C"}},
		{},
		nil,
	}
	sources := groundingSources(chunks)
	assert.Equal(t, []entity.GroundingSource{{URI: "https://a.example", Title: "A"}}, sources)
}

func TestBuildAdvisorPrompt(t *testing.T) {
	p := buildAdvisorPrompt(entity.AdvisorCriteria{DeviceType: entity.DeviceLaptop, PriceRange: "None", Priorities: "battery"})
	assert.Contains(t, p, "any price")
	assert.Contains(t, p, `"battery"`)
	assert.Contains(t, p, "looking for a laptop")

	p = buildAdvisorPrompt(entity.AdvisorCriteria{DeviceType: entity.DevicePhone, PriceRange: "$400 - $700"})
	assert.Contains(t, p, "$400 - $700")
}
