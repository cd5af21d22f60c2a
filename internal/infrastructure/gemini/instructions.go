package gemini

import (
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
)

// ConfigInstruction system instruction for configuration generation
const ConfigInstruction = `You are "TechSpec AI", a value-focused tech expert and futuristic product designer.
Your mission is to design devices for the year 2025-2026 that offer the best possible performance-per-dollar.
Prioritize high-value components; avoid overpriced parts if a cheaper alternative offers 90% of the performance.
Always answer with a single JSON object matching the provided schema and nothing else.`

const phoneComponents = `For a 'phone', the base price should be around $450 USD. Include these components:
1. Chipset/CPU
2. RAM
3. Storage
4. Display Size & Type: MUST include refresh rate (e.g. 60Hz, 120Hz LTPO) and peak brightness (e.g. 1000 nits, 2000 nits) in the selection text. The reason explains the trade-offs.
5. Camera System (for specs)
6. Battery
7. Form Factor: mandatory. Options MUST include 'Classic Bar', 'Book-Style Foldable' and 'Clamshell Foldable'.
8. Material & Color
9. Camera Design (for visual layout)
10. Haptic Engine: options MUST include 'Advanced Linear Motor', 'Basic Vibration Motor' and 'No Haptics (Silent Mode Only)'.
11. Audio System: mandatory. Options MUST include 'High-Fidelity Stereo Speakers with Spatial Audio', 'Balanced Stereo Speakers' and 'Standard Mono Speaker'.
12. Biometric Security: options MUST include 'Under-Display Fingerprint & 3D Face Unlock', 'Side-Mounted Fingerprint Sensor' and 'PIN/Pattern Only'.`

const laptopComponents = `For a 'laptop', the base price should be around $800 USD. Include these components:
1. CPU
2. GPU
3. RAM
4. Storage
5. Display: MUST include panel type (OLED, Mini-LED), refresh rate (e.g. 60Hz, 120Hz, 165Hz) and peak brightness (e.g. 500 nits, 1000 nits) in the selection text.
6. Battery
7. Chassis Material & Color
8. Keyboard Layout
9. Keyboard Backlight: mandatory. Options MUST include 'RGB per-key', 'Single-color white' and 'None'.
10. Design Aesthetic
11. Port Selection
12. Webcam & Mics
13. Cooling System: mandatory. Options MUST include 'Advanced Vapor Chamber with Dual Fans & Liquid Metal', 'High-Performance Heat Pipes with RGB Fans', 'Standard Heat Pipes with Single Fan' and 'Passive Cooling (Fanless)'.`

// buildConfigPrompt user prompt for one configuration request
func buildConfigPrompt(userPrompt string, deviceType entity.DeviceType) string {
	components := phoneComponents
	if deviceType == entity.DeviceLaptop {
		components = laptopComponents
	}

	return fmt.Sprintf(`Analyze the user's prompt: %q.
Generate a complete, futuristic %s configuration.

Research and include the latest, most famous chipsets and camera sensors from reputed real-world companies.
- Chipset/CPU: Qualcomm (e.g. Snapdragon 8 Gen 4), Apple (e.g. A18 Pro), MediaTek (e.g. Dimensity 9400), Intel (e.g. Core Ultra 200 series), AMD (e.g. Ryzen 9000 series). Always mention company and model.
- Camera System: Sony (e.g. LYTIA LYT-900, IMX989) or Samsung (e.g. ISOCELL HP2, GNK) sensors. Always mention company and sensor model.

%s

For EACH component:
- 'selection' is the best value choice for the user's needs.
- 'reason' explains why this selection is the best value.
- 'price' is the modification from the base price (0 for the base selection).
- 'options' holds 5-7 diverse alternatives (budget to ultra-premium), each with selection, reason and price.
- The selected item must also be present in the options list.

Also provide 'performanceBenchmarks' with a cpuScore and gpuScore from 0 to 100 and a one-line summary.

Finally provide a creative 'deviceName', a compelling 'description', a detailed 'designDescription' combining the visual elements, a 'basePrice' in USD and a 'totalPrice' in USD (basePrice + sum of selected option prices).`,
		strings.TrimSpace(userPrompt), deviceType, components)
}

// configSchema response schema handed to the model
func configSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	num := &genai.Schema{Type: genai.TypeNumber}
	integer := &genai.Schema{Type: genai.TypeInteger}

	option := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"selection": str,
			"reason":    str,
			"price":     num,
		},
		Required: []string{"selection", "reason", "price"},
	}

	customization := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"component": str,
			"selection": str,
			"reason":    str,
			"price":     num,
			"options":   {Type: genai.TypeArray, Items: option},
		},
		Required: []string{"component", "selection", "reason", "price", "options"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"deviceName":        str,
			"description":       str,
			"designDescription": str,
			"basePrice":         num,
			"customizations":    {Type: genai.TypeArray, Items: customization},
			"totalPrice":        num,
			"performanceBenchmarks": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"cpuScore": integer,
					"gpuScore": integer,
					"summary":  str,
				},
			},
		},
		Required: []string{"deviceName", "description", "designDescription", "basePrice", "customizations", "totalPrice"},
	}
}

const unbrandedSuffix = "Crucially, the device must be clean and unbranded, with no logos, text, or symbols visible on its body."

// buildImagePrompt picks the visual attributes of the subject. Advisor results get a plain studio shot.
func buildImagePrompt(req entity.ImageRequest) string {
	if req.IsAdvisor() {
		return fmt.Sprintf("A professional, clean studio product photograph of the '%s' from %s. The device is angled towards the viewer on a neutral, minimalist background. 8k, ultra-realistic, photorealistic.",
			req.Advisor.DeviceName, req.Advisor.Company)
	}

	cfg := req.Configuration
	if req.DeviceType == entity.DeviceLaptop {
		return fmt.Sprintf("A dynamic, professional studio product photograph of the '%s', a futuristic 2025 laptop. The design is a %s. It is open and angled to showcase its %s. The keyboard is illuminated with %s lighting. The body is made of %s. The screen displays a vibrant, abstract wallpaper. Shot on a neutral, minimalist background with soft lighting. 8k, ultra-realistic, photorealistic. %s",
			cfg.DeviceName,
			cfg.SelectionFor("Design Aesthetic"),
			cfg.SelectionFor("Keyboard Layout"),
			cfg.SelectionFor("Keyboard Backlight"),
			cfg.SelectionFor("Chassis Material & Color"),
			unbrandedSuffix)
	}

	formFactor := "a futuristic 2025 smartphone"
	switch ff := strings.ToLower(cfg.SelectionFor("Form Factor")); {
	case strings.Contains(ff, "book"):
		formFactor = "a book-style foldable smartphone, shown partially open"
	case strings.Contains(ff, "clamshell"):
		formFactor = "a clamshell-style foldable smartphone, shown slightly ajar"
	}
	return fmt.Sprintf("A professional, clean studio product photograph of the '%s', %s. Body: %s. Main Display: %s. Rear camera: %s. Neutral, minimalist background. 8k, ultra-realistic. %s",
		cfg.DeviceName,
		formFactor,
		cfg.SelectionFor("Material & Color"),
		cfg.SelectionFor("Display Size & Type"),
		cfg.SelectionFor("Camera Design"),
		unbrandedSuffix)
}

// buildAdvisorPrompt search-grounded market analysis request
func buildAdvisorPrompt(criteria entity.AdvisorCriteria) string {
	priceRange := criteria.PriceRange
	if priceRange == "" || priceRange == "None" {
		priceRange = "any price"
	}
	priorities := strings.TrimSpace(criteria.Priorities)
	if priorities == "" {
		priorities = "best overall value"
	}

	return fmt.Sprintf(`You are an expert, impartial tech market analyst. Your goal is to help a user find the best real-world device they can buy right now.
You MUST use your search tool to find currently available devices from trusted, well-known companies (e.g. Apple, Samsung, Google, Dell, HP, Microsoft, Lenovo).
The user is looking for a %s.
Their price range is %s.
Their main priorities are: %q.

Based on your search and analysis, recommend the single best %s that fits these criteria.
Provide a detailed analysis including key specs, pros, cons and a clear justification for your choice.
Present your full analysis as a single JSON object inside a markdown code block. The JSON object must conform to this structure:
{
  "deviceName": "string",
  "company": "string",
  "description": "string",
  "approximatePriceUSD": number,
  "keySpecs": ["string"],
  "pros": ["string"],
  "cons": ["string"],
  "reasoning": "string"
}`, criteria.DeviceType, priceRange, priorities, criteria.DeviceType)
}
