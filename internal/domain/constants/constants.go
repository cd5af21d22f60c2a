package constants

// AI model constants
const (
	// GeminiModelName text model used for configuration and advisor requests
	GeminiModelName = "gemini-2.5-flash"

	// ImagenModelName image model used for product renders
	ImagenModelName = "imagen-4.0-generate-001"

	// ImageMIMEType output format of generated product images
	ImageMIMEType = "image/jpeg"

	// AITemperature keeps generated specs fairly deterministic (0.0-1.0)
	AITemperature = 0.3

	// AITopK Top-K sampling parameter
	AITopK = 20

	// AITopP Top-P sampling parameter
	AITopP = 0.9
)

// Image aspect ratios per device type
const (
	PhoneAspectRatio  = "9:16"
	LaptopAspectRatio = "16:9"
)

// Currency constants
const (
	// USDToINRRate fixed conversion rate used for INR display
	USDToINRRate = 83.0

	CurrencyUSD = "USD"
	CurrencyINR = "INR"
)

// Persistence keys. Every record is scoped per owner.
const (
	StorageKeyUser             = "techspec_user"
	StorageKeyBuilds           = "techspec_builds"
	StorageKeyTutorialComplete = "techspec_tutorial_completed"
)

// Pricing defaults requested from the model
const (
	PhoneBasePrice  = 450.0
	LaptopBasePrice = 800.0
)

// NotAvailable placeholder for comparison cells with no value
const NotAvailable = "N/A"

// DesignComponentKeywords marks components whose change affects the product render.
var DesignComponentKeywords = []string{
	"material",
	"display",
	"camera design",
	"keyboard",
	"aesthetic",
	"form factor",
	"biometric",
	"cooling",
	"ports",
	"backlight",
}

// AdvisorPriceRanges enumerated price ranges accepted by the market advisor.
var AdvisorPriceRanges = []string{
	"None",
	"Under $400",
	"$400 - $700",
	"$700 - $1000",
	"$1000+",
}

// HeroPrompt preset request behind the "value flagship" shortcut.
const HeroPrompt = "A distraction-free phone with a world-class camera for photography, exceptional battery life, and powerful on-device AI. It should have essentials like Gmail & WhatsApp, but no social media or other clutter. The design should be minimalist and premium. The final recommended build should be under $360 USD (around ₹30,000 INR) to be a 'value flagship', but you should still offer more expensive upgrade options."

// TutorialStep one onboarding card.
type TutorialStep struct {
	Title string
	Body  string
}

// TutorialSteps onboarding shown to first-time users.
var TutorialSteps = []TutorialStep{
	{
		Title: "Welcome to TechSpec AI!",
		Body:  "Describe your dream phone or laptop and the AI will design a complete, priced build for you.",
	},
	{
		Title: "Two Paths to Your Perfect Device",
		Body:  "Build a custom device from scratch, or let the Market Advisor find the best real device you can buy today.",
	},
	{
		Title: "Save & Manage Your Builds",
		Body:  "Sign in to save builds, reload them later and compare them side by side.",
	},
}
