package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/yourusername/techspec-bot/internal/domain/constants"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config application configuration
type Config struct {
	TelegramToken     string
	GeminiAPIKey      string
	TextModel         string
	ImageModel        string
	AllowEmptySecrets bool

	StorageBackend string
	StorageDir     string
	DatabaseURL    string

	INRRate float64
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		TelegramToken:     strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		TextModel:         getEnv("GEMINI_TEXT_MODEL", constants.GeminiModelName),
		ImageModel:        getEnv("GEMINI_IMAGE_MODEL", constants.ImagenModelName),
		AllowEmptySecrets: getEnvBool("ALLOW_EMPTY_SECRETS", false),
		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile)),
		StorageDir:        getEnv("STORAGE_DIR", "data"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		INRRate:           constants.USDToINRRate,
	}

	rate, err := getEnvFloat("INR_RATE", constants.USDToINRRate)
	if err != nil {
		return nil, fmt.Errorf("INR_RATE is malformed: %v", err)
	}
	if rate <= 0 {
		return nil, fmt.Errorf("INR_RATE must be positive, got %v", rate)
	}
	config.INRRate = rate

	switch config.StorageBackend {
	case StorageMemory, StorageFile:
	case StoragePostgres:
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", config.StorageBackend)
	}

	if !config.AllowEmptySecrets {
		if config.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is empty")
		}
		if config.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is empty")
		}
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	// "83,5" is accepted as well
	value = strings.ReplaceAll(value, ",", ".")
	return strconv.ParseFloat(value, 64)
}
