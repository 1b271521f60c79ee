package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultModel          = "x-ai/grok-4-fast:free"
	DefaultLLMURL         = "https://openrouter.ai/api/v1/chat/completions"
	DefaultLLMTimeout     = 60 * time.Second
	DefaultSpeechLanguage = "ml-IN"
	DefaultPort           = "5000"
	DefaultMaxUploadBytes = 10 << 20
	// Same ceiling PIL applies before it reports a decompression bomb.
	DefaultMaxImagePixels = 89478485
)

// LLMConfig holds what the advisory dispatcher needs to reach the model.
type LLMConfig struct {
	APIKey         string
	Model          string
	URL            string
	Timeout        time.Duration
	ErrorsAsAnswer bool
}

// SpeechConfig holds the speech-to-text backend settings.
type SpeechConfig struct {
	APIKey   string
	Endpoint string
	Language string
}

// Config is loaded once at start-up and never mutated afterwards.
type Config struct {
	Port           string
	LogLevel       string
	LogJSON        bool
	MaxUploadBytes int64
	MaxImagePixels int64
	AllowedOrigins []string
	LLM            LLMConfig
	Speech         SpeechConfig
}

// LoadEnv reads a local .env file into the process environment. A missing
// file is not an error: the environment may already be populated.
func LoadEnv() error {
	err := godotenv.Load(".env")
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
		return err
	}
	return nil
}

// Load builds the immutable Config from the environment.
func Load() (Config, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		return Config{}, fmt.Errorf("environment variable OPENROUTER_API_KEY is required but not set")
	}

	timeout, err := GetDurationOrDefault("LLM_TIMEOUT", DefaultLLMTimeout)
	if err != nil {
		return Config{}, err
	}
	errorsAsAnswer, err := GetBoolOrDefault("LLM_ERRORS_AS_ANSWER", true)
	if err != nil {
		return Config{}, err
	}
	logJSON, err := GetBoolOrDefault("LOG_JSON", true)
	if err != nil {
		return Config{}, err
	}
	maxUpload, err := GetInt64OrDefault("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	if err != nil {
		return Config{}, err
	}
	if maxUpload <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", maxUpload)
	}
	maxPixels, err := GetInt64OrDefault("MAX_IMAGE_PIXELS", DefaultMaxImagePixels)
	if err != nil {
		return Config{}, err
	}
	if maxPixels <= 0 {
		return Config{}, fmt.Errorf("MAX_IMAGE_PIXELS must be positive, got %d", maxPixels)
	}

	return Config{
		Port:           GetEnvOrDefault("PORT", DefaultPort),
		LogLevel:       GetEnvOrDefault("LOG_LEVEL", "info"),
		LogJSON:        logJSON,
		MaxUploadBytes: maxUpload,
		MaxImagePixels: maxPixels,
		AllowedOrigins: splitList(GetEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		LLM: LLMConfig{
			APIKey:         apiKey,
			Model:          GetEnvOrDefault("LLM_MODEL", DefaultModel),
			URL:            GetEnvOrDefault("LLM_BASE_URL", DefaultLLMURL),
			Timeout:        timeout,
			ErrorsAsAnswer: errorsAsAnswer,
		},
		Speech: SpeechConfig{
			APIKey:   os.Getenv("GOOGLE_SPEECH_API_KEY"),
			Endpoint: os.Getenv("GOOGLE_SPEECH_ENDPOINT"),
			Language: GetEnvOrDefault("SPEECH_LANGUAGE", DefaultSpeechLanguage),
		},
	}, nil
}

func GetEnvOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func GetBoolOrDefault(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
	}
	return parsed, nil
}

func GetInt64OrDefault(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return parsed, nil
}

func GetDurationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return parsed, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
