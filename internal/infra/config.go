package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	VisionProviderGemini = "gemini"
	VisionProviderOpenAI = "openai"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiVisionModel string
	GeminiImageModel  string

	VisionProvider string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	OpenAIOrg      string

	MaxImageDimension  int
	GenerationRetries  int
	IterativeRetries   int
	RetryBaseDelay     time.Duration
	ProviderRatePerMin int
	ProviderTimeout    time.Duration
	MaxUploadBytes     int64
	MaxIterations      int
	StoragePath        string
	CORSAllowedOrigins []string
	RateLimitPerMin    int
	GeoIPDBPath        string
	DefaultLocale      string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		GeminiAPIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:      strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")),
		GeminiVisionModel:  getEnv("GEMINI_VISION_MODEL", "gemini-2.0-flash-exp"),
		GeminiImageModel:   getEnv("GEMINI_IMAGE_MODEL", "gemini-2.0-flash-exp"),
		VisionProvider:     strings.ToLower(getEnv("VISION_PROVIDER", VisionProviderGemini)),
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		MaxImageDimension:  getEnvInt("MAX_IMAGE_DIMENSION", 1024),
		GenerationRetries:  getEnvInt("GENERATION_MAX_RETRIES", 3),
		IterativeRetries:   getEnvInt("ITERATIVE_MAX_RETRIES", 2),
		RetryBaseDelay:     getEnvDuration("RETRY_BASE_DELAY", time.Second),
		ProviderRatePerMin: getEnvInt("PROVIDER_REQUESTS_PER_MINUTE", 0),
		ProviderTimeout:    getEnvDuration("PROVIDER_TIMEOUT", 120*time.Second),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		MaxIterations:      getEnvInt("MAX_ITERATIONS", 5),
		StoragePath:        strings.TrimSpace(os.Getenv("STORAGE_PATH")),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	switch cfg.VisionProvider {
	case VisionProviderGemini:
	case VisionProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when VISION_PROVIDER=openai")
		}
	default:
		return nil, fmt.Errorf("unsupported VISION_PROVIDER %q", cfg.VisionProvider)
	}

	if cfg.GenerationRetries < 1 {
		cfg.GenerationRetries = 1
	}
	if cfg.IterativeRetries < 1 {
		cfg.IterativeRetries = 1
	}
	if cfg.MaxIterations < 1 {
		cfg.MaxIterations = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
