package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port      string `yaml:"port"`
	Env       string `yaml:"env"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	StaticDir string `yaml:"static_dir"`
	// BodyLimitMB caps request bodies; base64 screenshots are large.
	BodyLimitMB int `yaml:"body_limit_mb"`

	OCR         OCRConfig         `yaml:"ocr"`
	Translation TranslationConfig `yaml:"translation"`
	Content     ContentConfig     `yaml:"content"`
	Cache       CacheConfig       `yaml:"cache"`
	Usage       UsageConfig       `yaml:"usage"`
	HTTP        HTTPConfig        `yaml:"http"`
}

type OCRConfig struct {
	Provider                 string `yaml:"provider"`
	OpenAIKey                string `yaml:"openai_api_key"`
	OpenAIModel              string `yaml:"openai_model"`
	GoogleVisionKey          string `yaml:"google_vision_api_key"`
	GoogleServiceAccountJSON string `yaml:"google_service_account_json"`
	OCRSpaceKey              string `yaml:"ocrspace_api_key"`
	OCRSpaceLanguage         string `yaml:"ocrspace_language"`
	GeminiKey                string `yaml:"gemini_api_key"`
	GeminiModel              string `yaml:"gemini_model"`
	TesseractLanguage        string `yaml:"tesseract_language"`
	BaseURL                  string `yaml:"base_url"`
}

type TranslationConfig struct {
	DefaultTextMethod string            `yaml:"default_text_method"`
	GoogleKey         string            `yaml:"google_api_key"`
	EnableFree        bool              `yaml:"enable_free"`
	OpenAIKey         string            `yaml:"openai_api_key"`
	OpenAIModel       string            `yaml:"openai_model"`
	AnthropicKey      string            `yaml:"anthropic_api_key"`
	ClaudeModel       string            `yaml:"claude_model"`
	BaseURLs          map[string]string `yaml:"base_urls"`
}

type ContentConfig struct {
	JinaBaseURL  string `yaml:"jina_base_url"`
	JinaAPIKey   string `yaml:"jina_api_key"`
	HTMLFallback bool   `yaml:"html_fallback"`
}

type CacheConfig struct {
	Backend    string        `yaml:"backend"` // memory, redis or none
	RedisURL   string        `yaml:"redis_url"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

type UsageConfig struct {
	Driver            string `yaml:"driver"` // postgres, sqlite or none
	DatabaseURL       string `yaml:"database_url"`
	AutoMigrate       bool   `yaml:"auto_migrate"`
	RetentionDays     int    `yaml:"retention_days"`
	RetentionSchedule string `yaml:"retention_schedule"`
}

type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`

	// AllowPrivateFetch lets page and image downloads reach loopback and
	// private addresses. Only for local development.
	AllowPrivateFetch bool `yaml:"allow_private_fetch"`
}

// LoadConfig reads .env, then the optional YAML file named by CONFIG_FILE,
// then environment overrides.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns the development defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:        "8080",
		Env:         "development",
		LogLevel:    "info",
		LogFormat:   "console",
		BodyLimitMB: 50,
		OCR: OCRConfig{
			Provider:          "openai",
			OCRSpaceLanguage:  "eng",
			TesseractLanguage: "eng",
		},
		Translation: TranslationConfig{
			DefaultTextMethod: "claude",
		},
		Content: ContentConfig{
			JinaBaseURL:  "https://r.jina.ai",
			HTMLFallback: true,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTL:        24 * time.Hour,
			MaxEntries: 10000,
		},
		Usage: UsageConfig{
			Driver:            "none",
			RetentionDays:     30,
			RetentionSchedule: "0 3 * * *",
		},
		HTTP: HTTPConfig{
			Timeout:    60 * time.Second,
			MaxRetries: 2,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %q", c.Port)
	}

	switch c.OCR.Provider {
	case "openai", "google", "ocrspace", "gemini", "tesseract":
	default:
		return fmt.Errorf("invalid OCR provider: %s", c.OCR.Provider)
	}

	switch c.Translation.DefaultTextMethod {
	case "none", "google", "google_free", "openai", "claude":
	default:
		return fmt.Errorf("invalid default text method: %s", c.Translation.DefaultTextMethod)
	}

	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when cache backend is redis")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s", c.Cache.Backend)
	}

	switch c.Usage.Driver {
	case "none":
	case "postgres", "sqlite":
		if c.Usage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when usage driver is %s", c.Usage.Driver)
		}
	default:
		return fmt.Errorf("invalid usage driver: %s", c.Usage.Driver)
	}

	if c.BodyLimitMB < 1 {
		return fmt.Errorf("body limit must be at least 1 MB")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http max retries must not be negative")
	}

	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func applyEnvOverrides(cfg *Config) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	flag := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	str("PORT", &cfg.Port)
	str("ENV", &cfg.Env)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("STATIC_DIR", &cfg.StaticDir)
	num("BODY_LIMIT_MB", &cfg.BodyLimitMB)

	str("OCR_PROVIDER", &cfg.OCR.Provider)
	str("OPENAI_API_KEY", &cfg.OCR.OpenAIKey)
	str("OPENAI_OCR_MODEL", &cfg.OCR.OpenAIModel)
	str("GOOGLE_VISION_API_KEY", &cfg.OCR.GoogleVisionKey)
	str("GOOGLE_SERVICE_ACCOUNT_JSON", &cfg.OCR.GoogleServiceAccountJSON)
	str("OCRSPACE_API_KEY", &cfg.OCR.OCRSpaceKey)
	str("OCRSPACE_LANGUAGE", &cfg.OCR.OCRSpaceLanguage)
	str("GEMINI_API_KEY", &cfg.OCR.GeminiKey)
	str("GEMINI_MODEL", &cfg.OCR.GeminiModel)
	str("TESSERACT_LANGUAGE", &cfg.OCR.TesseractLanguage)
	str("OCR_BASE_URL", &cfg.OCR.BaseURL)

	str("DEFAULT_TEXT_METHOD", &cfg.Translation.DefaultTextMethod)
	str("GOOGLE_TRANSLATE_API_KEY", &cfg.Translation.GoogleKey)
	flag("ENABLE_FREE_TRANSLATE", &cfg.Translation.EnableFree)
	str("OPENAI_API_KEY", &cfg.Translation.OpenAIKey)
	str("OPENAI_TRANSLATE_MODEL", &cfg.Translation.OpenAIModel)
	str("ANTHROPIC_API_KEY", &cfg.Translation.AnthropicKey)
	str("CLAUDE_MODEL", &cfg.Translation.ClaudeModel)

	str("JINA_BASE_URL", &cfg.Content.JinaBaseURL)
	str("JINA_API_KEY", &cfg.Content.JinaAPIKey)
	flag("CONTENT_HTML_FALLBACK", &cfg.Content.HTMLFallback)

	str("CACHE_BACKEND", &cfg.Cache.Backend)
	str("REDIS_URL", &cfg.Cache.RedisURL)
	dur("CACHE_TTL", &cfg.Cache.TTL)
	num("CACHE_MAX_ENTRIES", &cfg.Cache.MaxEntries)

	str("USAGE_DB_DRIVER", &cfg.Usage.Driver)
	str("DATABASE_URL", &cfg.Usage.DatabaseURL)
	flag("USAGE_AUTO_MIGRATE", &cfg.Usage.AutoMigrate)
	num("USAGE_RETENTION_DAYS", &cfg.Usage.RetentionDays)
	str("USAGE_RETENTION_SCHEDULE", &cfg.Usage.RetentionSchedule)

	dur("HTTP_TIMEOUT", &cfg.HTTP.Timeout)
	num("HTTP_MAX_RETRIES", &cfg.HTTP.MaxRetries)
	flag("HTTP_ALLOW_PRIVATE_FETCH", &cfg.HTTP.AllowPrivateFetch)

	cfg.OCR.Provider = strings.ToLower(cfg.OCR.Provider)
	cfg.Translation.DefaultTextMethod = strings.ToLower(cfg.Translation.DefaultTextMethod)
	cfg.Cache.Backend = strings.ToLower(cfg.Cache.Backend)
	cfg.Usage.Driver = strings.ToLower(cfg.Usage.Driver)
}
