package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultConfigPath is read when no explicit path is given.
const DefaultConfigPath = "config.yaml"

// Config holds all configuration for ekaya-insights.
// Configuration can come from YAML file (config.yaml), a .env file, or
// environment variables. Environment variables always override YAML values.
// Secrets (API keys) must only come from the environment.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:""` // Auto-derived if empty
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:""`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// TLS configuration (optional - if both provided, server uses HTTPS)
	TLSCertPath string `yaml:"tls_cert_path" env:"TLS_CERT_PATH" env-default:""`
	TLSKeyPath  string `yaml:"tls_key_path" env:"TLS_KEY_PATH" env-default:""`

	// DataDir holds the sample_*.csv files loaded at startup.
	DataDir string `yaml:"data_dir" env:"DATA_DIR" env-default:"data"`

	// UIDir is served at / when it exists.
	UIDir string `yaml:"ui_dir" env:"UI_DIR" env-default:"ui/dist"`

	LLM       LLMConfig       `yaml:"llm"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	MCP       MCPConfig       `yaml:"mcp"`
}

// LLMConfig selects and tunes the completion provider.
type LLMConfig struct {
	Provider       string  `yaml:"provider" env:"LLM_PROVIDER" env-default:"gemini"`
	Model          string  `yaml:"model" env:"LLM_MODEL" env-default:""`     // Provider default if empty
	BaseURL        string  `yaml:"base_url" env:"LLM_BASE_URL" env-default:""` // Provider default if empty
	TimeoutSeconds int     `yaml:"timeout_seconds" env:"LLM_TIMEOUT" env-default:"60"`
	Temperature    float64 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.2"`

	// Secrets - not in YAML
	GeminiAPIKey    string `yaml:"-" env:"GEMINI_API_KEY"`
	GoogleAIAPIKey  string `yaml:"-" env:"GOOGLE_AI_API_KEY"`
	OpenAIAPIKey    string `yaml:"-" env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"`
}

// RateLimitConfig bounds how fast a single client may submit questions.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"2"`
	Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"5"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	// AllowedOriginsStr is a comma-separated list of origins.
	AllowedOriginsStr string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`

	// AllowedOrigins is parsed from AllowedOriginsStr (not from config file).
	AllowedOrigins []string `yaml:"-"`
}

// MCPConfig controls the MCP tool endpoint.
type MCPConfig struct {
	Enabled bool `yaml:"enabled" env:"MCP_ENABLED" env-default:"true"`
}

// APIKey returns the credential for the configured provider.
// Gemini accepts either GEMINI_API_KEY or GOOGLE_AI_API_KEY.
func (c *LLMConfig) APIKey() string {
	switch strings.ToLower(c.Provider) {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		if c.GeminiAPIKey != "" {
			return c.GeminiAPIKey
		}
		return c.GoogleAIAPIKey
	}
}

// Timeout returns the per-completion deadline. Zero disables it.
func (c *LLMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks that the provider is known and has a credential. Only
// commands that call the LLM need this.
func (c *LLMConfig) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "gemini":
		if c.APIKey() == "" {
			return fmt.Errorf("GEMINI_API_KEY or GOOGLE_AI_API_KEY environment variable is required")
		}
	case "openai":
		// OpenAI-compatible local endpoints may not need a key.
		if c.APIKey() == "" && c.BaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
	case "anthropic":
		if c.APIKey() == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
	default:
		return fmt.Errorf("unsupported llm provider %q (want gemini, openai or anthropic)", c.Provider)
	}
	return nil
}

// Load reads configuration from config.yaml in the working directory.
func Load(version string) (*Config, error) {
	return LoadFrom(DefaultConfigPath, version)
}

// LoadFrom reads configuration from path with .env and environment overrides.
// A missing file is not an error; defaults and the environment are used instead.
func LoadFrom(path, version string) (*Config, error) {
	// .env never overrides variables already set in the process environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	cfg.parseComplexFields()

	if err := cfg.validateTLS(); err != nil {
		return nil, fmt.Errorf("invalid TLS configuration: %w", err)
	}

	if cfg.BindAddr == "" {
		cfg.BindAddr = DefaultBindAddr()
	}

	if cfg.LLM.BaseURL != "" {
		cfg.LLM.BaseURL = ResolveURLForDocker(cfg.LLM.BaseURL)
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		scheme := "http"
		if cfg.TLSCertPath != "" {
			scheme = "https"
		}
		cfg.BaseURL = (&url.URL{
			Scheme: scheme,
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}

// parseComplexFields handles fields that need post-processing after loading.
func (c *Config) parseComplexFields() {
	c.CORS.AllowedOrigins = parseList(c.CORS.AllowedOriginsStr)
}

// validateTLS ensures TLS configuration is valid if provided.
// Both cert and key must be provided together, and files must exist.
func (c *Config) validateTLS() error {
	certSet := c.TLSCertPath != ""
	keySet := c.TLSKeyPath != ""

	if certSet != keySet {
		return fmt.Errorf("both tls_cert_path and tls_key_path must be provided together")
	}

	if certSet {
		if _, err := os.Stat(c.TLSCertPath); err != nil {
			return fmt.Errorf("TLS cert file does not exist: %w", err)
		}
		if _, err := os.Stat(c.TLSKeyPath); err != nil {
			return fmt.Errorf("TLS key file does not exist: %w", err)
		}
	}

	return nil
}

// parseList splits a comma-separated value, dropping empty items.
func parseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
