package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the jobsieve pipeline.
type Config struct {
	AI     AIConfig
	Parse  ParseConfig
	Rates  RatesConfig
	Server ServerConfig
}

// AIConfig points at the extraction service (OpenAI-compatible chat API).
type AIConfig struct {
	BaseURL  string        // defaults to https://api.openai.com/v1
	Model    string        // model identifier, e.g. "gpt-4o-mini"
	APIKey   string        // expanded from env var by Load
	Timeout  time.Duration // per-request wall-clock timeout
	MinDelay time.Duration // minimum spacing between service calls, 0 disables
}

// ParseConfig holds the extraction orchestrator tunables.
type ParseConfig struct {
	MaxRetries        int           // retries after the first failed attempt
	BaseRetryDelay    time.Duration // first backoff delay, doubled per retry
	MaxJDChars        int           // input character budget; longer docs are truncated
	MaxResponseTokens int           // upper bound on the service response size
	EstimateTimeout   time.Duration // salary-estimate request timeout
}

// RatesConfig controls the exchange-rate cache.
type RatesConfig struct {
	CacheTTL time.Duration // refresh interval for cached rates
	Timeout  time.Duration // rate-fetch request timeout
}

// ServerConfig controls the optional HTTP surface (`jobsieve serve`).
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	AI     rawAIConfig    `yaml:"ai"`
	Parse  rawParseConfig `yaml:"parse"`
	Rates  rawRatesConfig `yaml:"rates"`
	Server ServerConfig   `yaml:"server"`
}

type rawAIConfig struct {
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Timeout  string `yaml:"timeout"`
	MinDelay string `yaml:"min_delay"`
}

type rawParseConfig struct {
	MaxRetries        *int   `yaml:"max_retries"`
	BaseRetryDelay    string `yaml:"base_retry_delay"`
	MaxJDChars        int    `yaml:"max_jd_chars"`
	MaxResponseTokens int    `yaml:"max_response_tokens"`
	EstimateTimeout   string `yaml:"estimate_timeout"`
}

type rawRatesConfig struct {
	CacheTTL string `yaml:"cache_ttl"`
	Timeout  string `yaml:"timeout"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// A missing file is tolerated: defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	var raw rawConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables, e.g. api_key: ${OPENAI_API_KEY}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// No file: fall through to defaults.
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromRaw(raw rawConfig) (*Config, error) {
	aiTimeout := 45 * time.Second
	if raw.AI.Timeout != "" {
		d, err := time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
		aiTimeout = d
	}

	baseURL := raw.AI.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	aiModel := raw.AI.Model
	if aiModel == "" {
		aiModel = "gpt-4o-mini"
	}
	apiKey := raw.AI.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	var minDelay time.Duration
	if raw.AI.MinDelay != "" {
		d, err := time.ParseDuration(raw.AI.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse ai.min_delay %q: %w", raw.AI.MinDelay, err)
		}
		minDelay = d
	}

	maxRetries := 2
	if raw.Parse.MaxRetries != nil {
		maxRetries = *raw.Parse.MaxRetries
	}

	baseDelay := 1 * time.Second
	if raw.Parse.BaseRetryDelay != "" {
		d, err := time.ParseDuration(raw.Parse.BaseRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("parse parse.base_retry_delay %q: %w", raw.Parse.BaseRetryDelay, err)
		}
		baseDelay = d
	}

	maxJDChars := 60_000
	if raw.Parse.MaxJDChars > 0 {
		maxJDChars = raw.Parse.MaxJDChars
	}

	maxTokens := 4000
	if raw.Parse.MaxResponseTokens > 0 {
		maxTokens = raw.Parse.MaxResponseTokens
	}

	estimateTimeout := 10 * time.Second
	if raw.Parse.EstimateTimeout != "" {
		d, err := time.ParseDuration(raw.Parse.EstimateTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse parse.estimate_timeout %q: %w", raw.Parse.EstimateTimeout, err)
		}
		estimateTimeout = d
	}

	ratesTTL := 1 * time.Hour
	if raw.Rates.CacheTTL != "" {
		d, err := time.ParseDuration(raw.Rates.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("parse rates.cache_ttl %q: %w", raw.Rates.CacheTTL, err)
		}
		ratesTTL = d
	}

	ratesTimeout := 5 * time.Second
	if raw.Rates.Timeout != "" {
		d, err := time.ParseDuration(raw.Rates.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse rates.timeout %q: %w", raw.Rates.Timeout, err)
		}
		ratesTimeout = d
	}

	addr := raw.Server.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &Config{
		AI: AIConfig{
			BaseURL:  baseURL,
			Model:    aiModel,
			APIKey:   apiKey,
			Timeout:  aiTimeout,
			MinDelay: minDelay,
		},
		Parse: ParseConfig{
			MaxRetries:        maxRetries,
			BaseRetryDelay:    baseDelay,
			MaxJDChars:        maxJDChars,
			MaxResponseTokens: maxTokens,
			EstimateTimeout:   estimateTimeout,
		},
		Rates: RatesConfig{
			CacheTTL: ratesTTL,
			Timeout:  ratesTimeout,
		},
		Server: ServerConfig{Addr: addr},
	}, nil
}

func validate(cfg *Config) error {
	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}
	if cfg.AI.MinDelay < 0 {
		return fmt.Errorf("ai.min_delay must not be negative, got %v", cfg.AI.MinDelay)
	}
	if cfg.Parse.MaxRetries < 0 {
		return fmt.Errorf("parse.max_retries must not be negative, got %d", cfg.Parse.MaxRetries)
	}
	if cfg.Parse.BaseRetryDelay <= 0 {
		return fmt.Errorf("parse.base_retry_delay must be positive, got %v", cfg.Parse.BaseRetryDelay)
	}
	if cfg.Parse.MaxJDChars < 1000 {
		return fmt.Errorf("parse.max_jd_chars must be at least 1000, got %d", cfg.Parse.MaxJDChars)
	}
	if cfg.Rates.CacheTTL <= 0 {
		return fmt.Errorf("rates.cache_ttl must be positive, got %v", cfg.Rates.CacheTTL)
	}
	return nil
}
