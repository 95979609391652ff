// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by collaborators that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// Provider names accepted in ModelConfig.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// ModelConfig selects one generation backend.
type ModelConfig struct {
	// Provider is one of openai, anthropic, gemini.
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the provider's model identifier (e.g. "gpt-3.5-turbo").
	Model string `json:"model" yaml:"model" mapstructure:"model"`
}

// RoleConfig configures the generation backends for one role (a pipeline
// stage, the writer, or the editor). Backends are tried in order; the first
// one that answers serves the call.
type RoleConfig struct {
	Backends []ModelConfig `json:"backends" yaml:"backends" mapstructure:"backends"`

	// Temperature is the sampling temperature for every call this role makes.
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens caps the completion length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LLMConfig holds credentials and per-role backend chains.
type LLMConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	OpenAIAPIKey    string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty" mapstructure:"openai_api_key"`
	OpenAIBaseURL   string `json:"openai_base_url,omitempty" yaml:"openai_base_url,omitempty" mapstructure:"openai_base_url"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty" mapstructure:"anthropic_api_key"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty" mapstructure:"gemini_api_key"`

	Grouper   RoleConfig `json:"grouper" yaml:"grouper" mapstructure:"grouper"`
	Architect RoleConfig `json:"architect" yaml:"architect" mapstructure:"architect"`
	Fixer     RoleConfig `json:"fixer" yaml:"fixer" mapstructure:"fixer"`
	Refiner   RoleConfig `json:"refiner" yaml:"refiner" mapstructure:"refiner"`
	Writer    RoleConfig `json:"writer" yaml:"writer" mapstructure:"writer"`
	Editor    RoleConfig `json:"editor" yaml:"editor" mapstructure:"editor"`
}

// SearchConfig holds settings for the search-results provider.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey authenticates against the Serper API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxResults is the number of organic results to scrape (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Attempts is the total number of lookups tried before giving up (default 3).
	Attempts int `json:"attempts" yaml:"attempts" mapstructure:"attempts"`

	// MinBackoff and MaxBackoff bound the exponential wait between lookups.
	MinBackoff time.Duration `json:"min_backoff" yaml:"min_backoff" mapstructure:"min_backoff"`
	MaxBackoff time.Duration `json:"max_backoff" yaml:"max_backoff" mapstructure:"max_backoff"`
}

// ScrapeConfig holds settings for the heading scraper.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey enables the ScrapingAnt rendering API as the primary fetcher.
	// When empty, pages are fetched directly.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// ProxyURL is the escalation proxy (e.g. a Bright Data Web Unlocker URL
	// with credentials). Used only when the primary fetch is blocked.
	ProxyURL string `json:"proxy_url,omitempty" yaml:"proxy_url,omitempty" mapstructure:"proxy_url"`

	// Delay is the pause between consecutive page fetches.
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// EntityConfig holds settings for named-entity extraction.
type EntityConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// TopN is the number of most frequent entities kept (default 20).
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`
}

// StoreConfig holds settings for the SQLite store.
type StoreConfig struct {
	// Path is the database file path.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// QueueConfig holds settings for the in-process task queue.
type QueueConfig struct {
	// Workers bounds the number of runs executing at once (default 2).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// LoggingConfig holds settings for structured logging.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File is an optional log file path; stderr is used when empty.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// Config groups every setting for the application.
type Config struct {
	LLM     LLMConfig     `json:"llm" yaml:"llm" mapstructure:"llm"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Scrape  ScrapeConfig  `json:"scrape" yaml:"scrape" mapstructure:"scrape"`
	Entity  EntityConfig  `json:"entity" yaml:"entity" mapstructure:"entity"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Queue   QueueConfig   `json:"queue" yaml:"queue" mapstructure:"queue"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// DefaultConfig returns the configuration used when no file or environment
// overrides are present. Model choices favour cost-effective models; the
// architect and editor fall back to OpenAI when Anthropic is unavailable.
func DefaultConfig() Config {
	anthropicThenOpenAI := func(model string) []ModelConfig {
		return []ModelConfig{
			{Provider: ProviderAnthropic, Model: model},
			{Provider: ProviderOpenAI, Model: "gpt-3.5-turbo"},
		}
	}
	openaiOnly := func() []ModelConfig {
		return []ModelConfig{{Provider: ProviderOpenAI, Model: "gpt-3.5-turbo"}}
	}

	return Config{
		LLM: LLMConfig{
			HTTPConfig: HTTPConfig{Timeout: 120 * time.Second, UserAgent: "seo-agent/0.1"},
			Grouper:    RoleConfig{Backends: openaiOnly(), Temperature: 0, MaxTokens: 4096},
			Architect:  RoleConfig{Backends: anthropicThenOpenAI("claude-3-haiku-20240307"), Temperature: 0, MaxTokens: 4096},
			Fixer:      RoleConfig{Backends: openaiOnly(), Temperature: 0, MaxTokens: 4096},
			Refiner:    RoleConfig{Backends: anthropicThenOpenAI("claude-3-sonnet-20240229"), Temperature: 0, MaxTokens: 4096},
			Writer:     RoleConfig{Backends: openaiOnly(), Temperature: 0.7, MaxTokens: 4096},
			Editor:     RoleConfig{Backends: anthropicThenOpenAI("claude-3-haiku-20240307"), Temperature: 0, MaxTokens: 2048},
		},
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{Timeout: 30 * time.Second, UserAgent: "seo-agent/0.1"},
			MaxResults: 10,
			Attempts:   3,
			MinBackoff: 2 * time.Second,
			MaxBackoff: 10 * time.Second,
		},
		Scrape: ScrapeConfig{
			HTTPConfig: HTTPConfig{Timeout: 180 * time.Second, UserAgent: defaultUserAgent},
		},
		Entity:  EntityConfig{Enabled: true, TopN: 20},
		Store:   StoreConfig{Path: "data/seo-agent.db"},
		Queue:   QueueConfig{Workers: 2},
		Server:  ServerConfig{Addr: ":8000"},
		Logging: LoggingConfig{Level: "INFO"},
	}
}
