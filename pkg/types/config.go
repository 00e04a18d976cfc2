// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "answer-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage. Each source is bounded by
// the shared HTTP timeout independently, so a slow source cannot stall the
// other.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of results requested per source
	// (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// SerpAPIKey authenticates web search requests.
	SerpAPIKey string `json:"serpapi_key,omitempty" yaml:"serpapi_key,omitempty"`

	// NCBITool and NCBIEmail identify the client to the NCBI E-utilities per
	// their usage policy. Both optional.
	NCBITool  string `json:"ncbi_tool,omitempty" yaml:"ncbi_tool,omitempty"`
	NCBIEmail string `json:"ncbi_email,omitempty" yaml:"ncbi_email,omitempty"`
}

// ModelProvider identifies a language-model API dialect.
type ModelProvider string

const (
	ProviderOpenAI   ModelProvider = "openai"
	ProviderDeepSeek ModelProvider = "deepseek"
	ProviderGemini   ModelProvider = "gemini"
)

// ModelConfig holds settings for one model backend assignment.
type ModelConfig struct {
	// Provider selects the API dialect: openai, deepseek, or gemini.
	Provider ModelProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gemini-2.0-flash",
	// "deepseek-reasoner", "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the response length (default 1000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature controls sampling randomness.
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// AgentConfig assigns a model backend to each pipeline role and bounds every
// model call with a single timeout.
type AgentConfig struct {
	// Timeout is the per-call deadline for model requests.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// QueryRefiner, Researcher, and Validator configure the backend for each
	// role. Roles are fixed; assignments are resolved once at startup.
	QueryRefiner ModelConfig `json:"query_refiner" yaml:"query_refiner"`
	Researcher   ModelConfig `json:"researcher" yaml:"researcher"`
	Validator    ModelConfig `json:"validator" yaml:"validator"`
}

// ArchiveConfig holds settings for the CLI-side answer archive.
type ArchiveConfig struct {
	// Path is the SQLite database file (default "answers.db").
	Path string `json:"path" yaml:"path"`
}

// Config is the full configuration, constructed once at process start and
// passed into the components that need it. Core logic never reads the
// process environment directly.
type Config struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Agents  AgentConfig   `json:"agents" yaml:"agents"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
}
