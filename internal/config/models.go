package config

import (
	"time"
)

// ServerConfig represents the configuration for the HTTP server
type ServerConfig struct {
	ListenAddress   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AnalysisConfig represents the configuration for the analysis service
type AnalysisConfig struct {
	Provider        string
	Timeout         time.Duration
	MaxContentBytes int
	TrustedDomains  []string
}

// ToolConfig represents the configuration for the Tool page forms
type ToolConfig struct {
	SessionTTL      time.Duration
	RefreshInterval time.Duration
}

// MockConfig represents the configuration for the mock classifier
type MockConfig struct {
	Delay time.Duration
	Score int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// CacheConfig represents the configuration for the verdict cache
type CacheConfig struct {
	Enabled          bool
	Type             string
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	PostgresDSN      string
}

// SMTPConfig represents the configuration for the SMTP content filter
type SMTPConfig struct {
	Enabled         bool
	ListenAddress   string
	Domain          string
	BlockSuspicious bool
	RelayAddress    string
	RelayPort       int
	RelayEnabled    bool
	VerdictHeader   string
	ScoreHeader     string
	ReasonHeader    string
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	read, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	write, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	shutdown, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		ReadTimeout:     read,
		WriteTimeout:    write,
		ShutdownTimeout: shutdown,
	}, nil
}

// GetAnalysis returns the analysis service configuration
func (c *Config) GetAnalysis() (AnalysisConfig, error) {
	timeout, err := c.GetDuration("analysis.timeout")
	if err != nil {
		return AnalysisConfig{}, err
	}
	return AnalysisConfig{
		Provider:        c.GetString("analysis.provider"),
		Timeout:         timeout,
		MaxContentBytes: c.GetInt("analysis.max_content_bytes"),
		TrustedDomains:  c.GetStringSlice("analysis.trusted_domains"),
	}, nil
}

// GetTool returns the Tool page configuration
func (c *Config) GetTool() (ToolConfig, error) {
	ttl, err := c.GetDuration("tool.session_ttl")
	if err != nil {
		return ToolConfig{}, err
	}
	refresh, err := c.GetDuration("tool.refresh_interval")
	if err != nil {
		return ToolConfig{}, err
	}
	return ToolConfig{SessionTTL: ttl, RefreshInterval: refresh}, nil
}

// GetMock returns the mock classifier configuration
func (c *Config) GetMock() (MockConfig, error) {
	delay, err := c.GetDuration("mock.delay")
	if err != nil {
		return MockConfig{}, err
	}
	return MockConfig{Delay: delay, Score: c.GetInt("mock.score")}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetCache returns the verdict cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Enabled:          c.GetBool("cache.enabled"),
		Type:             c.GetString("cache.type"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
		PostgresDSN:      c.GetString("cache.postgres_dsn"),
	}, nil
}

// GetSMTP returns the SMTP content filter configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Enabled:         c.GetBool("smtp.enabled"),
		ListenAddress:   c.GetString("smtp.listen_address"),
		Domain:          c.GetString("smtp.domain"),
		BlockSuspicious: c.GetBool("smtp.block_suspicious"),
		RelayAddress:    c.GetString("smtp.relay_address"),
		RelayPort:       c.GetInt("smtp.relay_port"),
		RelayEnabled:    c.GetBool("smtp.relay_enabled"),
		VerdictHeader:   c.GetString("smtp.headers.verdict"),
		ScoreHeader:     c.GetString("smtp.headers.score"),
		ReasonHeader:    c.GetString("smtp.headers.reason"),
	}
}
