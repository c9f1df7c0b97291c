package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for skillsift.
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	NER       NERConfig
	Analysis  AnalysisConfig
}

// ServerConfig controls the HTTP front end.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LLMConfig selects and configures the text-generation oracle.
type LLMConfig struct {
	Provider       string // "openai" or "ollama"
	BaseURL        string
	Model          string
	APIKey         string // expanded from env var by Load
	Temperature    float64
	Timeout        time.Duration // per-request timeout
	EnsureResident bool          // ollama only: load the model before generating
	KeepAlive      string        // ollama keep_alive sent with the load request
}

// EmbeddingConfig configures the embedding oracle and its cache tiers.
type EmbeddingConfig struct {
	Provider   string // "openai" or "ollama"
	BaseURL    string
	Model      string
	APIKey     string
	Timeout    time.Duration
	CacheSize  int
	Store      string // "none", "sqlite" or "redis"
	SQLitePath string
	RedisURL   string
	RedisTTL   time.Duration // 0 keeps entries forever
}

// NERConfig configures the optional entity-recognition oracle.
type NERConfig struct {
	Enabled bool
	URL     string
	Token   string
	Timeout time.Duration
}

// AnalysisConfig holds the tunables of the analysis stages.
type AnalysisConfig struct {
	SkillSource        string // "llm" or "ner"
	TechnicalThreshold float64
	SupportBonus       float64
	MergeThreshold     float64
	ChunkSize          int
}

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	StoreNone   = "none"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"

	SkillSourceLLM = "llm"
	SkillSourceNER = "ner"
)

const (
	defaultAddr          = ":8000"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOllamaBaseURL = "http://localhost:11434"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Server    rawServerConfig    `yaml:"server"`
	LLM       rawLLMConfig       `yaml:"llm"`
	Embedding rawEmbeddingConfig `yaml:"embedding"`
	NER       rawNERConfig       `yaml:"ner"`
	Analysis  rawAnalysisConfig  `yaml:"analysis"`
}

type rawServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

type rawLLMConfig struct {
	Provider       string   `yaml:"provider"`
	BaseURL        string   `yaml:"base_url"`
	Model          string   `yaml:"model"`
	APIKey         string   `yaml:"api_key"`
	Temperature    *float64 `yaml:"temperature"`
	Timeout        string   `yaml:"timeout"`
	EnsureResident bool     `yaml:"ensure_resident"`
	KeepAlive      string   `yaml:"keep_alive"`
}

type rawEmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Timeout    string `yaml:"timeout"`
	CacheSize  int    `yaml:"cache_size"`
	Store      string `yaml:"store"`
	SQLitePath string `yaml:"sqlite_path"`
	RedisURL   string `yaml:"redis_url"`
	RedisTTL   string `yaml:"redis_ttl"`
}

type rawNERConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"`
}

type rawAnalysisConfig struct {
	SkillSource        string   `yaml:"skill_source"`
	TechnicalThreshold *float64 `yaml:"technical_threshold"`
	SupportBonus       *float64 `yaml:"support_bonus"`
	MergeThreshold     *float64 `yaml:"merge_threshold"`
	ChunkSize          int      `yaml:"chunk_size"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
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
	var err error
	cfg := &Config{}

	cfg.Server.Addr = orDefault(raw.Server.Addr, defaultAddr)
	if cfg.Server.ReadTimeout, err = parseDuration("server.read_timeout", raw.Server.ReadTimeout, 30*time.Second); err != nil {
		return nil, err
	}
	// Analyses queue behind a single worker, so writes get a generous default.
	if cfg.Server.WriteTimeout, err = parseDuration("server.write_timeout", raw.Server.WriteTimeout, 10*time.Minute); err != nil {
		return nil, err
	}

	llmProvider := strings.ToLower(orDefault(raw.LLM.Provider, ProviderOpenAI))
	cfg.LLM = LLMConfig{
		Provider:       llmProvider,
		BaseURL:        orDefault(raw.LLM.BaseURL, defaultBaseURL(llmProvider)),
		Model:          raw.LLM.Model,
		APIKey:         raw.LLM.APIKey,
		Temperature:    floatOr(raw.LLM.Temperature, 0.7),
		EnsureResident: raw.LLM.EnsureResident,
		KeepAlive:      orDefault(raw.LLM.KeepAlive, "30m"),
	}
	if cfg.LLM.Timeout, err = parseDuration("llm.timeout", raw.LLM.Timeout, 2*time.Minute); err != nil {
		return nil, err
	}

	embProvider := strings.ToLower(orDefault(raw.Embedding.Provider, ProviderOpenAI))
	cfg.Embedding = EmbeddingConfig{
		Provider:   embProvider,
		BaseURL:    orDefault(raw.Embedding.BaseURL, defaultBaseURL(embProvider)),
		Model:      raw.Embedding.Model,
		APIKey:     raw.Embedding.APIKey,
		CacheSize:  raw.Embedding.CacheSize,
		Store:      strings.ToLower(orDefault(raw.Embedding.Store, StoreNone)),
		SQLitePath: orDefault(raw.Embedding.SQLitePath, "skillsift.db"),
		RedisURL:   raw.Embedding.RedisURL,
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 5000
	}
	if cfg.Embedding.Timeout, err = parseDuration("embedding.timeout", raw.Embedding.Timeout, 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Embedding.RedisTTL, err = parseDuration("embedding.redis_ttl", raw.Embedding.RedisTTL, 0); err != nil {
		return nil, err
	}

	cfg.NER = NERConfig{
		Enabled: raw.NER.Enabled,
		URL:     raw.NER.URL,
		Token:   raw.NER.Token,
	}
	if cfg.NER.Timeout, err = parseDuration("ner.timeout", raw.NER.Timeout, 30*time.Second); err != nil {
		return nil, err
	}

	cfg.Analysis = AnalysisConfig{
		SkillSource:        strings.ToLower(orDefault(raw.Analysis.SkillSource, SkillSourceLLM)),
		TechnicalThreshold: floatOr(raw.Analysis.TechnicalThreshold, 0.55),
		SupportBonus:       floatOr(raw.Analysis.SupportBonus, 0.05),
		MergeThreshold:     floatOr(raw.Analysis.MergeThreshold, 0.75),
		ChunkSize:          raw.Analysis.ChunkSize,
	}
	if cfg.Analysis.ChunkSize == 0 {
		cfg.Analysis.ChunkSize = 50
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.ReadTimeout <= 0 || cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	switch cfg.LLM.Provider {
	case ProviderOpenAI:
		if cfg.LLM.APIKey == "" && cfg.LLM.BaseURL == defaultOpenAIBaseURL {
			return fmt.Errorf("llm.api_key is required for the hosted openai endpoint")
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenAI, ProviderOllama, cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive, got %v", cfg.LLM.Timeout)
	}
	if cfg.LLM.EnsureResident && cfg.LLM.Provider != ProviderOllama {
		return fmt.Errorf("llm.ensure_resident is only supported with the ollama provider")
	}

	switch cfg.Embedding.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("embedding.provider must be %q or %q, got %q", ProviderOpenAI, ProviderOllama, cfg.Embedding.Provider)
	}
	if cfg.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if cfg.Embedding.CacheSize < 0 {
		return fmt.Errorf("embedding.cache_size must be positive, got %d", cfg.Embedding.CacheSize)
	}
	switch cfg.Embedding.Store {
	case StoreNone, StoreSQLite:
	case StoreRedis:
		if cfg.Embedding.RedisURL == "" {
			return fmt.Errorf("embedding.redis_url is required when embedding.store is \"redis\"")
		}
	default:
		return fmt.Errorf("embedding.store must be one of none, sqlite, redis; got %q", cfg.Embedding.Store)
	}

	if cfg.NER.Enabled && cfg.NER.URL == "" {
		return fmt.Errorf("ner.url is required when ner.enabled is true")
	}

	switch cfg.Analysis.SkillSource {
	case SkillSourceLLM:
	case SkillSourceNER:
		if !cfg.NER.Enabled {
			return fmt.Errorf("analysis.skill_source \"ner\" requires ner.enabled")
		}
	default:
		return fmt.Errorf("analysis.skill_source must be %q or %q, got %q", SkillSourceLLM, SkillSourceNER, cfg.Analysis.SkillSource)
	}
	if cfg.Analysis.MergeThreshold <= 0 || cfg.Analysis.MergeThreshold > 1 {
		return fmt.Errorf("analysis.merge_threshold must be in (0, 1], got %v", cfg.Analysis.MergeThreshold)
	}
	if cfg.Analysis.TechnicalThreshold <= 0 || cfg.Analysis.TechnicalThreshold > 1 {
		return fmt.Errorf("analysis.technical_threshold must be in (0, 1], got %v", cfg.Analysis.TechnicalThreshold)
	}
	if cfg.Analysis.ChunkSize < 0 {
		return fmt.Errorf("analysis.chunk_size must be positive, got %d", cfg.Analysis.ChunkSize)
	}

	return nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func defaultBaseURL(provider string) string {
	if provider == ProviderOllama {
		return defaultOllamaBaseURL
	}
	return defaultOpenAIBaseURL
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
