package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
llm:
  provider: ollama
  model: llama3.1
embedding:
  provider: ollama
  model: nomic-embed-text
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Errorf("Server.Addr = %q, want :8000", cfg.Server.Addr)
	}
	if cfg.Server.WriteTimeout != 10*time.Minute {
		t.Errorf("Server.WriteTimeout = %v, want 10m", cfg.Server.WriteTimeout)
	}
	if cfg.LLM.BaseURL != "http://localhost:11434" {
		t.Errorf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("LLM.Temperature = %v, want 0.7", cfg.LLM.Temperature)
	}
	if cfg.Embedding.CacheSize != 5000 {
		t.Errorf("Embedding.CacheSize = %d, want 5000", cfg.Embedding.CacheSize)
	}
	if cfg.Embedding.Store != StoreNone {
		t.Errorf("Embedding.Store = %q, want none", cfg.Embedding.Store)
	}
	a := cfg.Analysis
	if a.SkillSource != SkillSourceLLM || a.TechnicalThreshold != 0.55 || a.SupportBonus != 0.05 ||
		a.MergeThreshold != 0.75 || a.ChunkSize != 50 {
		t.Errorf("Analysis = %+v", a)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	t.Setenv("SKILLSIFT_TEST_KEY", "sk-test")
	path := writeConfig(t, `
server:
  addr: 127.0.0.1:9000
  read_timeout: 5s
  write_timeout: 3m
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: ${SKILLSIFT_TEST_KEY}
  temperature: 0
  timeout: 45s
embedding:
  provider: openai
  model: text-embedding-3-small
  api_key: ${SKILLSIFT_TEST_KEY}
  cache_size: 100
  store: redis
  redis_url: redis://localhost:6379/0
  redis_ttl: 24h
ner:
  enabled: true
  url: http://ner.local/predict
  timeout: 10s
analysis:
  skill_source: ner
  technical_threshold: 0.6
  support_bonus: 0
  merge_threshold: 0.8
  chunk_size: 25
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.ReadTimeout != 5*time.Second || cfg.Server.WriteTimeout != 3*time.Minute {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM.APIKey = %q, want expanded env value", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Temperature != 0 {
		t.Errorf("LLM.Temperature = %v, want explicit 0", cfg.LLM.Temperature)
	}
	if cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("LLM.Timeout = %v", cfg.LLM.Timeout)
	}
	if cfg.Embedding.Store != StoreRedis || cfg.Embedding.RedisTTL != 24*time.Hour || cfg.Embedding.CacheSize != 100 {
		t.Errorf("Embedding = %+v", cfg.Embedding)
	}
	if !cfg.NER.Enabled || cfg.NER.Timeout != 10*time.Second {
		t.Errorf("NER = %+v", cfg.NER)
	}
	if cfg.Analysis.SkillSource != SkillSourceNER || cfg.Analysis.SupportBonus != 0 || cfg.Analysis.ChunkSize != 25 {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "llm: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{"bad duration", "server:\n  read_timeout: soon\n", "server.read_timeout"},
		{"chunk size override", "analysis:\n  chunk_size: 10\n", ""},
		{"ner source without ner", "analysis:\n  skill_source: ner\n", "requires ner.enabled"},
		{"unknown skill source", "analysis:\n  skill_source: regex\n", "analysis.skill_source"},
		{"merge threshold too high", "analysis:\n  merge_threshold: 1.5\n", "merge_threshold"},
		{"ner without url", "ner:\n  enabled: true\n", "ner.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, minimalConfig+tt.extra))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Load: unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_StoreValidation(t *testing.T) {
	base := `
llm:
  provider: ollama
  model: llama3.1
embedding:
  provider: ollama
  model: nomic-embed-text
`
	if _, err := Load(writeConfig(t, base+"  store: redis\n")); err == nil || !strings.Contains(err.Error(), "redis_url") {
		t.Errorf("redis without url: err = %v", err)
	}
	if _, err := Load(writeConfig(t, base+"  store: etcd\n")); err == nil {
		t.Error("unknown store: expected error")
	}
	cfg, err := Load(writeConfig(t, base+"  store: SQLite\n  sqlite_path: /tmp/x.db\n"))
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	if cfg.Embedding.Store != StoreSQLite || cfg.Embedding.SQLitePath != "/tmp/x.db" {
		t.Errorf("Embedding = %+v", cfg.Embedding)
	}
}

func TestLoad_ProviderValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown llm provider",
			content: "llm:\n  provider: bard\n  model: x\nembedding:\n  provider: ollama\n  model: e\n",
			wantErr: "llm.provider",
		},
		{
			name:    "missing llm model",
			content: "llm:\n  provider: ollama\nembedding:\n  provider: ollama\n  model: e\n",
			wantErr: "llm.model",
		},
		{
			name:    "hosted openai without key",
			content: "llm:\n  provider: openai\n  model: gpt-4o-mini\nembedding:\n  provider: ollama\n  model: e\n",
			wantErr: "llm.api_key",
		},
		{
			name:    "ensure_resident needs ollama",
			content: "llm:\n  provider: openai\n  base_url: http://vllm:8000/v1\n  model: m\n  ensure_resident: true\nembedding:\n  provider: ollama\n  model: e\n",
			wantErr: "ensure_resident",
		},
		{
			name:    "missing embedding model",
			content: "llm:\n  provider: ollama\n  model: m\nembedding:\n  provider: ollama\n",
			wantErr: "embedding.model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_SelfHostedOpenAIWithoutKey(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
llm:
  provider: openai
  base_url: http://vllm.local:8000/v1
  model: qwen2.5
embedding:
  provider: ollama
  model: nomic-embed-text
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.LLM.APIKey)
	}
}
