package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LLMConfig holds connection details for an OpenAI-compatible chat
// completions endpoint.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Key         string  `yaml:"key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// EmbedConfig selects the embedding provider.
type EmbedConfig struct {
	Provider string `yaml:"provider"` // "openai" or "ollama"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

// RAGConfig tunes chunking and retrieval.
type RAGConfig struct {
	ChunkSize       int    `yaml:"chunk_size"`
	ChunkOverlap    int    `yaml:"chunk_overlap"`
	TopK            int    `yaml:"top_k"`
	MaxContextChars int    `yaml:"max_context_chars"`
	VectorDBPath    string `yaml:"vector_db_path"`
	Collection      string `yaml:"collection"`
	InMemory        bool   `yaml:"in_memory"`
}

// SessionConfig bounds the in-memory conversation store.
type SessionConfig struct {
	Capacity int `yaml:"capacity"`
}

// DatabaseConfig holds the optional durable conversation log database.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type Config struct {
	GenLLM   LLMConfig      `yaml:"gen_llm"`
	EmbedLLM EmbedConfig    `yaml:"embed_llm"`
	RAG      RAGConfig      `yaml:"rag"`
	Sessions SessionConfig  `yaml:"sessions"`
	Database DatabaseConfig `yaml:"database"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.GenLLM.BaseURL == "" {
		cfg.GenLLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.GenLLM.Model == "" {
		cfg.GenLLM.Model = "llama-3.1-8b-instant"
	}
	if cfg.GenLLM.Temperature == 0 {
		cfg.GenLLM.Temperature = 0.7
	}
	if cfg.GenLLM.MaxTokens == 0 {
		cfg.GenLLM.MaxTokens = 200
	}
	if cfg.GenLLM.TimeoutSecs == 0 {
		cfg.GenLLM.TimeoutSecs = 10
	}
	if cfg.EmbedLLM.Provider == "" {
		cfg.EmbedLLM.Provider = "ollama"
	}
	if cfg.EmbedLLM.BaseURL == "" {
		cfg.EmbedLLM.BaseURL = "http://localhost:11434"
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = "nomic-embed-text"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 100
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 3
	}
	if cfg.RAG.MaxContextChars == 0 {
		cfg.RAG.MaxContextChars = 800
	}
	if cfg.RAG.VectorDBPath == "" {
		cfg.RAG.VectorDBPath = "./data/vectorstore"
	}
	if cfg.RAG.Collection == "" {
		cfg.RAG.Collection = "prodesk_knowledge"
	}
	if cfg.Sessions.Capacity == 0 {
		cfg.Sessions.Capacity = 1000
	}
}
