package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"docqa/internal/domain"
)

// PipelineConfig holds the per-query pipeline defaults.
type PipelineConfig struct {
	ChunkSize       int  `mapstructure:"chunk_size" yaml:"chunk_size"`
	ChunkOverlap    int  `mapstructure:"chunk_overlap" yaml:"chunk_overlap"`
	UseEmbeddings   bool `mapstructure:"use_embeddings" yaml:"use_embeddings"`
	TopK            int  `mapstructure:"top_k" yaml:"top_k"`
	MinSignalTokens int  `mapstructure:"min_signal_tokens" yaml:"min_signal_tokens"`
}

// HugotEmbedderConfig configures local sentence-transformer embeddings.
type HugotEmbedderConfig struct {
	ModelDir string `mapstructure:"model_dir" yaml:"model_dir"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
	APIKeyEnv   string `mapstructure:"api_key_env" yaml:"api_key_env"`
	TimeoutSecs int    `mapstructure:"timeout_secs" yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
// Type is one of hugot, openai or tfidf.
type EmbedderConfig struct {
	Type   string               `mapstructure:"type" yaml:"type"`
	Model  string               `mapstructure:"model" yaml:"model"`
	Hugot  HugotEmbedderConfig  `mapstructure:"hugot" yaml:"hugot"`
	OpenAI OpenAIEmbedderConfig `mapstructure:"openai" yaml:"openai"`
}

// LLMConfig configures the completion service.
type LLMConfig struct {
	BaseURL       string  `mapstructure:"base_url" yaml:"base_url"`
	APIKeyEnv     string  `mapstructure:"api_key_env" yaml:"api_key_env"`
	Model         string  `mapstructure:"model" yaml:"model"`
	FallbackModel string  `mapstructure:"fallback_model" yaml:"fallback_model"`
	Temperature   float64 `mapstructure:"temperature" yaml:"temperature"`
	TimeoutSecs   int     `mapstructure:"timeout_secs" yaml:"timeout_secs"`
	DemoFallback  bool    `mapstructure:"demo_fallback" yaml:"demo_fallback"`
	Disabled      bool    `mapstructure:"disabled" yaml:"disabled"`
}

// DocumentConfig points at the document answered against by default.
type DocumentConfig struct {
	PDFPath   string `mapstructure:"pdf_path" yaml:"pdf_path"`
	TextPath  string `mapstructure:"text_path" yaml:"text_path"`
	UploadDir string `mapstructure:"upload_dir" yaml:"upload_dir"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port                int `mapstructure:"port" yaml:"port"`
	ShutdownTimeoutSecs int `mapstructure:"shutdown_timeout_secs" yaml:"shutdown_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Embedder EmbedderConfig `mapstructure:"embedder" yaml:"embedder"`
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Document DocumentConfig `mapstructure:"document" yaml:"document"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"pipeline.chunk_size":        "CHUNK_SIZE",
	"pipeline.chunk_overlap":     "CHUNK_OVERLAP",
	"pipeline.use_embeddings":    "USE_EMBEDDINGS",
	"pipeline.top_k":             "TOP_K",
	"pipeline.min_signal_tokens": "MIN_SIGNAL_TOKENS",
	"embedder.model":             "EMBEDDINGS_MODEL",
	"llm.base_url":               "OPENAI_BASE_URL",
	"llm.model":                  "OPENAI_MODEL",
	"llm.fallback_model":         "OPENAI_FALLBACK_MODEL",
	"llm.demo_fallback":          "LLM_FALLBACK_DEMO",
	"llm.disabled":               "DISABLE_LLM",
	"document.pdf_path":          "PROCEDURES_PDF_PATH",
	"document.text_path":         "PROCEDURES_TEXT_PATH",
	"server.port":                "APP_PORT",
	"log.level":                  "LOG_LEVEL",
}

// Load reads a config from a specified path, with environment overrides.
// If the file does not exist, defaults are used.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, defaultConfig())
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/docqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	if err := Save(userPath, defaultConfig()); err != nil {
		return nil, "", err
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RagConfig returns the per-query pipeline configuration.
func (c *AppConfig) RagConfig() domain.RagConfig {
	return domain.RagConfig{
		ChunkSize:       c.Pipeline.ChunkSize,
		ChunkOverlap:    c.Pipeline.ChunkOverlap,
		UseEmbeddings:   c.Pipeline.UseEmbeddings,
		TopK:            c.Pipeline.TopK,
		MinSignalTokens: c.Pipeline.MinSignalTokens,
		PDFPath:         c.Document.PDFPath,
		TextPath:        c.Document.TextPath,
	}
}

// APIKey returns the completion service key from the configured variable.
func (c *AppConfig) APIKey() string { return os.Getenv(c.LLM.APIKeyEnv) }

// CompletionTimeout is the bound on a single completion call.
func (c *AppConfig) CompletionTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSecs) * time.Second
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	rag := domain.DefaultRagConfig()
	return &AppConfig{
		Pipeline: PipelineConfig{
			ChunkSize:       rag.ChunkSize,
			ChunkOverlap:    rag.ChunkOverlap,
			UseEmbeddings:   rag.UseEmbeddings,
			TopK:            rag.TopK,
			MinSignalTokens: rag.MinSignalTokens,
		},
		Embedder: EmbedderConfig{
			Type:   "hugot",
			Model:  "sentence-transformers/all-MiniLM-L6-v2",
			Hugot:  HugotEmbedderConfig{ModelDir: "./models"},
			OpenAI: OpenAIEmbedderConfig{APIKeyEnv: "OPENAI_API_KEY", TimeoutSecs: 30},
		},
		LLM: LLMConfig{
			APIKeyEnv:     "OPENAI_API_KEY",
			Model:         "gpt-5-nano",
			FallbackModel: "gpt-4o-mini",
			Temperature:   0.2,
			TimeoutSecs:   60,
		},
		Document: DocumentConfig{UploadDir: "uploads"},
		Server:   ServerConfig{Port: 8000, ShutdownTimeoutSecs: 10},
		Log:      LogConfig{Level: "info", Format: "console", Output: "stderr"},
	}
}

// setDefaults registers every field of cfg as a viper default so that
// environment bindings and partial files both resolve.
func setDefaults(v *viper.Viper, cfg *AppConfig) {
	v.SetDefault("pipeline.chunk_size", cfg.Pipeline.ChunkSize)
	v.SetDefault("pipeline.chunk_overlap", cfg.Pipeline.ChunkOverlap)
	v.SetDefault("pipeline.use_embeddings", cfg.Pipeline.UseEmbeddings)
	v.SetDefault("pipeline.top_k", cfg.Pipeline.TopK)
	v.SetDefault("pipeline.min_signal_tokens", cfg.Pipeline.MinSignalTokens)
	v.SetDefault("embedder.type", cfg.Embedder.Type)
	v.SetDefault("embedder.model", cfg.Embedder.Model)
	v.SetDefault("embedder.hugot.model_dir", cfg.Embedder.Hugot.ModelDir)
	v.SetDefault("embedder.openai.base_url", cfg.Embedder.OpenAI.BaseURL)
	v.SetDefault("embedder.openai.api_key_env", cfg.Embedder.OpenAI.APIKeyEnv)
	v.SetDefault("embedder.openai.timeout_secs", cfg.Embedder.OpenAI.TimeoutSecs)
	v.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	v.SetDefault("llm.api_key_env", cfg.LLM.APIKeyEnv)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.fallback_model", cfg.LLM.FallbackModel)
	v.SetDefault("llm.temperature", cfg.LLM.Temperature)
	v.SetDefault("llm.timeout_secs", cfg.LLM.TimeoutSecs)
	v.SetDefault("llm.demo_fallback", cfg.LLM.DemoFallback)
	v.SetDefault("llm.disabled", cfg.LLM.Disabled)
	v.SetDefault("document.pdf_path", cfg.Document.PDFPath)
	v.SetDefault("document.text_path", cfg.Document.TextPath)
	v.SetDefault("document.upload_dir", cfg.Document.UploadDir)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.shutdown_timeout_secs", cfg.Server.ShutdownTimeoutSecs)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.output", cfg.Log.Output)
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "hugot"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.TimeoutSecs <= 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.Document.UploadDir == "" {
		cfg.Document.UploadDir = "uploads"
	}
}
