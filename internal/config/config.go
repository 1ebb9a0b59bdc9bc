package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"supportbot/internal/guard"
	"supportbot/internal/logging"
	"supportbot/internal/retrieval"
	"supportbot/internal/session"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// OllamaConfig points at an Ollama server model.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
	Ollama *OllamaConfig         `yaml:"ollama,omitempty"`
}

// OllamaAnswererConfig configures the Ollama answerer.
type OllamaAnswererConfig struct {
	OllamaConfig   `yaml:",inline"`
	MaxTokens      int    `yaml:"max_tokens"`
	SystemTemplate string `yaml:"system_template,omitempty"`
}

// AnswererConfig selects the extractive QA backend.
type AnswererConfig struct {
	Type   string                `yaml:"type"`
	Ollama *OllamaAnswererConfig `yaml:"ollama,omitempty"`
}

// RetrievalConfig holds the relevance thresholds.
type RetrievalConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MinSharedTokens     int     `yaml:"min_shared_tokens"`
	Sentinel            string  `yaml:"sentinel"`
}

type AnswerConfig struct {
	MaxAnswerLength int `yaml:"max_answer_length"`
}

type FeedbackConfig struct {
	MaxRefinements int `yaml:"max_refinements"`
}

// ModelsConfig bounds every embedder and answerer call.
type ModelsConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
}

// LogConfig configures the diagnostic log file.
type LogConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	Console    bool   `yaml:"console"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	SessionTTLMins int    `yaml:"session_ttl_mins"`
	MaxUploadMB    int    `yaml:"max_upload_mb"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Answerer  AnswererConfig  `yaml:"answerer"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Answer    AnswerConfig    `yaml:"answer"`
	Feedback  FeedbackConfig  `yaml:"feedback"`
	Models    ModelsConfig    `yaml:"models"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Keys missing from the file keep their default values.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			mergeWithEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	mergeWithEnv(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/supportbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/supportbot/config.yaml and returns them.
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
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	mergeWithEnv(cfg)
	return cfg, userPath, nil
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

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "supportbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Embedder: EmbedderConfig{Type: "tfidf"},
		Answerer: AnswererConfig{Type: "local"},
		Retrieval: RetrievalConfig{
			SimilarityThreshold: 0.4,
			MinSharedTokens:     2,
			Sentinel:            retrieval.DefaultSentinel,
		},
		Answer:   AnswerConfig{MaxAnswerLength: 50},
		Feedback: FeedbackConfig{MaxRefinements: 2},
		Models:   ModelsConfig{RequestsPerSecond: 5, Burst: 5, TimeoutSecs: 60},
		Log: LogConfig{
			Path:       "support_bot_log.txt",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{Addr: ":8080", SessionTTLMins: 60, MaxUploadMB: 20},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Answerer.Type == "" {
		cfg.Answerer.Type = "local"
	}
	if cfg.Retrieval.Sentinel == "" {
		cfg.Retrieval.Sentinel = retrieval.DefaultSentinel
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Embedder.Type == "ollama" && cfg.Embedder.Ollama == nil {
		cfg.Embedder.Ollama = &OllamaConfig{}
	}
	if cfg.Answerer.Type == "ollama" && cfg.Answerer.Ollama == nil {
		cfg.Answerer.Ollama = &OllamaAnswererConfig{}
	}
}

// mergeWithEnv lets the environment override connection settings.
func mergeWithEnv(cfg *AppConfig) {
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		if cfg.Embedder.Ollama != nil {
			cfg.Embedder.Ollama.BaseURL = v
		}
		if cfg.Answerer.Ollama != nil {
			cfg.Answerer.Ollama.BaseURL = v
		}
	}
	if v := os.Getenv("SUPPORTBOT_LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}
	if v := os.Getenv("SUPPORTBOT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// Session returns the conversation settings.
func (c *AppConfig) Session() session.Config {
	return session.Config{
		Retrieval: retrieval.Config{
			SimilarityThreshold: c.Retrieval.SimilarityThreshold,
			MinSharedTokens:     c.Retrieval.MinSharedTokens,
			Sentinel:            c.Retrieval.Sentinel,
		},
		MaxRefinements:  c.Feedback.MaxRefinements,
		MaxAnswerLength: c.Answer.MaxAnswerLength,
	}
}

// Guard returns the limits applied to model calls.
func (c *AppConfig) Guard() guard.Config {
	return guard.Config{
		RequestsPerSecond: c.Models.RequestsPerSecond,
		Burst:             c.Models.Burst,
		Timeout:           time.Duration(c.Models.TimeoutSecs) * time.Second,
	}
}

// Logging returns the diagnostic log options.
func (c *AppConfig) Logging() logging.Options {
	return logging.Options{
		Path:       c.Log.Path,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
		Console:    c.Log.Console,
	}
}

// SessionTTL is how long an idle HTTP session is kept.
func (c *AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.Server.SessionTTLMins) * time.Minute
}
