package service

import (
	"fmt"
	"time"

	"supportbot/internal/config"
	"supportbot/internal/domain"
	"supportbot/internal/embedding/ollama"
	"supportbot/internal/embedding/openai"
	"supportbot/internal/embedding/tfidf"
	"supportbot/internal/guard"
	"supportbot/internal/logging"
	qalocal "supportbot/internal/qa/local"
	qaollama "supportbot/internal/qa/ollama"
	"supportbot/internal/session"
)

// Factory assembles support bots from configuration. The answerer is shared and every loaded
// document gets a new embedder. Remote backends are guarded by one process-wide rate budget;
// the in-process tfidf embedder and extractive answerer are not.
type Factory struct {
	cfg      *config.AppConfig
	logger   logging.Logger
	limits   *guard.Limits
	answerer domain.Answerer
}

func NewFactory(cfg *config.AppConfig, logger logging.Logger) (*Factory, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	f := &Factory{cfg: cfg, logger: logger, limits: guard.NewLimits(cfg.Guard())}
	if _, err := f.newEmbedder(); err != nil {
		return nil, err
	}
	answerer, err := newAnswerer(cfg)
	if err != nil {
		return nil, err
	}
	if isRemote(cfg.Answerer.Type) {
		answerer = guard.NewAnswerer(answerer, f.limits)
	}
	f.answerer = answerer
	return f, nil
}

// NewBot returns a fresh session waiting for a document.
func (f *Factory) NewBot() (*SupportBot, error) {
	machine := session.NewMachine(f.newEmbedder, f.answerer, f.cfg.Session(), f.logger)
	return NewSupportBot(machine, f.logger), nil
}

func (f *Factory) newEmbedder() (domain.Embedder, error) {
	emb, err := newEmbedder(f.cfg)
	if err != nil {
		return nil, err
	}
	if isRemote(f.cfg.Embedder.Type) {
		return guard.NewEmbedder(emb, f.limits), nil
	}
	return emb, nil
}

func isRemote(backend string) bool {
	switch backend {
	case "", "tfidf", "local":
		return false
	default:
		return true
	}
}

func (f *Factory) Logger() logging.Logger { return f.logger }

func newEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(), nil
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv:  cfg.Embedder.OpenAI.APIKeyEnv,
			Model:      cfg.Embedder.OpenAI.Model,
			Timeout:    time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Embedder.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, nil
	case "ollama":
		var oc ollama.Config
		if cfg.Embedder.Ollama != nil {
			oc = ollama.Config{BaseURL: cfg.Embedder.Ollama.BaseURL, Model: cfg.Embedder.Ollama.Model}
		}
		return ollama.NewEmbedder(oc)
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func newAnswerer(cfg *config.AppConfig) (domain.Answerer, error) {
	switch cfg.Answerer.Type {
	case "local", "":
		return qalocal.New(), nil
	case "ollama":
		var oc qaollama.Config
		if o := cfg.Answerer.Ollama; o != nil {
			oc = qaollama.Config{
				BaseURL:        o.BaseURL,
				Model:          o.Model,
				SystemTemplate: o.SystemTemplate,
				MaxTokens:      o.MaxTokens,
			}
		}
		return qaollama.NewAnswerer(oc)
	default:
		return nil, fmt.Errorf("unknown answerer: %s", cfg.Answerer.Type)
	}
}
