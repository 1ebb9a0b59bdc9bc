package ollama

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
)

// Config configures the Ollama embedder.
type Config struct {
	BaseURL string
	Model   string
}

// Embedder produces embeddings through a local Ollama server.
type Embedder struct {
	config    Config
	llm       *ollama.LLM
	dimension int
}

// NewEmbedder connects an Ollama embedding model.
func NewEmbedder(config Config) (*Embedder, error) {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	llm, err := ollama.New(ollama.WithModel(config.Model), ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama embedder: %w", err)
	}
	return &Embedder{config: config, llm: llm}, nil
}

func (e *Embedder) Name() string { return "ollama" }

// Prepare is a no-op; the model is pre-trained.
func (e *Embedder) Prepare(corpus []string) error { return nil }

func (e *Embedder) Dimension() int { return e.dimension }

func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	embeddings, err := e.llm.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("ollama embedding: %w", err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, errors.New("no embedding returned")
	}
	out := make([]float64, len(embeddings[0]))
	for i, v := range embeddings[0] {
		out[i] = float64(v)
	}
	if e.dimension == 0 {
		e.dimension = len(out)
	}
	return out, nil
}
