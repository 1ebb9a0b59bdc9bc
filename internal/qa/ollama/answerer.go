package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"supportbot/internal/qa/local"
)

const defaultSystemTemplate = `You extract answers from a support document.
Reply with the shortest exact quote from the passage that answers the question.
Copy the words exactly as they appear. Do not add anything else.
If the passage does not answer the question, reply with nothing.`

// Config configures the Ollama answerer.
type Config struct {
	BaseURL        string
	Model          string
	SystemTemplate string
	MaxTokens      int
}

// Answerer asks an Ollama chat model for a quote from the passage. Replies that are not
// found in the passage are discarded, so every answer is a span of the passage.
type Answerer struct {
	config Config
	llm    llms.Model
}

// NewAnswerer connects an Ollama chat model.
func NewAnswerer(config Config) (*Answerer, error) {
	if config.Model == "" {
		config.Model = "llama3.2:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.SystemTemplate == "" {
		config.SystemTemplate = defaultSystemTemplate
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 256
	}
	llm, err := ollama.New(ollama.WithModel(config.Model), ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama answerer: %w", err)
	}
	return &Answerer{config: config, llm: llm}, nil
}

func (a *Answerer) Name() string { return "ollama" }

func (a *Answerer) AnswerSpan(ctx context.Context, question, passage string, maxAnswerLength int) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, a.config.SystemTemplate),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf("Passage:\n%s\n\nQuestion: %s", passage, question)),
	}
	resp, err := a.llm.GenerateContent(ctx, content,
		llms.WithTemperature(0),
		llms.WithMaxTokens(a.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("ollama answer: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", nil
	}
	return local.TruncateWords(locateSpan(passage, resp.Choices[0].Content), maxAnswerLength), nil
}

// locateSpan finds reply in passage ignoring case and surrounding quotes and returns the
// passage's own text for it, or "" when the reply is not a quote.
func locateSpan(passage, reply string) string {
	reply = strings.TrimSpace(reply)
	reply = strings.Trim(reply, "\"'`“”")
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return ""
	}
	if i := strings.Index(passage, reply); i >= 0 {
		return passage[i : i+len(reply)]
	}
	// ToLower can change byte lengths outside ASCII, so only trust positions when it does not.
	lowerPassage, lowerReply := strings.ToLower(passage), strings.ToLower(reply)
	if len(lowerPassage) != len(passage) || len(lowerReply) != len(reply) {
		return ""
	}
	if i := strings.Index(lowerPassage, lowerReply); i >= 0 {
		return passage[i : i+len(reply)]
	}
	return ""
}
