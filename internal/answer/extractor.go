package answer

import (
	"context"
	"fmt"

	"supportbot/internal/domain"
)

// Extractor turns a resolved section into an answer span.
type Extractor struct {
	answerer domain.Answerer
	sentinel string
}

// NewExtractor wraps an answerer. A section equal to sentinel is never sent to the answerer.
func NewExtractor(answerer domain.Answerer, sentinel string) *Extractor {
	return &Extractor{answerer: answerer, sentinel: sentinel}
}

// Extract returns the sentinel unchanged when section is the sentinel, otherwise the
// answerer's span verbatim. An empty span is a valid answer.
func (e *Extractor) Extract(ctx context.Context, query, section string, maxAnswerLength int) (string, error) {
	if section == e.sentinel {
		return e.sentinel, nil
	}
	span, err := e.answerer.AnswerSpan(ctx, query, section, maxAnswerLength)
	if err != nil {
		return "", fmt.Errorf("extract answer: %w", err)
	}
	return span, nil
}
