package answer

import (
	"context"
	"fmt"
)

const (
	// ExcerptLength is the number of section characters appended to a too vague answer.
	ExcerptLength = 500
	// NotHelpfulSuffix is appended to the query before extracting again.
	NotHelpfulSuffix = " Please provide more detailed information with examples."
)

// Refiner produces an adjusted answer from feedback.
type Refiner struct {
	extractor       *Extractor
	maxAnswerLength int
}

func NewRefiner(extractor *Extractor, maxAnswerLength int) *Refiner {
	return &Refiner{extractor: extractor, maxAnswerLength: maxAnswerLength}
}

// Refine adjusts prior according to feedback. Good and invalid feedback return prior unchanged.
func (r *Refiner) Refine(ctx context.Context, query, prior, section string, feedback Feedback) (string, error) {
	switch feedback {
	case FeedbackTooVague:
		return prior + "\n\n(More details:\n" + excerpt(section, ExcerptLength) + "...)", nil
	case FeedbackNotHelpful:
		refined, err := r.extractor.Extract(ctx, query+NotHelpfulSuffix, section, r.maxAnswerLength)
		if err != nil {
			return "", fmt.Errorf("refine answer: %w", err)
		}
		return refined, nil
	default:
		return prior, nil
	}
}

// excerpt returns the first n characters of s, or all of s when it is shorter.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
