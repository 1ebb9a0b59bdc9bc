package answer

import (
	"strings"

	"supportbot/internal/domain"
)

// Feedback is the user's verdict on the last answer.
type Feedback string

const (
	FeedbackGood       Feedback = "good"
	FeedbackTooVague   Feedback = "too vague"
	FeedbackNotHelpful Feedback = "not helpful"
	FeedbackInvalid    Feedback = "invalid"
)

// ParseFeedback accepts good, too vague and not helpful, ignoring case and surrounding whitespace.
func ParseFeedback(input string) (Feedback, error) {
	switch f := Feedback(strings.ToLower(strings.TrimSpace(input))); f {
	case FeedbackGood, FeedbackTooVague, FeedbackNotHelpful:
		return f, nil
	default:
		return FeedbackInvalid, domain.ErrInvalidFeedback
	}
}
