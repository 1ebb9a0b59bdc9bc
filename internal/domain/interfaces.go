package domain

import "context"

// Document is the single uploaded document a session answers from.
// Sections are derived from Text and are never edited on their own.
type Document struct {
	Name     string
	Format   string
	Text     string
	Sections []string
}

// Speaker identifies who produced a transcript turn.
type Speaker string

const (
	SpeakerUser Speaker = "User"
	SpeakerBot  Speaker = "Bot"
)

// Turn is one (speaker, text) entry of the conversation transcript.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Answerer extracts an answer span for a question from a passage.
// An empty span is a valid answer.
type Answerer interface {
	Name() string
	AnswerSpan(ctx context.Context, question, passage string, maxAnswerLength int) (string, error)
}

// Segmenter splits document text into retrieval sections.
type Segmenter interface {
	Segment(text string) []string
}

// Decoder turns raw upload bytes of a given format into text.
type Decoder interface {
	Decode(ctx context.Context, format string, data []byte) (string, error)
}
