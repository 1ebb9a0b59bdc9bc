package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/internal/domain"
)

const sentinel = "insufficient information to answer."

type call struct {
	question, section string
	maxLen            int
}

type fakeAnswerer struct {
	spans map[string]string
	err   error
	calls []call
}

func (f *fakeAnswerer) Name() string { return "fake" }

func (f *fakeAnswerer) AnswerSpan(_ context.Context, question, section string, maxLen int) (string, error) {
	f.calls = append(f.calls, call{question, section, maxLen})
	if f.err != nil {
		return "", f.err
	}
	return f.spans[question], nil
}

func TestExtractSentinelPassThrough(t *testing.T) {
	qa := &fakeAnswerer{}
	got, err := NewExtractor(qa, sentinel).Extract(context.Background(), "Do you sell gift cards?", sentinel, 50)
	require.NoError(t, err)
	assert.Equal(t, sentinel, got)
	assert.Empty(t, qa.calls)
}

func TestExtractReturnsSpanVerbatim(t *testing.T) {
	qa := &fakeAnswerer{spans: map[string]string{"How long does shipping take?": "5-7 business days"}}
	got, err := NewExtractor(qa, sentinel).Extract(context.Background(), "How long does shipping take?", "Shipping takes 5-7 business days.", 50)
	require.NoError(t, err)
	assert.Equal(t, "5-7 business days", got)
	require.Len(t, qa.calls, 1)
	assert.Equal(t, 50, qa.calls[0].maxLen)
}

func TestExtractEmptySpanIsValid(t *testing.T) {
	qa := &fakeAnswerer{spans: map[string]string{}}
	got, err := NewExtractor(qa, sentinel).Extract(context.Background(), "q", "some section", 50)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestExtractPropagatesModelUnavailable(t *testing.T) {
	qa := &fakeAnswerer{err: domain.ErrModelUnavailable}
	_, err := NewExtractor(qa, sentinel).Extract(context.Background(), "q", "some section", 50)
	assert.True(t, errors.Is(err, domain.ErrModelUnavailable))
}

func TestParseFeedback(t *testing.T) {
	tests := []struct {
		input string
		want  Feedback
		ok    bool
	}{
		{"good", FeedbackGood, true},
		{"  GOOD \n", FeedbackGood, true},
		{"Too Vague", FeedbackTooVague, true},
		{"not helpful", FeedbackNotHelpful, true},
		{"NOT HELPFUL", FeedbackNotHelpful, true},
		{"great", FeedbackInvalid, false},
		{"too  vague", FeedbackInvalid, false},
		{"", FeedbackInvalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFeedback(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidFeedback)
			}
		})
	}
}

func TestRefineTooVagueAppendsExcerpt(t *testing.T) {
	qa := &fakeAnswerer{}
	r := NewRefiner(NewExtractor(qa, sentinel), 50)

	got, err := r.Refine(context.Background(), "How long does shipping take?", "5-7 business days", "Shipping takes 5-7 business days.", FeedbackTooVague)
	require.NoError(t, err)
	assert.Equal(t, "5-7 business days\n\n(More details:\nShipping takes 5-7 business days....)", got)
	assert.Empty(t, qa.calls)
}

func TestRefineTooVagueTruncatesByCharacter(t *testing.T) {
	section := strings.Repeat("é", 600)
	r := NewRefiner(NewExtractor(&fakeAnswerer{}, sentinel), 50)

	got, err := r.Refine(context.Background(), "q", "a", section, FeedbackTooVague)
	require.NoError(t, err)
	assert.Equal(t, "a\n\n(More details:\n"+strings.Repeat("é", 500)+"...)", got)
}

func TestRefineTooVagueOnSentinel(t *testing.T) {
	r := NewRefiner(NewExtractor(&fakeAnswerer{}, sentinel), 50)
	got, err := r.Refine(context.Background(), "q", sentinel, sentinel, FeedbackTooVague)
	require.NoError(t, err)
	assert.Equal(t, sentinel+"\n\n(More details:\n"+sentinel+"...)", got)
}

func TestRefineNotHelpfulReExtracts(t *testing.T) {
	q := "How long does shipping take?"
	qa := &fakeAnswerer{spans: map[string]string{q + NotHelpfulSuffix: "Shipping takes 5-7 business days"}}
	r := NewRefiner(NewExtractor(qa, sentinel), 50)

	got, err := r.Refine(context.Background(), q, "5-7 business days", "Shipping takes 5-7 business days.", FeedbackNotHelpful)
	require.NoError(t, err)
	assert.Equal(t, "Shipping takes 5-7 business days", got)
	require.Len(t, qa.calls, 1)
	assert.Equal(t, "How long does shipping take? Please provide more detailed information with examples.", qa.calls[0].question)
	assert.Equal(t, "Shipping takes 5-7 business days.", qa.calls[0].section)
}

func TestRefineNotHelpfulOnSentinelSkipsAnswerer(t *testing.T) {
	qa := &fakeAnswerer{}
	r := NewRefiner(NewExtractor(qa, sentinel), 50)
	got, err := r.Refine(context.Background(), "q", sentinel, sentinel, FeedbackNotHelpful)
	require.NoError(t, err)
	assert.Equal(t, sentinel, got)
	assert.Empty(t, qa.calls)
}

func TestRefineNotHelpfulError(t *testing.T) {
	qa := &fakeAnswerer{err: domain.ErrModelUnavailable}
	r := NewRefiner(NewExtractor(qa, sentinel), 50)
	_, err := r.Refine(context.Background(), "q", "prior", "section", FeedbackNotHelpful)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestRefineGoodKeepsPrior(t *testing.T) {
	r := NewRefiner(NewExtractor(&fakeAnswerer{}, sentinel), 50)
	got, err := r.Refine(context.Background(), "q", "prior", "section", FeedbackGood)
	require.NoError(t, err)
	assert.Equal(t, "prior", got)
}
