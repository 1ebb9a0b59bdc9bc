package local

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerSpanPicksOverlappingSentence(t *testing.T) {
	passage := "Returns are accepted within 30 days. Shipping takes 5-7 business days. Gift wrapping is free."
	got, err := New().AnswerSpan(context.Background(), "How long does shipping take?", passage, 50)
	require.NoError(t, err)
	assert.Equal(t, "Shipping takes 5-7 business days.", got)
	assert.Contains(t, passage, got)
}

func TestAnswerSpanSingleSentencePassage(t *testing.T) {
	got, err := New().AnswerSpan(context.Background(), "How long does shipping take?", "Shipping takes 5-7 business days.", 50)
	require.NoError(t, err)
	assert.Equal(t, "Shipping takes 5-7 business days.", got)
}

func TestAnswerSpanWithoutSentencePunctuation(t *testing.T) {
	passage := "  Refunds are issued to the original payment method  "
	got, err := New().AnswerSpan(context.Background(), "refunds", passage, 50)
	require.NoError(t, err)
	assert.Equal(t, "Refunds are issued to the original payment method", got)
}

func TestAnswerSpanTruncatesToWordLimit(t *testing.T) {
	passage := "Shipping takes 5-7 business days within the continental United States."
	got, err := New().AnswerSpan(context.Background(), "shipping", passage, 3)
	require.NoError(t, err)
	assert.Equal(t, "Shipping takes 5-7", got)
	assert.True(t, strings.HasPrefix(passage, got))
}

func TestAnswerSpanEmptyPassage(t *testing.T) {
	got, err := New().AnswerSpan(context.Background(), "anything", "   ", 50)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestAnswerSpanIgnoresQueryBoilerplate(t *testing.T) {
	passage := "Please contact support for details. Orders ship from Ohio."
	q := "Where do orders ship from? Please provide more detailed information with examples."
	got, err := New().AnswerSpan(context.Background(), q, passage, 50)
	require.NoError(t, err)
	assert.Equal(t, "Orders ship from Ohio.", got)
}

func TestAnswerSpanCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().AnswerSpan(ctx, "q", "Some passage.", 50)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"one two three", 2, "one two"},
		{"one two three", 3, "one two three"},
		{"one  two\tthree", 2, "one  two"},
		{"one two", 0, "one two"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateWords(tt.in, tt.n), tt.in)
	}
}
