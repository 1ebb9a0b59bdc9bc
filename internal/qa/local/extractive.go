package local

import (
	"context"
	"math"
	"regexp"
	"strings"
	"unicode"
)

var (
	wordPattern     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+(?:[-.]\p{N}+)*`)
	sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// Extractive answers from a passage without a model: it picks the sentence sharing the most
// words with the question, breaking ties by word-frequency salience, and cuts it to the
// answer length. The result is always a substring of the passage.
type Extractive struct {
	stopwords map[string]struct{}
}

func New() *Extractive {
	return &Extractive{stopwords: defaultStopwords()}
}

func (e *Extractive) Name() string { return "local" }

func (e *Extractive) AnswerSpan(ctx context.Context, question, passage string, maxAnswerLength int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sentences := sentencePattern.FindAllString(passage, -1)
	if len(sentences) == 0 {
		sentences = []string{passage}
	}

	freq := e.frequencies(sentences)
	queryTokens := e.tokenSet(question)
	bestIdx, bestOverlap, bestSalience := -1, -1, -1.0
	for i, sent := range sentences {
		if strings.TrimSpace(sent) == "" {
			continue
		}
		overlap := overlapScore(queryTokens, e.tokens(sent))
		salience := e.salience(freq, sent)
		if overlap > bestOverlap || (overlap == bestOverlap && salience > bestSalience) {
			bestIdx, bestOverlap, bestSalience = i, overlap, salience
		}
	}
	if bestIdx < 0 {
		return "", nil
	}
	return TruncateWords(strings.TrimSpace(sentences[bestIdx]), maxAnswerLength), nil
}

func (e *Extractive) tokens(text string) []string {
	var out []string
	for _, tok := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func (e *Extractive) tokenSet(text string) map[string]struct{} {
	toks := e.tokens(text)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

// frequencies returns word counts over all sentences normalized to the most frequent word.
func (e *Extractive) frequencies(sentences []string) map[string]float64 {
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range e.tokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}
	return freq
}

func (e *Extractive) salience(freq map[string]float64, sentence string) float64 {
	toks := e.tokens(sentence)
	if len(toks) == 0 {
		return 0
	}
	score := 0.0
	for _, tok := range toks {
		score += freq[tok]
	}
	// long sentences would otherwise always win
	return score / math.Sqrt(float64(len(toks)))
}

func overlapScore(query map[string]struct{}, tokens []string) int {
	score := 0
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := query[t]; ok {
			score++
		}
	}
	return score
}

// TruncateWords keeps the first n whitespace-separated words of s. n <= 0 keeps everything.
func TruncateWords(s string, n int) string {
	if n <= 0 {
		return s
	}
	words := 0
	inWord := false
	for i, r := range s {
		if unicode.IsSpace(r) {
			if inWord && words == n {
				return s[:i]
			}
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			words++
		}
	}
	return s
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "how", "do", "does", "did", "you", "your", "i", "my", "me", "we", "our", "please", "provide", "more", "detailed", "information", "examples",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
