// Package tfidf embeds sections in a TF-IDF space fitted to one document.
package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrNotPrepared is returned by Embed before the embedder has been fitted.
	ErrNotPrepared = errors.New("tfidf embedder not prepared")
	// ErrAlreadyPrepared is returned by a second Prepare. Fit a new Embedder per document.
	ErrAlreadyPrepared = errors.New("tfidf embedder already prepared")
)

var wordPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// Stopwords are dropped before counting. Digits never form tokens.
var stopwords = toSet(strings.Fields(`
	a about above after again an and are as at be been before being below between
	but by can don down during else for from further if in into is it just now of
	off on or out over own same should so such than that the then these this those
	through to too under up very was were will with
`))

// space is a fitted vocabulary. It is never modified after fit returns.
type space struct {
	terms map[string]int
	idf   []float64
}

// Embedder is a TF-IDF vectorizer fitted once, by Prepare, to the sections of one document.
// After Prepare it is read-only and safe for concurrent Embed calls.
type Embedder struct {
	space *space
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder { return &Embedder{} }

func (e *Embedder) Name() string { return "tfidf" }

// Prepare fits the vocabulary and smoothed IDF weights to corpus. It may be called once.
// A corpus without any token yields a zero-dimensional space in which every embedding is
// empty, so similarity is zero and retrieval falls through to keyword matching.
func (e *Embedder) Prepare(corpus []string) error {
	if e.space != nil {
		return ErrAlreadyPrepared
	}
	e.space = fit(corpus)
	return nil
}

func (e *Embedder) Dimension() int {
	if e.space == nil {
		return 0
	}
	return len(e.space.idf)
}

// Embed returns the L2-normalized TF-IDF vector of text. Terms outside the fitted vocabulary
// are ignored; text with no known term gives the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	if e.space == nil {
		return nil, ErrNotPrepared
	}
	return e.space.vector(text), nil
}

func fit(corpus []string) *space {
	docFreq := make(map[string]int)
	for _, section := range corpus {
		for term := range toSet(tokens(section)) {
			docFreq[term]++
		}
	}
	vocab := make([]string, 0, len(docFreq))
	for term := range docFreq {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	s := &space{terms: make(map[string]int, len(vocab)), idf: make([]float64, len(vocab))}
	n := float64(len(corpus))
	for i, term := range vocab {
		s.terms[term] = i
		s.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return s
}

func (s *space) vector(text string) []float64 {
	vec := make([]float64, len(s.idf))
	counts := make(map[int]float64)
	var known float64
	for _, tok := range tokens(text) {
		if i, ok := s.terms[tok]; ok {
			counts[i]++
			known++
		}
	}
	if known == 0 {
		return vec
	}
	var sumSquares float64
	for i, c := range counts {
		vec[i] = c / known * s.idf[i]
		sumSquares += vec[i] * vec[i]
	}
	norm := math.Sqrt(sumSquares)
	for i := range counts {
		vec[i] /= norm
	}
	return vec
}

// tokens lowercases text and returns its word tokens without stopwords.
func tokens(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	kept := words[:0]
	for _, w := range words {
		if _, stop := stopwords[w]; !stop {
			kept = append(kept, w)
		}
	}
	return kept
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
