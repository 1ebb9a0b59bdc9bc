package index

import (
	"context"
	"errors"
	"fmt"
	"math"

	"supportbot/internal/domain"
)

// Index holds one embedding per section, in section order, and the embedder that produced
// them. Queries must be embedded with that same embedder to land in the same vector space.
type Index struct {
	Vectors  [][]float64
	Embedder domain.Embedder
}

// Len returns the number of indexed sections.
func (ix Index) Len() int { return len(ix.Vectors) }

// Build prepares the embedder on the sections and embeds each of them in order.
// progress, when non-nil, is called after every embedded section.
// The returned index is complete or an error is returned; there is no partial result.
// The embedder becomes part of the index, so pass a fresh one per document.
func Build(ctx context.Context, embedder domain.Embedder, sections []string, progress func(done, total int)) (Index, error) {
	if err := embedder.Prepare(sections); err != nil {
		return Index{}, fmt.Errorf("prepare embedder: %w", err)
	}
	vectors := make([][]float64, len(sections))
	for i, section := range sections {
		vec, err := embedder.Embed(ctx, section)
		if err != nil {
			return Index{}, fmt.Errorf("embed section %d: %w", i, err)
		}
		vectors[i] = vec
		if progress != nil {
			progress(i+1, len(sections))
		}
	}
	return Index{Vectors: vectors, Embedder: embedder}, nil
}

// EmbedQuery embeds text with the embedder the index was built with.
func (ix Index) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	if ix.Embedder == nil {
		return nil, errors.New("index has no embedder")
	}
	return ix.Embedder.Embed(ctx, text)
}

// Best returns the position and cosine score of the vector most similar to query.
// Ties resolve to the lowest position. ok is false for an empty index.
func (ix Index) Best(query []float64) (idx int, score float64, ok bool) {
	if len(ix.Vectors) == 0 {
		return 0, 0, false
	}
	idx, score = 0, Cosine(query, ix.Vectors[0])
	for i := 1; i < len(ix.Vectors); i++ {
		if s := Cosine(query, ix.Vectors[i]); s > score {
			idx, score = i, s
		}
	}
	return idx, score, true
}

// Cosine returns the cosine similarity of a and b; zero vectors have similarity 0.
// Vectors of different length are compared over their common prefix.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
