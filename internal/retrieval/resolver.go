package retrieval

import (
	"context"
	"fmt"
	"sort"

	"supportbot/internal/domain"
	"supportbot/internal/index"
	"supportbot/internal/logging"
)

// DefaultSentinel is returned when no section is relevant to a query.
const DefaultSentinel = "insufficient information to answer."

// Tier names the stage that produced a resolution.
type Tier string

const (
	TierSemantic Tier = "semantic"
	TierLexical  Tier = "lexical"
	TierSentinel Tier = "sentinel"
)

// Config holds the tunable thresholds of the resolver.
type Config struct {
	SimilarityThreshold float64
	MinSharedTokens     int
	Sentinel            string
}

// DefaultConfig returns the thresholds the assistant was tuned with.
func DefaultConfig() Config {
	return Config{SimilarityThreshold: 0.4, MinSharedTokens: 2, Sentinel: DefaultSentinel}
}

// Resolution is the section chosen for a query and how it was chosen.
type Resolution struct {
	Section string
	Tier    Tier
	Index   int     // position of Section in the document, -1 for the sentinel
	Score   float64 // best cosine similarity seen, 0 when the semantic tier did not run
	Shared  []string
}

// Resolver picks the single best section for a query.
// Queries are embedded with the index's own embedder.
type Resolver struct {
	config Config
	logger logging.Logger
}

// NewResolver builds a resolver. A zero MinSharedTokens or empty Sentinel falls back to the defaults.
func NewResolver(config Config, logger logging.Logger) *Resolver {
	def := DefaultConfig()
	if config.MinSharedTokens <= 0 {
		config.MinSharedTokens = def.MinSharedTokens
	}
	if config.Sentinel == "" {
		config.Sentinel = def.Sentinel
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{config: config, logger: logger}
}

// Sentinel returns the configured no-information answer.
func (r *Resolver) Sentinel() string { return r.config.Sentinel }

// Resolve runs the semantic tier, then the lexical fallback, then returns the sentinel.
// Embedder failures are returned wrapping domain.ErrModelUnavailable and a mismatched index
// wrapping domain.ErrIndexOutOfSync.
func (r *Resolver) Resolve(ctx context.Context, query string, sections []string, ix index.Index) (Resolution, error) {
	if len(sections) == 0 {
		r.logger.Info("retrieval", "No sections to search. Returning default fallback response.", map[string]interface{}{
			"query":  query,
			"reason": domain.ErrEmptyCorpus.Error(),
		})
		return r.sentinel(0), nil
	}
	if ix.Len() != len(sections) {
		return Resolution{}, fmt.Errorf("%w: %d vectors for %d sections", domain.ErrIndexOutOfSync, ix.Len(), len(sections))
	}

	qv, err := ix.EmbedQuery(ctx, query)
	if err != nil {
		return Resolution{}, fmt.Errorf("embed query: %w: %w", domain.ErrModelUnavailable, err)
	}
	best, score, _ := ix.Best(qv)
	if score >= r.config.SimilarityThreshold {
		r.logger.Info("retrieval", "Found relevant section using embeddings", map[string]interface{}{
			"query":   query,
			"section": best,
			"score":   score,
		})
		return Resolution{Section: sections[best], Tier: TierSemantic, Index: best, Score: score}, nil
	}
	r.logger.Info("retrieval", "Low similarity. Falling back to keyword search.", map[string]interface{}{
		"query": query,
		"score": score,
	})

	queryTokens := tokenSet(query)
	for i, section := range sections {
		shared := sharedTokens(queryTokens, tokenSet(section))
		if len(shared) >= r.config.MinSharedTokens {
			sort.Strings(shared)
			r.logger.Info("retrieval", "Keyword match found", map[string]interface{}{
				"query":        query,
				"section":      i,
				"common_words": shared,
			})
			return Resolution{Section: section, Tier: TierLexical, Index: i, Score: score, Shared: shared}, nil
		}
	}

	r.logger.Info("retrieval", "No good keyword match found. Returning default fallback response.", map[string]interface{}{
		"query": query,
	})
	return r.sentinel(score), nil
}

func (r *Resolver) sentinel(score float64) Resolution {
	return Resolution{Section: r.config.Sentinel, Tier: TierSentinel, Index: -1, Score: score}
}
