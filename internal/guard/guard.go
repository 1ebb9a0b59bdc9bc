package guard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"supportbot/internal/domain"
)

// Config bounds calls into a model backend.
type Config struct {
	// RequestsPerSecond of 0 disables rate limiting.
	RequestsPerSecond float64
	Burst             int
	// Timeout of 0 disables the per-call deadline.
	Timeout time.Duration
}

// Limits is one rate budget and deadline. Wrappers built from the same Limits draw on the same
// budget, so a backend is throttled as a whole rather than per session.
type Limits struct {
	limiter *rate.Limiter
	timeout time.Duration
}

func NewLimits(config Config) *Limits {
	l := &Limits{timeout: config.Timeout}
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		l.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}
	return l
}

// call waits for the limiter, applies the deadline and reports any failure as ErrModelUnavailable.
func (l *Limits) call(ctx context.Context, op string, fn func(context.Context) error) error {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrModelUnavailable, err)
		}
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	if err := fn(ctx); err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrModelUnavailable, err)
	}
	return nil
}

// Embedder guards a domain.Embedder.
type Embedder struct {
	next   domain.Embedder
	limits *Limits
}

func NewEmbedder(next domain.Embedder, limits *Limits) *Embedder {
	return &Embedder{next: next, limits: limits}
}

func (e *Embedder) Name() string                  { return e.next.Name() }
func (e *Embedder) Prepare(corpus []string) error { return e.next.Prepare(corpus) }
func (e *Embedder) Dimension() int                { return e.next.Dimension() }

func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	var vec []float64
	err := e.limits.call(ctx, e.next.Name()+" embed", func(ctx context.Context) error {
		var err error
		vec, err = e.next.Embed(ctx, text)
		return err
	})
	return vec, err
}

// Answerer guards a domain.Answerer.
type Answerer struct {
	next   domain.Answerer
	limits *Limits
}

func NewAnswerer(next domain.Answerer, limits *Limits) *Answerer {
	return &Answerer{next: next, limits: limits}
}

func (a *Answerer) Name() string { return a.next.Name() }

func (a *Answerer) AnswerSpan(ctx context.Context, question, passage string, maxAnswerLength int) (string, error) {
	var span string
	err := a.limits.call(ctx, a.next.Name()+" answer", func(ctx context.Context) error {
		var err error
		span, err = a.next.AnswerSpan(ctx, question, passage, maxAnswerLength)
		return err
	})
	return span, err
}
