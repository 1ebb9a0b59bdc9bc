package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"supportbot/internal/answer"
	"supportbot/internal/domain"
	"supportbot/internal/index"
	"supportbot/internal/ingest"
	"supportbot/internal/logging"
	"supportbot/internal/retrieval"
	"supportbot/internal/segment"
)

// Config tunes the conversation.
type Config struct {
	Retrieval       retrieval.Config
	MaxRefinements  int
	MaxAnswerLength int
}

func DefaultConfig() Config {
	return Config{Retrieval: retrieval.DefaultConfig(), MaxRefinements: 2, MaxAnswerLength: 50}
}

// EmbedderFactory returns an embedder for one document. Corpus-fitted embedders must come back
// unprepared on every call.
type EmbedderFactory func() (domain.Embedder, error)

// Machine is the transition function of a session. It holds no session data itself: each loaded
// document carries its own embedder inside State.Index, so one Machine can drive any number of
// sessions.
type Machine struct {
	segmenter   domain.Segmenter
	decoder     domain.Decoder
	newEmbedder EmbedderFactory
	resolver    *retrieval.Resolver
	extractor *answer.Extractor
	refiner   *answer.Refiner
	config    Config
	logger    logging.Logger
}

// NewMachine wires the pipeline around an embedder source and an answerer.
func NewMachine(newEmbedder EmbedderFactory, answerer domain.Answerer, config Config, logger logging.Logger) *Machine {
	if logger == nil {
		logger = logging.NewNop()
	}
	if config.MaxRefinements < 0 {
		config.MaxRefinements = 0
	}
	resolver := retrieval.NewResolver(config.Retrieval, logger)
	extractor := answer.NewExtractor(answerer, resolver.Sentinel())
	return &Machine{
		segmenter:   segment.NewParagraphSegmenter(),
		decoder:     ingest.NewDecoder(logger),
		newEmbedder: newEmbedder,
		resolver:    resolver,
		extractor:   extractor,
		refiner:     answer.NewRefiner(extractor, config.MaxAnswerLength),
		config:      config,
		logger:      logger,
	}
}

// Sentinel returns the answer given when the document has nothing relevant.
func (m *Machine) Sentinel() string { return m.resolver.Sentinel() }

// Upload decodes an uploaded file and loads it. The returned state is always safe to commit:
// unsupported or unreadable files add a bot message and are also reported through err, and on
// ErrModelUnavailable the input state is returned unchanged.
func (m *Machine) Upload(ctx context.Context, s State, name string, data []byte, progress func(done, total int)) (State, error) {
	format, err := ingest.DetectFormat(name)
	if err != nil {
		m.logger.Error("ingest", "Unsupported file format", map[string]interface{}{"file": name})
		next := s.clone()
		next.say(domain.SpeakerBot, MsgUnsupported)
		return next, err
	}
	text, err := m.decoder.Decode(ctx, string(format), data)
	if err != nil {
		next := s.clone()
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			next.say(domain.SpeakerBot, MsgUnsupported)
		} else {
			next.say(domain.SpeakerBot, MsgDecodeFailure)
		}
		return next, err
	}
	return m.Load(ctx, s, domain.Document{Name: name, Format: string(format), Text: text}, progress)
}

// Load segments and indexes doc with a new embedder and starts a fresh conversation about it.
// The index is built completely before anything is swapped in; on error s is returned unchanged
// and its index still answers queries about the previous document.
func (m *Machine) Load(ctx context.Context, s State, doc domain.Document, progress func(done, total int)) (State, error) {
	doc.Sections = m.segmenter.Segment(doc.Text)
	emb, err := m.newEmbedder()
	if err != nil {
		return s, modelUnavailable("create embedder", err)
	}
	ix, err := index.Build(ctx, emb, doc.Sections, progress)
	if err != nil {
		m.logger.Error("session", "Indexing failed. Keeping the previous document.", map[string]interface{}{
			"file":  doc.Name,
			"error": err.Error(),
		})
		return s, modelUnavailable("index document", err)
	}

	next := State{
		Mode:       ModeWaitingForQuery,
		Document:   &doc,
		Index:      ix,
		Transcript: []domain.Turn{{Speaker: domain.SpeakerBot, Text: MsgFileProcessed}},
	}
	m.logger.Info("session", "Processed file", map[string]interface{}{
		"file":     doc.Name,
		"format":   doc.Format,
		"sections": len(doc.Sections),
	})
	return next, nil
}

// Handle applies one line of user input. Blank queries are ignored. On any error s is returned
// unchanged. Backend failures wrap ErrModelUnavailable and a state whose index does not match its
// document wraps ErrIndexOutOfSync.
func (m *Machine) Handle(ctx context.Context, s State, input string) (State, error) {
	switch s.Mode {
	case ModeWaitingForQuery:
		return m.handleQuery(ctx, s, input)
	case ModeWaitingForFeedback:
		return m.handleFeedback(ctx, s, input)
	default:
		m.logger.Info("session", "User attempted to interact without uploading a file.", nil)
		next := s.clone()
		next.say(domain.SpeakerBot, MsgUploadFirst)
		return next, nil
	}
}

func (m *Machine) handleQuery(ctx context.Context, s State, query string) (State, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s, nil
	}
	var sections []string
	if s.Document != nil {
		sections = s.Document.Sections
	}
	res, err := m.resolver.Resolve(ctx, query, sections, s.Index)
	if err != nil {
		return s, fmt.Errorf("resolve query: %w", err)
	}
	ans, err := m.extractor.Extract(ctx, query, res.Section, m.config.MaxAnswerLength)
	if err != nil {
		return s, modelUnavailable("answer query", err)
	}

	next := s.clone()
	next.Mode = ModeWaitingForFeedback
	next.CurrentQuery = query
	next.CurrentContext = res.Section
	next.LastAnswer = ans
	next.FeedbackCount = 0
	next.say(domain.SpeakerUser, query)
	next.say(domain.SpeakerBot, answerTurn(ans))
	m.logger.Info("session", "Query answered", map[string]interface{}{
		"query":  query,
		"answer": ans,
		"tier":   string(res.Tier),
	})
	return next, nil
}

func (m *Machine) handleFeedback(ctx context.Context, s State, input string) (State, error) {
	fb, err := answer.ParseFeedback(input)
	if err != nil {
		m.logger.Info("session", "Invalid feedback received", map[string]interface{}{"feedback": input})
		next := s.clone()
		next.say(domain.SpeakerUser, strings.ToLower(input))
		next.say(domain.SpeakerBot, MsgInvalidFeedback)
		return next, nil
	}

	switch {
	case fb == answer.FeedbackGood:
		next := s.clone()
		next.say(domain.SpeakerUser, string(fb))
		next.say(domain.SpeakerBot, MsgThanks)
		next.Mode = ModeWaitingForQuery
		next.FeedbackCount = 0
		m.logger.Info("session", "Feedback accepted as 'good'. Waiting for next query.", map[string]interface{}{"query": s.CurrentQuery})
		return next, nil

	case s.FeedbackCount >= m.config.MaxRefinements:
		next := s.clone()
		next.say(domain.SpeakerUser, string(fb))
		next.say(domain.SpeakerBot, MsgMaxIterations)
		next.Mode = ModeWaitingForQuery
		next.FeedbackCount = 0
		m.logger.Info("session", "Max feedback iterations reached. Waiting for next query.", map[string]interface{}{
			"query":    s.CurrentQuery,
			"feedback": string(fb),
		})
		return next, nil
	}

	refined, err := m.refiner.Refine(ctx, s.CurrentQuery, s.LastAnswer, s.CurrentContext, fb)
	if err != nil {
		return s, modelUnavailable("refine answer", err)
	}
	next := s.clone()
	next.say(domain.SpeakerUser, string(fb))
	next.say(domain.SpeakerBot, updatedTurn(refined))
	next.LastAnswer = refined
	next.FeedbackCount++
	m.logger.Info("session", "Adjusted answer", map[string]interface{}{
		"query":    s.CurrentQuery,
		"feedback": string(fb),
		"answer":   refined,
		"round":    next.FeedbackCount,
	})
	return next, nil
}

// modelUnavailable makes sure a capability failure is reported as ErrModelUnavailable.
func modelUnavailable(op string, err error) error {
	if errors.Is(err, domain.ErrModelUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrModelUnavailable, err)
}
