package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"supportbot/internal/domain"
	"supportbot/internal/logging"
	"supportbot/internal/session"
)

// SupportBot is one conversation. All access is serialized, so a query never sees a
// half-loaded document and two turns never interleave.
type SupportBot struct {
	mu       sync.Mutex
	machine  *session.Machine
	state    session.State
	logger   logging.Logger
	progress func(done, total int)
}

func NewSupportBot(machine *session.Machine, logger logging.Logger) *SupportBot {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SupportBot{machine: machine, state: session.NewState(), logger: logger}
}

// OnProgress sets a callback for document indexing progress.
func (b *SupportBot) OnProgress(fn func(done, total int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.progress = fn
}

// Upload replaces the document. Unsupported or unreadable files are reported in the transcript
// and returned as errors; the previous document stays active.
func (b *SupportBot) Upload(ctx context.Context, name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := b.machine.Upload(ctx, b.state, name, data, b.progress)
	b.state = next
	return err
}

// UploadFile reads path from disk and uploads it.
func (b *SupportBot) UploadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return b.Upload(ctx, filepath.Base(path), data)
}

// Submit handles one line of user input: a query or feedback, depending on the mode.
func (b *SupportBot) Submit(ctx context.Context, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := b.machine.Handle(ctx, b.state, text)
	b.state = next
	if err != nil {
		b.logger.Error("session", "Model unavailable", map[string]interface{}{"input": text, "error": err})
	}
	return err
}

func (b *SupportBot) Transcript() []domain.Turn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Turn(nil), b.state.Transcript...)
}

func (b *SupportBot) Mode() session.Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Mode
}

// Snapshot returns a copy of the session state.
func (b *SupportBot) Snapshot() session.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.state
	s.Transcript = append([]domain.Turn(nil), s.Transcript...)
	return s
}

// LogFile flushes the diagnostic log and returns its path.
func (b *SupportBot) LogFile() (string, error) {
	return b.logger.Snapshot()
}
