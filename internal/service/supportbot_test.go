package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/internal/config"
	"supportbot/internal/domain"
	"supportbot/internal/logging"
	"supportbot/internal/session"
)

const faq = "Returns are accepted within 30 days.\n\nShipping takes 5-7 business days."

func newBot(t *testing.T) (*SupportBot, string) {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	logPath := filepath.Join(t.TempDir(), "support_bot_log.txt")
	cfg.Log.Path = logPath
	f, err := NewFactory(cfg, logging.New(cfg.Logging()))
	require.NoError(t, err)
	bot, err := f.NewBot()
	require.NoError(t, err)
	return bot, logPath
}

func TestConversation(t *testing.T) {
	bot, _ := newBot(t)
	ctx := context.Background()
	assert.Equal(t, session.ModeWaitingForUpload, bot.Mode())

	require.NoError(t, bot.Upload(ctx, "faq.txt", []byte(faq)))
	assert.Equal(t, session.ModeWaitingForQuery, bot.Mode())

	require.NoError(t, bot.Submit(ctx, "How long does shipping take?"))
	assert.Equal(t, session.ModeWaitingForFeedback, bot.Mode())
	snap := bot.Snapshot()
	assert.Equal(t, "Shipping takes 5-7 business days.", snap.LastAnswer)

	require.NoError(t, bot.Submit(ctx, "good"))
	transcript := bot.Transcript()
	assert.Equal(t, session.MsgThanks, transcript[len(transcript)-1].Text)
}

func TestUploadFileAndRejects(t *testing.T) {
	bot, _ := newBot(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "faq.TXT")
	require.NoError(t, os.WriteFile(path, []byte(faq), 0o644))
	require.NoError(t, bot.UploadFile(ctx, path))
	assert.Equal(t, session.ModeWaitingForQuery, bot.Mode())

	err := bot.Upload(ctx, "faq.docx", []byte(faq))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Equal(t, session.ModeWaitingForQuery, bot.Mode())

	assert.Error(t, bot.UploadFile(ctx, filepath.Join(t.TempDir(), "missing.txt")))
}

func TestTranscriptIsACopy(t *testing.T) {
	bot, _ := newBot(t)
	tr := bot.Transcript()
	tr[0].Text = "changed"
	assert.Equal(t, session.MsgWelcome, bot.Transcript()[0].Text)
}

func TestConcurrentSubmitsAreSerialized(t *testing.T) {
	bot, _ := newBot(t)
	ctx := context.Background()
	require.NoError(t, bot.Upload(ctx, "faq.txt", []byte(faq)))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bot.Submit(ctx, "How long does shipping take?")
		}()
	}
	wg.Wait()
	// every submit appends exactly two turns whichever mode it landed in
	assert.Len(t, bot.Transcript(), 1+8*2)
}

func TestLogFileRecordsConversation(t *testing.T) {
	bot, logPath := newBot(t)
	ctx := context.Background()
	require.NoError(t, bot.Upload(ctx, "faq.txt", []byte(faq)))
	require.NoError(t, bot.Submit(ctx, "How long does shipping take?"))

	path, err := bot.LogFile()
	require.NoError(t, err)
	assert.Equal(t, logPath, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Loaded Text File")
	assert.Contains(t, string(data), "Found relevant section using embeddings")
	assert.Contains(t, string(data), "Query answered")
	assert.Contains(t, string(data), "Log file downloaded by user.")
}
