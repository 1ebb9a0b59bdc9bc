package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"supportbot/internal/domain"
	"supportbot/internal/logging"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"faq.txt", FormatText, false},
		{"FAQ.TXT", FormatText, false},
		{"manual.pdf", FormatPDF, false},
		{"/tmp/docs/Manual.Pdf", FormatPDF, false},
		{"faq.docx", "", true},
		{"README", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeText(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewDecoder(logging.FromZap(zap.New(core)))

	text, err := d.Decode(context.Background(), "text", []byte("Returns are accepted within 30 days.\n\nShipping takes 5-7 business days."))
	require.NoError(t, err)
	assert.Equal(t, "Returns are accepted within 30 days.\n\nShipping takes 5-7 business days.", text)
	assert.Equal(t, 1, logs.FilterMessage("Loaded Text File").Len())
}

func TestDecodeEmptyText(t *testing.T) {
	text, err := NewDecoder(nil).Decode(context.Background(), "txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestDecodeInvalidUTF8(t *testing.T) {
	_, err := NewDecoder(nil).Decode(context.Background(), "text", []byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, domain.ErrDecodeFailure)
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewDecoder(logging.FromZap(zap.New(core)))

	_, err := d.Decode(context.Background(), "docx", []byte("irrelevant"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Equal(t, 1, logs.FilterMessage("Unsupported file type uploaded").Len())
}

func TestDecodeCorruptPDF(t *testing.T) {
	_, err := NewDecoder(nil).Decode(context.Background(), "pdf", []byte("this is not a pdf"))
	assert.ErrorIs(t, err, domain.ErrDecodeFailure)
}

func TestJoinPages(t *testing.T) {
	docs := []schema.Document{{PageContent: "Page one"}, {PageContent: "Page two"}}
	assert.Equal(t, "Page one\nPage two\n", joinPages(docs))
}
