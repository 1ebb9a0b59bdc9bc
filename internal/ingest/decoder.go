package ingest

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"

	"supportbot/internal/domain"
	"supportbot/internal/logging"
)

// Format is an accepted upload format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// ParseFormat accepts a format tag: pdf, text or txt.
func ParseFormat(tag string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "pdf":
		return FormatPDF, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, tag)
	}
}

// DetectFormat derives the format from a file name extension.
func DetectFormat(name string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", domain.ErrUnsupportedFormat, name)
	}
	return ParseFormat(ext)
}

// Decoder turns PDF and text uploads into plain text.
type Decoder struct {
	logger logging.Logger
}

func NewDecoder(logger logging.Logger) *Decoder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Decoder{logger: logger}
}

// Decode returns the text of data. Unknown formats fail with ErrUnsupportedFormat before any
// decoding; unreadable content fails with ErrDecodeFailure.
func (d *Decoder) Decode(ctx context.Context, format string, data []byte) (string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		d.logger.Warn("ingest", "Unsupported file type uploaded", map[string]interface{}{"format": format})
		return "", err
	}
	var text string
	switch f {
	case FormatPDF:
		text, err = decodePDF(ctx, data)
	case FormatText:
		text, err = decodeText(ctx, data)
	}
	if err != nil {
		d.logger.Error("ingest", "Error reading file", map[string]interface{}{"format": string(f), "error": err})
		return "", err
	}
	d.logger.Info("ingest", loadedMessage(f), map[string]interface{}{"format": string(f), "bytes": len(data)})
	return text, nil
}

func loadedMessage(f Format) string {
	if f == FormatPDF {
		return "Loaded PDF File"
	}
	return "Loaded Text File"
}

// decodePDF joins page texts, each followed by a newline.
func decodePDF(ctx context.Context, data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: pdf: %v", domain.ErrDecodeFailure, r)
		}
	}()
	loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))
	docs, err := loader.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %w", domain.ErrDecodeFailure, err)
	}
	return joinPages(docs), nil
}

func joinPages(docs []schema.Document) string {
	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(doc.PageContent)
		b.WriteString("\n")
	}
	return b.String()
}

func decodeText(ctx context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", domain.ErrDecodeFailure)
	}
	loader := documentloaders.NewText(bytes.NewReader(data))
	docs, err := loader.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: text: %w", domain.ErrDecodeFailure, err)
	}
	if len(docs) == 0 {
		return "", nil
	}
	return docs[0].PageContent, nil
}
