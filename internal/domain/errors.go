package domain

import "errors"

var (
	// ErrUnsupportedFormat is returned for uploads whose type is not pdf or text.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrDecodeFailure is returned when a recognized format cannot be decoded.
	ErrDecodeFailure = errors.New("document decode failed")
	// ErrInvalidFeedback is returned for feedback outside the accepted vocabulary.
	ErrInvalidFeedback = errors.New("invalid feedback")
	// ErrEmptyCorpus marks a document that produced no sections.
	ErrEmptyCorpus = errors.New("document has no sections")
	// ErrModelUnavailable wraps failures of the embedding or answering backends.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrIndexOutOfSync means the index and the sections it should cover have different lengths.
	ErrIndexOutOfSync = errors.New("index out of sync with sections")
)
