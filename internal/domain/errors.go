package domain

import "errors"

var (
	// ErrDocumentNotFound means neither configured path points at an existing file.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrExtraction means a document exists but no text could be extracted from it.
	ErrExtraction = errors.New("document text extraction failed")
	// ErrInvalidConfig is returned for inconsistent pipeline settings.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrCompletion wraps failures reported by the completion service.
	ErrCompletion = errors.New("completion failed")
	// ErrCompletionTimeout means the completion service did not answer in time.
	ErrCompletionTimeout = errors.New("completion timed out")
)
