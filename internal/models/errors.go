package models

import "fmt"

// EmptyContentError is returned when input text is empty or reduces to
// nothing after normalization.
type EmptyContentError struct {
	Source string
}

func (e *EmptyContentError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("content is empty after normalization: %s", e.Source)
	}
	return "content is empty after normalization"
}

// EmbeddingError wraps a failure from the embedding provider. When raised
// during an Add, nothing was committed to the collection.
type EmbeddingError struct {
	Op  string
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed during %s: %v", e.Op, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError wraps a failure from the chat completion provider.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// SessionNotFoundError reports a destructive operation against an unknown
// session id. Reads on unknown sessions return empty history instead.
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// StorageError wraps a failure from the persistent vector collection.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("vector storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ContentTooLargeError reports an upload above the ingestion size ceiling.
type ContentTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *ContentTooLargeError) Error() string {
	return fmt.Sprintf("content size %d exceeds limit %d", e.Size, e.Limit)
}
