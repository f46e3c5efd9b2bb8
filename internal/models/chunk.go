package models

import "time"

// FileType identifies the declared format of an ingested document.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeText FileType = "text"
)

// ChunkMetadata carries the provenance of a single chunk. The generated
// fields are fixed struct members so caller-supplied Extra data can never
// shadow them.
type ChunkMetadata struct {
	// Source is the origin document name (file name or caller-supplied label)
	Source string `json:"source"`

	// DocumentID groups every chunk produced by one ingestion call.
	// Derived from source + ingestion timestamp, so re-ingesting the same
	// content yields a new ID.
	DocumentID string `json:"document_id"`

	FileType    FileType  `json:"file_type"`
	ProcessedAt time.Time `json:"processed_at"`

	// TotalCharacters is the length of the normalized source text
	TotalCharacters int `json:"total_characters"`

	// ChunkIndex is the 0-based position within the parent document.
	// Indices are contiguous and TotalChunks equals the document's chunk count.
	ChunkIndex  int `json:"chunk_index"`
	TotalChunks int `json:"total_chunks"`
	ChunkSize   int `json:"chunk_size"`

	// Extra holds caller-supplied metadata (tags, authorship, etc.)
	Extra map[string]any `json:"extra,omitempty"`
}

// Chunk is a bounded span of document text plus provenance metadata.
// Chunks are immutable once created; they are the unit of embedding and
// retrieval.
type Chunk struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}
