package models

import "time"

// VectorRecord is a chunk persisted in the vector collection together with
// its embedding and a storage-assigned identifier. Records are created on
// insert, never mutated, and removed only by delete-by-document or drop-all.
type VectorRecord struct {
	// ID is the storage-assigned identifier, format vec_<uuid>
	ID string `json:"id" badgerhold:"key"`

	// DocumentID duplicates Metadata.DocumentID at the top level so
	// badgerhold queries can filter on it directly.
	DocumentID string `json:"document_id" badgerhold:"index"`

	Content   string        `json:"content"`
	Metadata  ChunkMetadata `json:"metadata"`
	Embedding []float32     `json:"embedding"`
	CreatedAt time.Time     `json:"created_at"`
}

// ScoredRecord pairs a record with its cosine similarity to a query.
// Higher is closer; results are always ordered by descending similarity.
type ScoredRecord struct {
	Record     *VectorRecord `json:"record"`
	Similarity float64       `json:"similarity"`
}

// SearchFilter restricts a similarity search by metadata equality.
// Zero-value fields are ignored.
type SearchFilter struct {
	DocumentID string   `json:"document_id,omitempty"`
	Source     string   `json:"source,omitempty"`
	FileType   FileType `json:"file_type,omitempty"`
}

// Matches reports whether a record satisfies the filter.
func (f *SearchFilter) Matches(rec *VectorRecord) bool {
	if f == nil {
		return true
	}
	if f.DocumentID != "" && rec.DocumentID != f.DocumentID {
		return false
	}
	if f.Source != "" && rec.Metadata.Source != f.Source {
		return false
	}
	if f.FileType != "" && rec.Metadata.FileType != f.FileType {
		return false
	}
	return true
}

// IndexStats reports the committed state of the vector collection.
// Status is "connected" when the collection is readable and "error" when the
// underlying store failed; failures never panic the request path.
type IndexStats struct {
	Count  int    `json:"count"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
