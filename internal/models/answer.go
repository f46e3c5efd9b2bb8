package models

// Source describes one retrieved chunk cited by an answer. Content is a
// preview truncated to the configured length (default 200 characters),
// independent of chunk size.
type Source struct {
	Content    string        `json:"content"`
	Metadata   ChunkMetadata `json:"metadata"`
	Source     string        `json:"source"`
	ChunkIndex int           `json:"chunk_index"`

	// RelevanceScore is populated by the stateless strategy only
	RelevanceScore float64 `json:"relevance_score,omitempty"`
}

// Answer is the result of one query strategy invocation.
type Answer struct {
	Text     string   `json:"answer"`
	Sources  []Source `json:"sources"`
	Question string   `json:"question"`
}
