package common

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentID(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	id := NewDocumentID("paper.pdf", base)
	assert.Len(t, id, 32, "md5 hex digest")

	// Same source and time is deterministic
	assert.Equal(t, id, NewDocumentID("paper.pdf", base))

	// A later ingestion of the same source gets a new id
	assert.NotEqual(t, id, NewDocumentID("paper.pdf", base.Add(time.Nanosecond)))

	// Different sources never collide at the same instant
	assert.NotEqual(t, id, NewDocumentID("other.pdf", base))
}

func TestNewRecordID(t *testing.T) {
	id := NewRecordID()
	assert.True(t, strings.HasPrefix(id, "vec_"))
	assert.NotEqual(t, id, NewRecordID())
}

func TestNewSessionID(t *testing.T) {
	assert.NotEqual(t, NewSessionID(), NewSessionID())
}
