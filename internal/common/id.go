package common

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// NewDocumentID derives a document ID from the source name and an ingestion
// timestamp. Re-ingesting the same source yields a new ID, so duplicate
// uploads coexist as distinct documents.
func NewDocumentID(source string, at time.Time) string {
	sum := md5.Sum([]byte(source + "_" + at.Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])
}

// NewSessionID generates a unique conversation session ID
// Format: <uuid>
func NewSessionID() string {
	return uuid.New().String()
}

// NewRecordID generates a unique vector record ID with the "vec_" prefix
// Format: vec_<uuid>
func NewRecordID() string {
	return "vec_" + uuid.New().String()
}
