// -----------------------------------------------------------------------
// PDF Extractor Interface - Extract text content from PDF documents
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
)

// PDFMetadata contains metadata about a PDF document
type PDFMetadata struct {
	PageCount   int   `json:"page_count"`
	FileSize    int64 `json:"file_size"`
	IsEncrypted bool  `json:"is_encrypted"`
}

// PDFExtractor defines the interface for extracting content from PDF
// documents. Abstracting the implementation allows different backends
// (pdfcpu, Apache Tika, AWS Textract) to be used interchangeably.
type PDFExtractor interface {
	// ExtractText extracts all text content from the PDF bytes.
	// Pages are separated by "--- Page N ---" markers.
	ExtractText(ctx context.Context, content []byte) (string, error)

	// GetMetadata retrieves PDF metadata without extracting text content
	GetMetadata(ctx context.Context, content []byte) (*PDFMetadata, error)
}
