// -----------------------------------------------------------------------
// PDF Extractor Service - Extract text content from PDF documents
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/interfaces"
)

// Extractor implements the PDFExtractor interface using pdfcpu
type Extractor struct {
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor service
func NewExtractor(logger arbor.ILogger) *Extractor {
	// Create a temp directory for PDF processing
	tempDir := filepath.Join(os.TempDir(), "lectern-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Extractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractText extracts all text content from the PDF bytes. Pages are
// separated by "--- Page N ---" markers so page boundaries survive chunking.
func (e *Extractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tempFile, cleanup, err := e.writeTempPDF(content, "extract")
	if err != nil {
		return "", err
	}
	defer cleanup()

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF context: %w", err)
	}
	pageCount := pdfCtx.PageCount

	// pdfcpu extracts page content to files in an output directory
	outDir := filepath.Join(e.tempDir, "pages_"+uuid.New().String())
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	pageTexts := make(map[int]string)
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		e.logger.Warn().Err(err).Msg("PDF content extraction failed, pages will be empty")
	} else {
		files, _ := os.ReadDir(outDir)
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(outDir, file.Name()))
			if err != nil {
				continue
			}
			var pageNum int
			if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err == nil {
				pageTexts[pageNum] = string(data)
			} else if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
				pageTexts[pageNum] = string(data)
			}
		}
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if pageNum > 1 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(fmt.Sprintf("--- Page %d ---\n\n", pageNum))
		builder.WriteString(pageTexts[pageNum])
	}

	e.logger.Debug().
		Int("pages", pageCount).
		Int("characters", builder.Len()).
		Msg("PDF text extracted")

	return builder.String(), nil
}

// GetMetadata retrieves PDF metadata without extracting text content
func (e *Extractor) GetMetadata(ctx context.Context, content []byte) (*interfaces.PDFMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tempFile, cleanup, err := e.writeTempPDF(content, "meta")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	metadata := &interfaces.PDFMetadata{
		PageCount:   pdfCtx.PageCount,
		FileSize:    int64(len(content)),
		IsEncrypted: pdfCtx.Encrypt != nil,
	}

	e.logger.Debug().
		Int("page_count", metadata.PageCount).
		Int64("file_size", metadata.FileSize).
		Bool("encrypted", metadata.IsEncrypted).
		Msg("Extracted PDF metadata")

	return metadata, nil
}

// writeTempPDF stages PDF bytes in a temp file for pdfcpu's file-based API
func (e *Extractor) writeTempPDF(content []byte, prefix string) (string, func(), error) {
	tempFile := filepath.Join(e.tempDir, fmt.Sprintf("%s_%s.pdf", prefix, uuid.New().String()))
	if err := os.WriteFile(tempFile, content, 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	return tempFile, func() { os.Remove(tempFile) }, nil
}
