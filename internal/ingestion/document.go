// Package ingestion turns raw job postings and CV documents into cleaned
// text ready for LLM extraction.
package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// UnsupportedFormatError indicates a document extension the extractor does
// not handle.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q", e.Ext)
}

// ExtractDocumentText reads a CV document (.txt, .pdf, .docx) and returns
// its cleaned plain text.
func ExtractDocumentText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return CleanText(string(content)), nil

	case ".pdf", ".docx":
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from %s: %w", filepath.Base(path), err)
		}
		return CleanText(res.Body), nil

	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

// ExtractUploadText saves an uploaded document to dir and extracts its text.
// The filename's extension decides the extraction path, as with files on
// disk.
func ExtractUploadText(dir, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".pdf", ".docx":
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to flush upload: %w", err)
	}

	return ExtractDocumentText(path)
}
