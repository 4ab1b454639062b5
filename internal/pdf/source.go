package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Supported source document extensions.
const (
	ExtPDF  = ".pdf"
	ExtDOCX = ".docx"
)

// LoadDocument reads a source document into memory after checking that it is a
// regular, non-empty file within the size limit.
func LoadDocument(path string, maxFileSize int64) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", os.ErrNotExist, path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if !IsSupportedFile(path) {
		return nil, fmt.Errorf("unsupported document type: %s", path)
	}

	if fileInfo.Size() == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}

	if maxFileSize > 0 && fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// IsSupportedFile reports whether path has a PDF or DOCX extension.
func IsSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtPDF, ExtDOCX:
		return true
	}
	return false
}

// IsPDF reports whether data starts with a PDF header.
func IsPDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
