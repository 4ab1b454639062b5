package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Validator checks that documents are usable before the pipeline runs.
type Validator struct {
	maxFileSize int64
	maxPages    int
}

// ValidationResult describes the outcome of validating one document.
type ValidationResult struct {
	Name    string `json:"name"`
	Valid   bool   `json:"valid"`
	Pages   int    `json:"pages,omitempty"`
	Size    int64  `json:"size"`
	Message string `json:"message,omitempty"`
}

// NewValidator creates a new PDF validator with the specified constraints.
// A non-positive limit disables that check.
func NewValidator(maxFileSize int64, maxPages int) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
		maxPages:    maxPages,
	}
}

// Validate checks doc's header, size, structure and page count. A document that
// fails a check yields a result with Valid=false, not an error.
func (v *Validator) Validate(name string, doc []byte) *ValidationResult {
	result := &ValidationResult{
		Name: name,
		Size: int64(len(doc)),
	}

	pages, err := v.check(doc)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Valid = true
	result.Pages = pages
	return result
}

// Check returns an error describing why doc cannot be processed, if any.
func (v *Validator) Check(doc []byte) error {
	_, err := v.check(doc)
	return err
}

func (v *Validator) check(doc []byte) (int, error) {
	if len(doc) == 0 {
		return 0, fmt.Errorf("document is empty")
	}

	if !IsPDF(doc) {
		return 0, ErrNotPDF
	}

	if v.maxFileSize > 0 && int64(len(doc)) > v.maxFileSize {
		return 0, fmt.Errorf("document too large: %d bytes (max: %d bytes)",
			len(doc), v.maxFileSize)
	}

	if err := api.Validate(bytes.NewReader(doc), newConfiguration()); err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", &DecodeError{Op: "validate", Err: err})
	}

	pages, err := PageCount(doc)
	if err != nil {
		return 0, err
	}
	if v.maxPages > 0 && pages > v.maxPages {
		return 0, fmt.Errorf("too many pages: %d (max: %d)", pages, v.maxPages)
	}

	return pages, nil
}
