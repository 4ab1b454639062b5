// Package convert turns word-processing documents into PDF with a headless
// LibreOffice install.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBinary is the LibreOffice executable looked up on PATH.
const DefaultBinary = "soffice"

// DefaultTimeout bounds a single conversion.
const DefaultTimeout = 2 * time.Minute

// ErrUnavailable is returned when the converter binary cannot be found.
var ErrUnavailable = errors.New("document converter not available")

// zipMagic starts every OOXML container.
var zipMagic = []byte("PK\x03\x04")

// Converter runs LibreOffice to produce PDF bytes.
type Converter struct {
	binary  string
	timeout time.Duration
}

// New creates a converter. An empty binary falls back to DefaultBinary.
func New(binary string, timeout time.Duration) *Converter {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Converter{binary: binary, timeout: timeout}
}

// Available reports whether the converter binary can be executed.
func (c *Converter) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// IsDOCX reports whether a document should be converted before processing,
// judged by its name and, failing that, by its container signature.
func IsDOCX(name string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(name), ".docx") {
		return true
	}
	return filepath.Ext(name) == "" && bytes.HasPrefix(data, zipMagic)
}

// ToPDF converts a DOCX document to PDF. Temporary files are removed before returning.
func (c *Converter) ToPDF(ctx context.Context, name string, data []byte) ([]byte, error) {
	path, err := exec.LookPath(c.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, c.binary)
	}

	dir, err := os.MkdirTemp("", "recoder-convert-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "document"
	}
	input := filepath.Join(dir, base+".docx")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--headless", "--convert-to", "pdf", "--outdir", dir, input)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("conversion failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	log.Debug().Str("file", name).Dur("elapsed", time.Since(start)).Msg("converted document to PDF")

	out, err := os.ReadFile(filepath.Join(dir, base+".pdf"))
	if err != nil {
		return nil, fmt.Errorf("converter produced no PDF: %w", err)
	}
	return out, nil
}
