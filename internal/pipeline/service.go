package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maypok86/otter"
	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-highlight-recoder/internal/convert"
	"github.com/a3tai/mcp-highlight-recoder/internal/labels"
	"github.com/a3tai/mcp-highlight-recoder/internal/pdf"
	"github.com/a3tai/mcp-highlight-recoder/internal/workspace"
)

// Default service limits.
const (
	DefaultCacheSize = 64
	DefaultCacheTTL  = 30 * time.Minute
)

// Config holds the settings the surfaces pass to NewService.
type Config struct {
	Directory     string
	MaxFileSize   int64
	MaxPages      int
	YThreshold    float64
	CacheSize     int
	CacheTTL      time.Duration
	ConverterPath string
	// OnPage reports extraction progress for uncached documents.
	OnPage func(done, total int)
}

// Document is a source document normalised to PDF bytes.
type Document struct {
	Name      string
	Data      []byte
	Converted bool
}

// CacheStats reports extraction cache effectiveness.
type CacheStats struct {
	Size   int     `json:"size"`
	Hits   int64   `json:"hits"`
	Misses int64   `json:"misses"`
	Ratio  float64 `json:"ratio"`
}

// Service orchestrates document loading, extraction and analysis for the MCP,
// HTTP and CLI surfaces. It implements pdf.Processor with cached extraction.
type Service struct {
	workspace   *workspace.Workspace
	validator   *pdf.Validator
	extractor   *pdf.Extractor
	converter   *convert.Converter
	cache       otter.Cache[string, *pdf.Extraction]
	maxFileSize int64
}

var _ pdf.Processor = (*Service)(nil)

// NewService creates a service with all components.
func NewService(cfg Config) (*Service, error) {
	ws, err := workspace.New(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	cache, err := otter.MustBuilder[string, *pdf.Extraction](size).
		CollectStats().
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction cache: %w", err)
	}

	opts := pdf.DefaultOptions()
	if cfg.YThreshold > 0 {
		opts.YThreshold = cfg.YThreshold
	}
	opts.OnPage = cfg.OnPage

	return &Service{
		workspace:   ws,
		validator:   pdf.NewValidator(cfg.MaxFileSize, cfg.MaxPages),
		extractor:   pdf.NewExtractor(opts),
		converter:   convert.New(cfg.ConverterPath, 0),
		cache:       cache,
		maxFileSize: cfg.MaxFileSize,
	}, nil
}

// Close releases the cache.
func (s *Service) Close() {
	s.cache.Close()
}

// Workspace returns the directory that confines file access.
func (s *Service) Workspace() *workspace.Workspace {
	return s.workspace
}

// Converter returns the DOCX converter.
func (s *Service) Converter() *convert.Converter {
	return s.converter
}

// YThreshold returns the effective line-merge tolerance.
func (s *Service) YThreshold() float64 {
	return s.extractor.Options().YThreshold
}

// Load reads path from the workspace and normalises it to PDF.
func (s *Service) Load(ctx context.Context, path string) (*Document, error) {
	resolved, err := s.workspace.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	data, err := pdf.LoadDocument(resolved, s.maxFileSize)
	if err != nil {
		return nil, err
	}
	return s.Decode(ctx, filepath.Base(resolved), data)
}

// Decode normalises uploaded bytes to a checked PDF, converting DOCX input.
func (s *Service) Decode(ctx context.Context, name string, data []byte) (*Document, error) {
	doc := &Document{Name: name, Data: data}
	if convert.IsDOCX(name, data) {
		converted, err := s.converter.ToPDF(ctx, name, data)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", name, err)
		}
		doc.Data = converted
		doc.Converted = true
	}
	if err := s.validator.Check(doc.Data); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

// WriteDocument stores a PDF inside the workspace and returns its absolute path.
func (s *Service) WriteDocument(path string, data []byte) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), pdf.ExtPDF) {
		return "", fmt.Errorf("output must be a .pdf file: %s", path)
	}
	resolved, err := s.workspace.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return resolved, nil
}

// LoadLabels reads a label table from the workspace.
func (s *Service) LoadLabels(path string) (labels.Table, error) {
	resolved, err := s.workspace.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return labels.LoadFile(resolved)
}

// ListFiles lists workspace inputs whose names match query.
func (s *Service) ListFiles(query string, limit int) ([]workspace.File, error) {
	return s.workspace.List(query, limit, s.maxFileSize)
}

// Validate reports whether doc is a usable PDF under the configured limits.
func (s *Service) Validate(name string, doc []byte) *pdf.ValidationResult {
	return s.validator.Validate(name, doc)
}

// FindPagesWithText implements pdf.Processor.
func (s *Service) FindPagesWithText(doc []byte, search string) ([]int, error) {
	return s.extractor.FindPagesWithText(doc, search)
}

// SplitByPages implements pdf.Processor.
func (s *Service) SplitByPages(doc []byte, pages []int) ([]byte, error) {
	return s.extractor.SplitByPages(doc, pages)
}

// ExtractHighlightedStatements implements pdf.Processor.
func (s *Service) ExtractHighlightedStatements(doc []byte) ([]pdf.Statement, error) {
	ex, err := s.Extract(doc)
	if err != nil {
		return nil, err
	}
	return ex.Statements, nil
}

// Extract runs the highlight pass, reusing a cached result for identical bytes.
func (s *Service) Extract(doc []byte) (*pdf.Extraction, error) {
	key := documentKey(doc)
	if ex, ok := s.cache.Get(key); ok {
		log.Debug().Str("document", key[:12]).Msg("extraction cache hit")
		return ex, nil
	}
	ex, err := s.extractor.Extract(doc)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, ex)
	return ex, nil
}

// Analyze runs the full case workflow on doc.
func (s *Service) Analyze(ctx context.Context, doc []byte, table labels.Table, c Case, opts Options) (*Report, error) {
	return Analyze(ctx, s, doc, table, c, opts)
}

// CacheStats returns the extraction cache counters.
func (s *Service) CacheStats() CacheStats {
	st := s.cache.Stats()
	return CacheStats{
		Size:   s.cache.Size(),
		Hits:   st.Hits(),
		Misses: st.Misses(),
		Ratio:  st.Ratio(),
	}
}

func documentKey(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}
