package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/a3tai/mcp-highlight-recoder/internal/labels"
	"github.com/a3tai/mcp-highlight-recoder/internal/pdf"
	"github.com/a3tai/mcp-highlight-recoder/internal/pipeline"
	"github.com/a3tai/mcp-highlight-recoder/internal/recode"
)

// PagesRequest asks for the pages of a document containing Text.
type PagesRequest struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// PagesResponse lists 0-indexed pages.
type PagesResponse struct {
	Document string `json:"document"`
	Pages    []int  `json:"pages"`
}

// ExtractRequest selects a document and, optionally, the pages to scan.
type ExtractRequest struct {
	Path  string `json:"path"`
	Pages []int  `json:"pages,omitempty"`
}

// SplitRequest copies Pages of a document to Output in the workspace.
type SplitRequest struct {
	Path   string `json:"path"`
	Pages  []int  `json:"pages"`
	Output string `json:"output"`
}

// SplitResponse describes the written section.
type SplitResponse struct {
	Path  string `json:"path"`
	Pages int    `json:"pages"`
	Size  int    `json:"size"`
}

// CaseRequest names the label table and the parties. Empty parties fall back
// to the configured defaults.
type CaseRequest struct {
	Labels string `json:"labels"`
	Party1 string `json:"party1,omitempty"`
	Party2 string `json:"party2,omitempty"`
}

// RecodeRequest carries statements and recode settings for script generation.
type RecodeRequest struct {
	CaseRequest
	Statements1 []string                   `json:"statements1"`
	Statements2 []string                   `json:"statements2"`
	Neutral     []string                   `json:"neutral,omitempty"`
	Overrides   map[string]recode.Settings `json:"overrides,omitempty"`
}

// AnalyzeRequest runs the whole pipeline on a workspace document.
type AnalyzeRequest struct {
	CaseRequest
	Path      string                     `json:"path"`
	Neutral   []string                   `json:"neutral,omitempty"`
	Overrides map[string]recode.Settings `json:"overrides,omitempty"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, badRequest("invalid limit %q", raw))
			return
		}
		limit = n
	}

	files, err := s.service.ListFiles(q.Get("query"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files, "count": len(files)})
}

func (s *Server) searchQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("labels") == "" {
		writeError(w, badRequest("labels is required"))
		return
	}
	table, err := s.service.LoadLabels(q.Get("labels"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": labels.Search(table, q.Get("query"))})
}

func (s *Server) findPages(w http.ResponseWriter, r *http.Request) {
	var req PagesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Path == "" || strings.TrimSpace(req.Text) == "" {
		writeError(w, badRequest("path and text are required"))
		return
	}

	doc, err := s.service.Load(r.Context(), req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	pages, err := s.service.FindPagesWithText(doc.Data, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PagesResponse{Document: doc.Name, Pages: pages})
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Path == "" {
		writeError(w, badRequest("path is required"))
		return
	}

	doc, err := s.service.Load(r.Context(), req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	data := doc.Data
	if len(req.Pages) > 0 {
		if data, err = s.service.SplitByPages(data, req.Pages); err != nil {
			writeError(w, err)
			return
		}
	}

	ex, err := s.service.Extract(data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) split(w http.ResponseWriter, r *http.Request) {
	var req SplitRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Path == "" || req.Output == "" {
		writeError(w, badRequest("path and output are required"))
		return
	}

	doc, err := s.service.Load(r.Context(), req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	section, err := s.service.SplitByPages(doc.Data, req.Pages)
	if err != nil {
		writeError(w, err)
		return
	}
	written, err := s.service.WriteDocument(req.Output, section)
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := pdf.PageCount(section)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SplitResponse{Path: written, Pages: count, Size: len(section)})
}

// tableAndCase loads the label table and resolves the parties of req.
func (s *Server) tableAndCase(req CaseRequest) (labels.Table, pipeline.Case, error) {
	if req.Labels == "" {
		return nil, pipeline.Case{}, badRequest("labels is required")
	}
	c, err := pipeline.ResolveCase(req.Party1, req.Party2, pipeline.Case{Name1: s.config.Party1, Name2: s.config.Party2})
	if err != nil {
		return nil, c, err
	}
	table, err := s.service.LoadLabels(req.Labels)
	if err != nil {
		return nil, c, err
	}
	return table, c, nil
}

func validateOverrides(overrides map[string]recode.Settings) error {
	for stmt, settings := range overrides {
		if err := settings.Validate(); err != nil {
			return badRequest("override for %q: %v", stmt, err)
		}
	}
	return nil
}

func (s *Server) match(w http.ResponseWriter, r *http.Request) {
	var req RecodeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	table, c, err := s.tableAndCase(req.CaseRequest)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels.NewMatcher(table).MatchAll(c.Name1, req.Statements1, c.Name2, req.Statements2))
}

func (s *Server) general(w http.ResponseWriter, r *http.Request) {
	var req CaseRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	table, c, err := s.tableAndCase(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": labels.GeneralQuestions(table, c.Name1, c.Name2)})
}

func (s *Server) recode(w http.ResponseWriter, r *http.Request) {
	var req RecodeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateOverrides(req.Overrides); err != nil {
		writeError(w, err)
		return
	}
	table, c, err := s.tableAndCase(req.CaseRequest)
	if err != nil {
		writeError(w, err)
		return
	}

	script := recode.NewGenerator(c.Name1, c.Name2, labels.NewMatcher(table)).Generate(recode.Request{
		Statements1: req.Statements1,
		Statements2: req.Statements2,
		Neutral:     pipeline.NeutralSelections(table, req.Neutral),
		Overrides:   req.Overrides,
	})
	writeJSON(w, http.StatusOK, script)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Path == "" {
		writeError(w, badRequest("path is required"))
		return
	}
	if err := validateOverrides(req.Overrides); err != nil {
		writeError(w, err)
		return
	}
	table, c, err := s.tableAndCase(req.CaseRequest)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := s.service.Load(r.Context(), req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := s.service.Analyze(r.Context(), doc.Data, table, c, pipeline.Options{
		Overrides: req.Overrides,
		Neutral:   pipeline.NeutralSelections(table, req.Neutral),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
