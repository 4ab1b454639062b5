package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-highlight-recoder/internal/config"
	"github.com/a3tai/mcp-highlight-recoder/internal/descriptions"
	"github.com/a3tai/mcp-highlight-recoder/internal/labels"
	"github.com/a3tai/mcp-highlight-recoder/internal/pipeline"
	"github.com/a3tai/mcp-highlight-recoder/internal/recode"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *pipeline.Service
	mcpServer *server.MCPServer
	sse       *server.SSEServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *pipeline.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
	}
	s.registerTools()
	s.sse = server.NewSSEServer(mcpServer)

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pathParam := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Case document (.pdf or .docx), absolute or relative to the document directory"),
	)
	labelsParam := mcp.WithString("labels",
		mcp.Required(),
		mcp.Description("Label table file (.yaml, .json or .csv) with column, label and optional values"),
	)
	party1Param := mcp.WithString("party1",
		mcp.Description("First party name (defaults to the configured party)"),
	)
	party2Param := mcp.WithString("party2",
		mcp.Description("Second party name (defaults to the configured party)"),
	)
	neutralParam := mcp.WithArray("neutral",
		mcp.Description("General question columns to recode as neutral items"),
	)
	overridesParam := mcp.WithObject("overrides",
		mcp.Description(`Recode settings keyed by statement text, e.g. {"Smith acted reasonably.": `+
			`{"type": "categorical", "ranges": [{"start": 1, "end": 3, "becomes": 1}, {"start": 4, "end": 5, "becomes": 2}]}}`),
	)

	s.mcpServer.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription(descriptions.ListDocumentsDescription),
		mcp.WithString("query", mcp.Description("Optional words that must appear in the file name")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of files to return (default: all)")),
	), s.handleListDocuments)

	s.mcpServer.AddTool(mcp.NewTool("validate_document",
		mcp.WithDescription(descriptions.ValidateDocumentDescription),
		pathParam,
	), s.handleValidateDocument)

	s.mcpServer.AddTool(mcp.NewTool("server_info",
		mcp.WithDescription(descriptions.ServerInfoDescription),
	), s.handleServerInfo)

	s.mcpServer.AddTool(mcp.NewTool("find_argument_pages",
		mcp.WithDescription(descriptions.FindArgumentPagesDescription),
		pathParam,
		mcp.WithString("text", mcp.Required(), mcp.Description("Phrase to look for, e.g. 'Smith Arguments'")),
	), s.handleFindArgumentPages)

	s.mcpServer.AddTool(mcp.NewTool("extract_highlights",
		mcp.WithDescription(descriptions.ExtractHighlightsDescription),
		pathParam,
		mcp.WithArray("pages", mcp.Description("Optional 0-indexed pages to restrict extraction to")),
	), s.handleExtractHighlights)

	s.mcpServer.AddTool(mcp.NewTool("split_pages",
		mcp.WithDescription(descriptions.SplitPagesDescription),
		pathParam,
		mcp.WithArray("pages", mcp.Required(), mcp.Description("0-indexed pages to keep")),
		mcp.WithString("output", mcp.Required(), mcp.Description("Output .pdf path inside the document directory")),
	), s.handleSplitPages)

	s.mcpServer.AddTool(mcp.NewTool("match_statements",
		mcp.WithDescription(descriptions.MatchStatementsDescription),
		labelsParam, party1Param, party2Param,
		mcp.WithArray("statements1", mcp.Description("Statements of the first party")),
		mcp.WithArray("statements2", mcp.Description("Statements of the second party")),
	), s.handleMatchStatements)

	s.mcpServer.AddTool(mcp.NewTool("general_questions",
		mcp.WithDescription(descriptions.GeneralQuestionsDescription),
		labelsParam, party1Param, party2Param,
	), s.handleGeneralQuestions)

	s.mcpServer.AddTool(mcp.NewTool("search_questions",
		mcp.WithDescription(descriptions.SearchQuestionsDescription),
		labelsParam,
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to find in column names or labels")),
	), s.handleSearchQuestions)

	s.mcpServer.AddTool(mcp.NewTool("generate_recode_script",
		mcp.WithDescription(descriptions.GenerateRecodeScriptDescription),
		labelsParam, party1Param, party2Param,
		mcp.WithArray("statements1", mcp.Description("Statements of the first party")),
		mcp.WithArray("statements2", mcp.Description("Statements of the second party")),
		neutralParam, overridesParam,
	), s.handleGenerateRecodeScript)

	s.mcpServer.AddTool(mcp.NewTool("analyze_case",
		mcp.WithDescription(descriptions.AnalyzeCaseDescription),
		pathParam, labelsParam, party1Param, party2Param, neutralParam, overridesParam,
	), s.handleAnalyzeCase)
}

// toolError converts an error into an MCP error result.
func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// caseFor resolves party names, falling back to the configured defaults.
func (s *Server) caseFor(party1, party2 string) (pipeline.Case, error) {
	c, err := pipeline.ResolveCase(party1, party2, pipeline.Case{Name1: s.config.Party1, Name2: s.config.Party2})
	if err != nil {
		return c, fmt.Errorf("%w (pass party1 and party2 or configure default parties)", err)
	}
	return c, nil
}

// Handler functions
func (s *Server) handleListDocuments(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listArgs
	if err := bindArguments(request, &args); err != nil {
		return toolError(err)
	}

	files, err := s.service.ListFiles(args.Query, args.Limit)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatFiles(s.service.Workspace().Dir(), args.Query, files)), nil
}

func (s *Server) handleValidateDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return toolError(err)
	}

	doc, err := s.service.Load(ctx, path)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Document validation failed for %s: %v", path, err)), nil
	}
	result := s.service.Validate(doc.Name, doc.Data)
	return mcp.NewToolResultText(formatValidation(result, doc.Converted)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := s.ServerInfo()
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatServerInfo(info)), nil
}

func (s *Server) handleFindArgumentPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args pagesArgs
	if err := bindArguments(request, &args); err != nil {
		return toolError(err)
	}
	if args.Path == "" || strings.TrimSpace(args.Text) == "" {
		return mcp.NewToolResultError("path and text are required"), nil
	}

	doc, err := s.service.Load(ctx, args.Path)
	if err != nil {
		return toolError(err)
	}
	pages, err := s.service.FindPagesWithText(doc.Data, args.Text)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatPages(doc.Name, args.Text, pages)), nil
}

func (s *Server) handleExtractHighlights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args extractArgs
	if err := bindArguments(request, &args); err != nil {
		return toolError(err)
	}
	if args.Path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	doc, err := s.service.Load(ctx, args.Path)
	if err != nil {
		return toolError(err)
	}
	data := doc.Data
	if len(args.Pages) > 0 {
		if data, err = s.service.SplitByPages(data, args.Pages); err != nil {
			return toolError(err)
		}
	}

	ex, err := s.service.Extract(data)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatExtraction(doc.Name, args.Pages, ex)), nil
}

func (s *Server) handleSplitPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args splitArgs
	if err := bindArguments(request, &args); err != nil {
		return toolError(err)
	}
	if args.Path == "" || args.Output == "" {
		return mcp.NewToolResultError("path and output are required"), nil
	}

	doc, err := s.service.Load(ctx, args.Path)
	if err != nil {
		return toolError(err)
	}
	section, err := s.service.SplitByPages(doc.Data, args.Pages)
	if err != nil {
		return toolError(err)
	}
	written, err := s.service.WriteDocument(args.Output, section)
	if err != nil {
		return toolError(err)
	}

	result := s.service.Validate(written, section)
	return mcp.NewToolResultText(fmt.Sprintf("Wrote %d page(s) of %s to %s (%d bytes)",
		result.Pages, doc.Name, written, len(section))), nil
}

func (s *Server) handleMatchStatements(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args matchArgs
	if err := bindArguments(request, &args); err != nil {
		return toolError(err)
	}

	table, c, err := s.tableAndCase(args.Labels, args.Party1, args.Party2)
	if err != nil {
		return toolError(err)
	}
	result := labels.NewMatcher(table).MatchAll(c.Name1, args.Statements1, c.Name2, args.Statements2)
	return mcp.NewToolResultText(formatMatches(result)), nil
}

func (s *Server) handleGeneralQuestions(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args partyArgs
	if err := bindArguments(request, &args); err != nil {
		return toolError(err)
	}

	table, c, err := s.tableAndCase(args.Labels, args.Party1, args.Party2)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatEntries("General questions", labels.GeneralQuestions(table, c.Name1, c.Name2))), nil
}

func (s *Server) handleSearchQuestions(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchArgs
	if err := bindArguments(request, &args); err != nil {
		return toolError(err)
	}
	if args.Labels == "" {
		return mcp.NewToolResultError("labels is required"), nil
	}

	table, err := s.service.LoadLabels(args.Labels)
	if err != nil {
		return toolError(err)
	}
	title := fmt.Sprintf("Questions matching %q", args.Query)
	return mcp.NewToolResultText(formatEntries(title, labels.Search(table, args.Query))), nil
}

func (s *Server) handleGenerateRecodeScript(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args scriptArgs
	if err := bindArguments(request, &args); err != nil {
		return toolError(err)
	}
	if err := validateOverrides(args.Overrides); err != nil {
		return toolError(err)
	}

	table, c, err := s.tableAndCase(args.Labels, args.Party1, args.Party2)
	if err != nil {
		return toolError(err)
	}

	script := recode.NewGenerator(c.Name1, c.Name2, labels.NewMatcher(table)).Generate(recode.Request{
		Statements1: args.Statements1,
		Statements2: args.Statements2,
		Neutral:     pipeline.NeutralSelections(table, args.Neutral),
		Overrides:   args.Overrides,
	})
	return mcp.NewToolResultText(formatScript(script)), nil
}

func (s *Server) handleAnalyzeCase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args analyzeArgs
	if err := bindArguments(request, &args); err != nil {
		return toolError(err)
	}
	if args.Path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	if err := validateOverrides(args.Overrides); err != nil {
		return toolError(err)
	}

	table, c, err := s.tableAndCase(args.Labels, args.Party1, args.Party2)
	if err != nil {
		return toolError(err)
	}
	doc, err := s.service.Load(ctx, args.Path)
	if err != nil {
		return toolError(err)
	}

	report, err := s.service.Analyze(ctx, doc.Data, table, c, pipeline.Options{
		Overrides: args.Overrides,
		Neutral:   pipeline.NeutralSelections(table, args.Neutral),
	})
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatReport(doc.Name, report)), nil
}

func (s *Server) tableAndCase(labelsPath, party1, party2 string) (labels.Table, pipeline.Case, error) {
	if labelsPath == "" {
		return nil, pipeline.Case{}, fmt.Errorf("labels is required")
	}
	c, err := s.caseFor(party1, party2)
	if err != nil {
		return nil, c, err
	}
	table, err := s.service.LoadLabels(labelsPath)
	if err != nil {
		return nil, c, err
	}
	return table, c, nil
}

func validateOverrides(overrides map[string]recode.Settings) error {
	for stmt, settings := range overrides {
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("override for %q: %w", stmt, err)
		}
	}
	return nil
}

// SSEHandler serves the MCP protocol over server-sent events for server mode.
// The same handler must be mounted on both the /sse and /message paths.
func (s *Server) SSEHandler() http.Handler {
	return s.sse
}

// Run serves MCP over standard I/O until the client disconnects
func (s *Server) Run(_ context.Context) error {
	log.Debug().
		Str("directory", s.config.DocumentDirectory).
		Msg("starting highlight recoder MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
