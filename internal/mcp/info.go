package mcp

import (
	"fmt"

	"github.com/a3tai/mcp-highlight-recoder/internal/descriptions"
	"github.com/a3tai/mcp-highlight-recoder/internal/pipeline"
	"github.com/a3tai/mcp-highlight-recoder/internal/workspace"
)

// maxListedFiles caps the directory listing in server info.
const maxListedFiles = 10

// ServerInfo describes the running server for the server_info tool.
type ServerInfo struct {
	ServerName         string              `json:"server_name"`
	Version            string              `json:"version"`
	DefaultDirectory   string              `json:"default_directory"`
	MaxFileSize        int64               `json:"max_file_size"`
	MaxPages           int                 `json:"max_pages"`
	YThreshold         float64             `json:"y_threshold"`
	Party1             string              `json:"party1,omitempty"`
	Party2             string              `json:"party2,omitempty"`
	ConverterAvailable bool                `json:"converter_available"`
	Cache              pipeline.CacheStats `json:"cache"`
	AvailableTools     []ToolInfo          `json:"available_tools"`
	DirectoryContents  []workspace.File    `json:"directory_contents"`
	UsageGuidance      string              `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}

// ServerInfo collects configuration, cache state and the first files of the directory.
func (s *Server) ServerInfo() (*ServerInfo, error) {
	files, err := s.service.ListFiles("", maxListedFiles+1)
	if err != nil {
		return nil, err
	}

	return &ServerInfo{
		ServerName:         s.config.ServerName,
		Version:            s.config.Version,
		DefaultDirectory:   s.service.Workspace().Dir(),
		MaxFileSize:        s.config.MaxFileSize,
		MaxPages:           s.config.MaxPages,
		YThreshold:         s.service.YThreshold(),
		Party1:             s.config.Party1,
		Party2:             s.config.Party2,
		ConverterAvailable: s.service.Converter().Available(),
		Cache:              s.service.CacheStats(),
		AvailableTools:     availableTools(),
		DirectoryContents:  files,
		UsageGuidance:      usageGuidance(s.config.MaxFileSize),
	}, nil
}

func availableTools() []ToolInfo {
	const path = "path (required): case document, absolute or relative to the document directory"
	const table = "labels (required): label table file"
	const parties = "party1, party2 (optional): party names, default to the configured parties"

	return []ToolInfo{
		{"list_documents", descriptions.GetToolDescription("list_documents"),
			"query (optional): words in the file name, limit (optional): maximum results"},
		{"validate_document", descriptions.GetToolDescription("validate_document"), path},
		{"server_info", descriptions.GetToolDescription("server_info"), "No parameters required"},
		{"find_argument_pages", descriptions.GetToolDescription("find_argument_pages"),
			path + ", text (required): phrase to find"},
		{"extract_highlights", descriptions.GetToolDescription("extract_highlights"),
			path + ", pages (optional): 0-indexed pages"},
		{"split_pages", descriptions.GetToolDescription("split_pages"),
			path + ", pages (required): 0-indexed pages, output (required): .pdf path"},
		{"match_statements", descriptions.GetToolDescription("match_statements"),
			table + ", " + parties + ", statements1, statements2: statement lists"},
		{"general_questions", descriptions.GetToolDescription("general_questions"), table + ", " + parties},
		{"search_questions", descriptions.GetToolDescription("search_questions"),
			table + ", query (required): text to find"},
		{"generate_recode_script", descriptions.GetToolDescription("generate_recode_script"),
			table + ", " + parties + ", statements1, statements2, neutral (optional): columns, overrides (optional)"},
		{"analyze_case", descriptions.GetToolDescription("analyze_case"),
			path + ", " + table + ", " + parties + ", neutral (optional), overrides (optional)"},
	}
}

func usageGuidance(maxFileSize int64) string {
	return fmt.Sprintf(`Highlight Recoder Usage Guide:

1. DISCOVER INPUTS:
   - Use 'list_documents' to find case documents (.pdf, .docx) and label tables (.yaml, .json, .csv)
   - Use 'validate_document' to check a document before extraction

2. LOCATE ARGUMENT SECTIONS:
   - Use 'find_argument_pages' with "<party> Arguments" for each party
   - Optionally save a section with 'split_pages'

3. EXTRACT STATEMENTS:
   - Use 'extract_highlights' with the pages of one party
   - Only yellow-highlighted text is returned, one sentence per statement

4. MATCH TO THE SURVEY:
   - Use 'match_statements' to find the column of each statement
   - Use 'search_questions' to look up statements that did not match
   - Use 'general_questions' to pick neutral questions

5. GENERATE SYNTAX:
   - Use 'generate_recode_script' with the statements, neutral columns and overrides
   - Or run everything at once with 'analyze_case'

IMPORTANT NOTES:
- Pages are 0-indexed in requests and 1-based in extracted statements
- DOCX files need LibreOffice (soffice) on the server
- The server can handle files up to %dMB`, maxFileSize/(1024*1024))
}
