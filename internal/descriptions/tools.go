package descriptions

// Tool descriptions with practical examples and use cases

const (
	// Discovery Tools
	ListDocumentsDescription = `List the case documents and label tables available in the configured directory.

**When to use:** Starting a session, or when you do not know the exact name of a case document or label file.

**Examples:**
• Find a case: "List documents matching 'smith jones'"
• Find label tables: "List all files, then pick the .yaml or .csv label table"

**Best practices:** Paths returned here can be passed unchanged to every other tool.`

	ValidateDocumentDescription = `Check that a document is a readable PDF within the configured size and page limits.

**When to use:** Before extraction, especially for uploaded or converted documents.

**Examples:**
• "Validate smith-v-jones.pdf before extracting highlights"
• "Check whether brief.docx converts to a usable PDF"

**Best practices:** DOCX files are converted first, so a failure may come from the converter rather than the PDF.`

	ServerInfoDescription = `Get server information, configured limits, default parties, available tools and directory contents.

**When to use:** First call in a new session, or when unsure which tool to use.

**Best practices:** Follow the workflow in the usage guidance: pages → highlights → match → script.`

	// Extraction Tools
	FindArgumentPagesDescription = `Find the pages whose text contains a phrase, compared case-insensitively.

**When to use:** Locating a party's argument section, e.g. "Smith Arguments", before extracting its highlights.

**Examples:**
• "Which pages of case.pdf contain 'Smith Arguments'?"
• "Find pages mentioning 'Jones Arguments' in brief.docx"

**Best practices:** Pages are 0-indexed and can be passed directly to extract_highlights or split_pages.`

	ExtractHighlightsDescription = `Extract the highlighted sentences of a document in reading order.

**When to use:** Turning a reviewer's yellow highlighting into a list of statements.

**Why it's useful:** Only text under yellow highlight rectangles is kept; statistic fragments such as "45%" are dropped and sentences spanning several lines are joined.

**Examples:**
• "Extract all highlights from case.pdf"
• "Extract highlights from pages 3 and 4 of case.pdf only"

**Best practices:** Use find_argument_pages first and pass its pages to keep one party's statements together.`

	SplitPagesDescription = `Write a new PDF containing only the selected pages.

**When to use:** Saving one party's argument section as its own document.

**Examples:**
• "Save pages 2-4 of case.pdf as smith-arguments.pdf"

**Best practices:** Pages are 0-indexed; duplicates are removed and out-of-range pages are skipped.`

	// Survey Tools
	MatchStatementsDescription = `Match each party's statements to the survey column whose question label contains it.

**When to use:** After extracting highlights, to see which statements appear in the survey.

**Examples:**
• "Match Smith's and Jones's statements against labels.yaml"

**Best practices:** Exact label matches win over partial ones; unmatched statements are listed, not dropped.`

	GeneralQuestionsDescription = `List the general questions that precede the party sections of a label table.

**When to use:** Choosing neutral questions (attitudes, experience) to recode alongside the party statements.

**Best practices:** Metadata columns and free-text questions are excluded automatically.`

	SearchQuestionsDescription = `Search a label table by column name or question text.

**When to use:** Looking up the column for a statement that did not match, or browsing the survey.

**Examples:**
• "Search labels.yaml for 'warning'"

**Best practices:** Queries need at least two characters.`

	GenerateRecodeScriptDescription = `Generate SPSS recode syntax mapping answers onto a two-party favorability axis.

**When to use:** Final step, once statements are matched and any custom ranges are decided.

**Why it's useful:** Each matched statement gets a recode block, a variable label and value labels naming both parties.

**Examples:**
• "Generate the recode script for Smith and Jones with labels.yaml"
• "Also recode general questions Q3 and Q7 as neutral items"

**Best practices:** Pass overrides keyed by statement text to replace default ranges.`

	AnalyzeCaseDescription = `Run the whole workflow for one case: locate both argument sections, extract highlights, match them and generate the recode script.

**When to use:** You have a case document, a label table and the two party names.

**Examples:**
• "Analyze case.pdf with labels.yaml for Smith v Jones"

**Best practices:** Review the unmatched list and warnings before using the script.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"list_documents":         ListDocumentsDescription,
	"validate_document":      ValidateDocumentDescription,
	"server_info":            ServerInfoDescription,
	"find_argument_pages":    FindArgumentPagesDescription,
	"extract_highlights":     ExtractHighlightsDescription,
	"split_pages":            SplitPagesDescription,
	"match_statements":       MatchStatementsDescription,
	"general_questions":      GeneralQuestionsDescription,
	"search_questions":       SearchQuestionsDescription,
	"generate_recode_script": GenerateRecodeScriptDescription,
	"analyze_case":           AnalyzeCaseDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
