package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-highlight-recoder/internal/convert"
	"github.com/a3tai/mcp-highlight-recoder/internal/pdf"
)

// caseDocument renders a summary page and one argument page per party, each
// with a single yellow highlight under its statement.
func caseDocument(t *testing.T) []byte {
	t.Helper()

	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.SetFont("Helvetica", "", 12)

	doc.AddPage()
	doc.Text(72, 72, "Case Summary")

	for _, p := range []struct{ heading, statement string }{
		{"Smith Arguments", "Smith acted reasonably."},
		{"Jones Arguments", "Jones ignored the warnings."},
	} {
		doc.AddPage()
		doc.Text(72, 72, p.heading)
		doc.SetFillColor(255, 255, 0)
		doc.Rect(72, 200, 300, 16, "F")
		doc.Text(74, 212, p.statement)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewService(Config{
		Directory:     dir,
		MaxFileSize:   10 * 1024 * 1024,
		MaxPages:      50,
		ConverterPath: "definitely-not-a-real-office-binary",
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, dir
}

func TestNewService_Defaults(t *testing.T) {
	s, dir := newTestService(t)
	assert.Equal(t, dir, s.Workspace().Dir())
	assert.Equal(t, pdf.DefaultYThreshold, s.YThreshold())
	assert.False(t, s.Converter().Available())

	_, err := NewService(Config{})
	assert.Error(t, err, "a workspace directory is required")
}

func TestService_LoadAndAnalyze(t *testing.T) {
	s, dir := newTestService(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smith v jones.pdf"), caseDocument(t), 0o644))

	doc, err := s.Load(context.Background(), "smith v jones.pdf")
	require.NoError(t, err)
	assert.Equal(t, "smith v jones.pdf", doc.Name)
	assert.False(t, doc.Converted)

	pages, err := s.FindPagesWithText(doc.Data, "smith arguments")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, pages)

	report, err := s.Analyze(context.Background(), doc.Data, caseTable(), Case{"Smith", "Jones"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, report.Pages1)
	assert.Equal(t, []int{2}, report.Pages2)
	assert.Equal(t, []string{"Smith acted reasonably."}, pdf.Texts(report.Statements1))
	assert.Equal(t, []string{"Jones ignored the warnings."}, pdf.Texts(report.Statements2))
	assert.Len(t, report.Matches.Matched, 2)
	assert.Contains(t, report.Script.Text, "into SMITH1r.")
}

func TestService_ExtractCaches(t *testing.T) {
	s, _ := newTestService(t)
	data := caseDocument(t)

	first, err := s.Extract(data)
	require.NoError(t, err)
	second, err := s.Extract(data)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 3, first.Pages)
	assert.Equal(t, int64(1), s.CacheStats().Hits)

	statements, err := s.ExtractHighlightedStatements(data)
	require.NoError(t, err)
	assert.Len(t, statements, 2)

	_, err = s.Extract([]byte("%PDF-1.4 garbage"))
	assert.True(t, pdf.IsDecodeError(err))
}

func TestService_Load_Errors(t *testing.T) {
	s, dir := newTestService(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake.pdf"), []byte("not a pdf at all"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brief.docx"), []byte("PK\x03\x04"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"outside workspace", "../elsewhere.pdf"},
		{"missing", "missing.pdf"},
		{"not a pdf", "fake.pdf"},
		{"docx without converter", "brief.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Load(context.Background(), tt.path)
			assert.Error(t, err)
		})
	}

	_, err := s.Load(context.Background(), "brief.docx")
	assert.True(t, errors.Is(err, convert.ErrUnavailable))
}

func TestService_LoadLabels(t *testing.T) {
	s, dir := newTestService(t)
	yaml := "- column: AGE\n  label: What is your age?\n- column: SMITH1\n  label: Smith acted reasonably.\n  values: [1, 2, 3, 4]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labels.yaml"), []byte(yaml), 0o644))

	table, err := s.LoadLabels("labels.yaml")
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, []float64{1, 2, 3, 4}, table[1].Values)

	_, err = s.LoadLabels("/etc/passwd")
	assert.Error(t, err)
}

func TestService_ListAndValidate(t *testing.T) {
	s, dir := newTestService(t)
	data := caseDocument(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "case.pdf"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labels.csv"), []byte("column,label\nQ1,Hi\n"), 0o644))

	files, err := s.ListFiles("", 0)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	result := s.Validate("case.pdf", data)
	assert.True(t, result.Valid)
	assert.Equal(t, 3, result.Pages)

	bad := s.Validate("junk.pdf", []byte("junk"))
	assert.False(t, bad.Valid)
}

func TestService_WriteDocument(t *testing.T) {
	s, dir := newTestService(t)
	data := caseDocument(t)

	section, err := s.SplitByPages(data, []int{2})
	require.NoError(t, err)

	path, err := s.WriteDocument("out/jones.pdf", section)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "jones.pdf"), path)

	doc, err := s.Load(context.Background(), "out/jones.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Validate(doc.Name, doc.Data).Pages)

	_, err = s.WriteDocument("jones.txt", section)
	assert.Error(t, err)
	_, err = s.WriteDocument("../jones.pdf", section)
	assert.Error(t, err)
}
