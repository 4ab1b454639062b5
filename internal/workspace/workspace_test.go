package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestNew(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty directory")
	}
	w, err := New("/non/existent/path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Dir() != "/non/existent/path" {
		t.Errorf("Dir() = %s", w.Dir())
	}
}

func TestWorkspace_Resolve(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	w, _ := New(dir)

	if err := os.WriteFile(filepath.Join(dir, "case.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "relative", path: "case.pdf", want: filepath.Join(dir, "case.pdf")},
		{name: "absolute inside", path: filepath.Join(dir, "sub", "x.pdf"), want: filepath.Join(dir, "sub", "x.pdf")},
		{name: "directory itself", path: dir, want: dir},
		{name: "traversal", path: "../escape.pdf", wantErr: true},
		{name: "absolute outside", path: filepath.Join(outside, "x.pdf"), wantErr: true},
		{name: "empty", path: "", wantErr: true},
		{name: "null bytes stripped", path: "case\x00.pdf", want: filepath.Join(dir, "case.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.Resolve(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}

	if _, err := w.Resolve("../escape.pdf"); !errors.Is(err, ErrOutside) {
		t.Errorf("expected ErrOutside, got %v", err)
	}
}

func TestWorkspace_ContainsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	if err := os.WriteFile(target, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	w, _ := New(dir)
	within, err := w.Contains(link)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if within {
		t.Error("symlink escaping the workspace must not be contained")
	}
}

func TestWorkspace_List(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"smith v jones.pdf":     "%PDF-1.4",
		"smith-brief.docx":      "PK",
		"labels.yaml":           "- column: Q1",
		"notes.txt":             "ignored",
		"empty.pdf":             "",
		".hidden/secret.pdf":    "%PDF-1.4",
		"archive/old_case.pdf":  "%PDF-1.4",
		"archive/responses.csv": "column,label",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	w, _ := New(dir)

	all, err := w.List("", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 files, got %d: %+v", len(all), all)
	}

	kinds := map[string]Kind{}
	for _, f := range all {
		kinds[f.Name] = f.Kind
	}
	if kinds["smith-brief.docx"] != KindDOCX || kinds["labels.yaml"] != KindLabels || kinds["old_case.pdf"] != KindPDF {
		t.Errorf("unexpected kinds: %v", kinds)
	}

	smith, _ := w.List("smith jones", 0, 0)
	if len(smith) != 1 || smith[0].Name != "smith v jones.pdf" {
		t.Errorf("query match failed: %+v", smith)
	}

	limited, _ := w.List("", 2, 0)
	if len(limited) != 2 {
		t.Errorf("expected 2 files with limit, got %d", len(limited))
	}

	small, _ := w.List("", 0, 9)
	for _, f := range small {
		if f.Size > 9 {
			t.Errorf("file %s exceeds size limit", f.Name)
		}
	}

	missing, _ := New(filepath.Join(dir, "nope"))
	if _, err := missing.List("", 0, 0); err == nil {
		t.Error("expected error for missing directory")
	}
}
