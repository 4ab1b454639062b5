// Package workspace confines document and label-file access to one directory
// and lists the inputs available in it.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrOutside is returned by Resolve for paths that escape the workspace.
var ErrOutside = errors.New("path is outside workspace directory")

// Kind classifies a file found in the workspace.
type Kind string

const (
	KindPDF    Kind = "pdf"
	KindDOCX   Kind = "docx"
	KindLabels Kind = "labels"
)

// File describes one usable input in the workspace.
type File struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Kind         Kind   `json:"kind"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Workspace resolves caller-supplied paths against a configured directory.
type Workspace struct {
	dir string
}

// New creates a workspace rooted at dir. The directory does not have to exist yet.
func New(dir string) (*Workspace, error) {
	if dir == "" {
		return nil, fmt.Errorf("workspace directory cannot be empty")
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the configured directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Resolve returns the absolute form of path, which may be relative to the
// workspace, after checking that it stays inside the workspace.
func (w *Workspace) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(w.dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := w.Contains(abs)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("%w: %s", ErrOutside, path)
	}
	return abs, nil
}

// Contains reports whether path lies inside the workspace, following symlinks on
// both sides. A workspace whose directory does not exist yet contains everything.
func (w *Workspace) Contains(path string) (bool, error) {
	if _, err := os.Stat(w.dir); os.IsNotExist(err) {
		return true, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absDir, err := filepath.Abs(w.dir)
	if err != nil {
		return false, fmt.Errorf("failed to resolve workspace directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
		realPath = resolved
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	inside := func(p string) bool {
		for _, d := range []string{cleanDir, realDir} {
			if p == d || strings.HasPrefix(p, strings.TrimSuffix(d, string(filepath.Separator))+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}
	return inside(cleanPath) && inside(realPath), nil
}

// kindOf classifies a file name, returning "" for files the service cannot use.
func kindOf(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	case ".yaml", ".yml", ".json", ".csv":
		return KindLabels
	}
	return ""
}

// List walks the workspace and returns usable files whose name matches query
// (all files when query is empty), up to limit entries when limit > 0. Hidden
// directories and files larger than maxFileSize are skipped.
func (w *Workspace) List(query string, limit int, maxFileSize int64) ([]File, error) {
	absDir, err := filepath.Abs(w.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}
	if _, err := os.Stat(absDir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory does not exist: %s", w.dir)
		}
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	files := []File{}

	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // keep walking past unreadable entries
		}
		if d.IsDir() {
			if path != absDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if limit > 0 && len(files) >= limit {
			return filepath.SkipAll
		}

		kind := kindOf(d.Name())
		if kind == "" || !matchesQuery(d.Name(), query) {
			return nil
		}
		if within, err := w.Contains(path); err != nil || !within {
			return nil //nolint:nilerr // symlinks leading outside are ignored
		}

		info, err := d.Info()
		if err != nil || info.Size() == 0 || (maxFileSize > 0 && info.Size() > maxFileSize) {
			return nil //nolint:nilerr // unusable file
		}

		files = append(files, File{
			Path:         path,
			Name:         d.Name(),
			Kind:         kind,
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// matchesQuery requires every word of query to occur in the file name.
func matchesQuery(name, query string) bool {
	if query == "" {
		return true
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, query) {
		return true
	}

	words := splitWords(strings.TrimSuffix(lower, filepath.Ext(lower)))
	for _, q := range splitWords(query) {
		found := false
		for _, w := range words {
			if strings.Contains(w, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.', '(', ')', '[', ']':
			return true
		}
		return false
	})
}
