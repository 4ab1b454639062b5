package labels

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a label table file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// nullMarker in a CSV label cell stands for a missing label.
const nullMarker = `\N`

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported label file type: %s", path)
}

// LoadFile reads and validates a label table from disk.
func LoadFile(path string) (Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes and validates a label table.
func Parse(data []byte, format Format) (Table, error) {
	var (
		table Table
		err   error
	)
	switch format {
	case FormatYAML, FormatJSON:
		table, err = parseYAML(data)
	case FormatCSV:
		table, err = parseCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported label format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// parseYAML accepts a sequence of {column, label, values} mappings. JSON input
// decodes through the same path. Every row must carry a label key; an explicit
// null keeps the label nil.
func parseYAML(data []byte) (Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ShapeError{Row: -1, Reason: fmt.Sprintf("decode: %v", err)}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Table{}, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return Table{}, nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, &ShapeError{Row: -1, Reason: "expected a list of entries"}
	}

	table := make(Table, 0, len(root.Content))
	for i, row := range root.Content {
		if row.Kind != yaml.MappingNode {
			return nil, &ShapeError{Row: i, Reason: "expected a mapping"}
		}
		if !hasKey(row, "label") {
			return nil, &ShapeError{Row: i, Reason: "missing label"}
		}
		var e Entry
		if err := row.Decode(&e); err != nil {
			return nil, &ShapeError{Row: i, Reason: fmt.Sprintf("decode: %v", err)}
		}
		table = append(table, e)
	}
	return table, nil
}

// hasKey reports whether mapping node m defines key.
func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

// parseCSV reads a header row naming column and label (values optional) followed
// by one row per variable. Value codes are separated by semicolons.
func parseCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}
	if err != nil {
		return nil, &ShapeError{Row: -1, Reason: fmt.Sprintf("read header: %v", err)}
	}

	colIdx, labelIdx, valuesIdx := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "column":
			colIdx = i
		case "label":
			labelIdx = i
		case "values":
			valuesIdx = i
		}
	}
	if colIdx < 0 || labelIdx < 0 {
		return nil, &ShapeError{Row: -1, Reason: "header must name column and label"}
	}

	table := Table{}
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ShapeError{Row: row, Reason: err.Error()}
		}
		if colIdx >= len(rec) || labelIdx >= len(rec) {
			return nil, &ShapeError{Row: row, Reason: fmt.Sprintf("expected at least %d fields, got %d", max(colIdx, labelIdx)+1, len(rec))}
		}

		e := Entry{Column: strings.TrimSpace(rec[colIdx])}
		if label := rec[labelIdx]; label != nullMarker {
			e.Label = &label
		}
		if valuesIdx >= 0 && valuesIdx < len(rec) {
			values, err := parseValues(rec[valuesIdx])
			if err != nil {
				return nil, &ShapeError{Row: row, Reason: err.Error()}
			}
			e.Values = values
		}
		table = append(table, e)
	}
	return table, nil
}

func parseValues(cell string) ([]float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	parts := strings.Split(cell, ";")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value code %q", p)
		}
		values = append(values, v)
	}
	return values, nil
}
