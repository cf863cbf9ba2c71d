// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes tables as CSV, JSON, or YAML text and writes
// them into SQLite databases.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bibtex-utils/pkg/types"
)

// Document is the JSON and YAML shape of a table. Absent values are null.
type Document struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Rows    [][]*string `json:"rows" yaml:"rows"`
}

// Render serializes t in the given format. An empty format means CSV.
func Render(t *types.Table, format types.OutputFormat) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case types.FormatCSV, "":
		err = WriteCSV(&buf, t)
	case types.FormatJSON:
		err = WriteJSON(&buf, t)
	case types.FormatYAML:
		err = WriteYAML(&buf, t)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV writes a header row followed by one record per row, in column
// order. Absent values are written as empty fields. Fields containing
// commas, quotes or newlines are quoted per RFC 4180.
func WriteCSV(w io.Writer, t *types.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i, c := range t.Columns {
			record[i] = r[c]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func document(t *types.Table) Document {
	doc := Document{Columns: t.Columns, Rows: make([][]*string, len(t.Rows))}
	for i, r := range t.Rows {
		doc.Rows[i] = t.Values(r)
	}
	return doc
}

// WriteJSON writes the table as an indented Document.
func WriteJSON(w io.Writer, t *types.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document(t)); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// WriteYAML writes the table as a Document.
func WriteYAML(w io.Writer, t *types.Table) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(document(t)); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return nil
}
