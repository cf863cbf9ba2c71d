// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bib loads BibTeX databases into tables and merges them with
// citation sets.
package bib

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/bibtex-utils/pkg/types"
)

// Load reads the BibTeX file at path into a table.
func Load(path string, log *zap.Logger) (*types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bibliography: %w", err)
	}
	defer f.Close()

	t, err := Parse(f, log)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a BibTeX database from r. Each entry becomes one row with an
// ID column (the cite key), an ENTRYTYPE column (lower-cased entry type) and
// one column per lower-cased field name. Columns appear in order of first
// use. A field an entry does not define is absent in that row.
//
// Text between entries is ignored. Macros are not expanded: a field set to a
// macro keeps the macro name, and a # concatenation that involves a macro is
// kept as written. When an entry repeats a field name, ignoring case, the
// last value wins.
func Parse(r io.Reader, log *zap.Logger) (*types.Table, error) {
	if log == nil {
		log = zap.NewNop()
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	entries, err := scanEntries(string(src))
	if err != nil {
		return nil, err
	}

	t := types.NewTable(types.ColID, types.ColEntryType)
	for _, e := range entries {
		row := types.Row{
			types.ColID:        e.key,
			types.ColEntryType: e.typ,
		}
		names := make([]string, 0, len(e.fields))
		for _, f := range e.fields {
			col := strings.ToLower(f.name)
			if _, dup := row[col]; dup {
				log.Warn("duplicate field, keeping the last value",
					zap.String("id", e.key), zap.String("field", col))
			} else {
				names = append(names, col)
			}
			row[col] = f.value
		}
		t.Append(row, names...)
	}
	log.Debug("parsed bibliography", zap.Int("entries", len(entries)), zap.Int("columns", len(t.Columns)))
	return t, nil
}
