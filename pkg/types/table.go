// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the bibtex-utils pipeline.
// Implements: bibliography table (records, columns, absent values),
//
//	column reordering and dropping (table.go);
//	stage configuration (config.go).
package types

import (
	"errors"
	"fmt"
)

// Well-known column names.
const (
	ColID        = "ID"
	ColEntryType = "ENTRYTYPE"
	ColCited     = "cited"
	ColURL       = "url"
)

// FrontColumns is the preferred leading column order. Tables are reordered
// only when every one of these columns is present.
var FrontColumns = []string{ColID, ColEntryType, "title", "author", "booktitle", "journal", "year"}

// ErrColumnNotFound is returned when an operation names a column the table
// does not have.
var ErrColumnNotFound = errors.New("column not found")

// Row is one bibliography record keyed by column name. A column missing from
// the map is absent, which is distinct from a present empty string.
type Row map[string]string

// Get returns the value of col and whether it is present.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Table is an ordered sequence of rows sharing an ordered set of columns.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether col is one of the table's columns.
func (t *Table) HasColumn(col string) bool {
	return t.columnIndex(col) >= 0
}

func (t *Table) columnIndex(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// AddColumn appends col to the column list if it is not already present.
// Existing rows keep col absent.
func (t *Table) AddColumn(col string) {
	if !t.HasColumn(col) {
		t.Columns = append(t.Columns, col)
	}
}

// Append adds a row. Any of cols that the row carries and the table does not
// have yet is added as a new column, in the order given.
func (t *Table) Append(r Row, cols ...string) {
	for _, c := range cols {
		if _, ok := r[c]; ok {
			t.AddColumn(c)
		}
	}
	t.Rows = append(t.Rows, r)
}

// ReorderFront moves front to the beginning of the column list in the given
// order, keeping the relative order of the remaining columns. When any of
// front is missing the table is left untouched and ReorderFront returns false.
func (t *Table) ReorderFront(front []string) bool {
	for _, c := range front {
		if !t.HasColumn(c) {
			return false
		}
	}

	inFront := make(map[string]bool, len(front))
	for _, c := range front {
		inFront[c] = true
	}

	cols := make([]string, 0, len(t.Columns))
	cols = append(cols, front...)
	for _, c := range t.Columns {
		if !inFront[c] {
			cols = append(cols, c)
		}
	}
	t.Columns = cols
	return true
}

// Drop removes the named columns and their values from every row. If any
// name is not a column, Drop returns an error wrapping ErrColumnNotFound and
// leaves the table unchanged.
func (t *Table) Drop(cols []string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return fmt.Errorf("dropping column %q: %w", c, ErrColumnNotFound)
		}
	}
	if len(cols) == 0 {
		return nil
	}

	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}

	kept := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	t.Columns = kept

	for _, r := range t.Rows {
		for c := range drop {
			delete(r, c)
		}
	}
	return nil
}

// Values returns the row's values in column order. Absent values are nil.
func (t *Table) Values(r Row) []*string {
	out := make([]*string, len(t.Columns))
	for i, c := range t.Columns {
		if v, ok := r[c]; ok {
			out[i] = &v
		}
	}
	return out
}
