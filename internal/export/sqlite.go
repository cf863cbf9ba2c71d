// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bibtex-utils/pkg/types"
)

// DefaultSQLiteTable is the table WriteSQLite replaces.
const DefaultSQLiteTable = "bibliography"

// WriteSQLite stores t in the SQLite database at path, replacing any existing
// table of the same name. Every column is TEXT; absent values are NULL.
// The write is a single transaction, so a failure leaves the database as it
// was.
func WriteSQLite(ctx context.Context, path, table string, t *types.Table) error {
	if table == "" {
		table = DefaultSQLiteTable
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	name := quoteIdent(table)
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+name); err != nil {
		return fmt.Errorf("dropping table %s: %w", table, err)
	}

	defs := make([]string, len(t.Columns))
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c)
		defs[i] = cols[i] + " TEXT"
		marks[i] = "?"
	}
	create := fmt.Sprintf(`CREATE TABLE %s (%s)`, name, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("creating table %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		name, strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for _, r := range t.Rows {
		for i, c := range t.Columns {
			if v, ok := r[c]; ok {
				args[i] = v
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting row %q: %w", r[types.ColID], err)
		}
	}

	return tx.Commit()
}

// quoteIdent quotes a SQLite identifier, doubling embedded quotes.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
