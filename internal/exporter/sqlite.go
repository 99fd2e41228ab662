package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"hiveingest/pkg/contracts/domain"
)

// SQLiteExporter writes the combined table into a SQLite database.
// The target table is dropped and recreated on every export.
type SQLiteExporter struct {
	path  string
	table string
}

// NewSQLiteExporter creates a SQLite exporter writing table into the database at path
func NewSQLiteExporter(path, table string) *SQLiteExporter {
	return &SQLiteExporter{path: path, table: table}
}

// Format implements TableExporter
func (e *SQLiteExporter) Format() string { return "sqlite" }

// Path implements TableExporter
func (e *SQLiteExporter) Path() string { return e.path }

// Export implements TableExporter
func (e *SQLiteExporter) Export(ctx context.Context, t *domain.Table) error {
	if e.table == "" {
		return fmt.Errorf("sqlite table name is empty")
	}
	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", e.path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	columns := t.Columns()
	kinds := columnKinds(t)
	name := quoteIdent(e.table)

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(name, columns, kinds)); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.Row(i) {
			args[j] = sqlValue(c, kinds[j])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func createTableSQL(name string, columns []string, kinds []columnKind) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		typ := "TEXT"
		if kinds[i] == kindDouble {
			typ = "REAL"
		}
		defs[i] = quoteIdent(c) + " " + typ
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))
}

func sqlValue(c domain.Cell, kind columnKind) any {
	if c.IsMissing() {
		return nil
	}
	if kind == kindDouble {
		return c.Num
	}
	return formatCell(c)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
