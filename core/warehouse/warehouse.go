// Package warehouse loads processed tables into a SQL warehouse. The sink is
// a SQLite file; a table is declared from a column-type map and reloaded in
// full on every run.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

// Column is a warehouse column declaration.
type Column struct {
	Name string
	Type string
}

// columnTypes overrides the default VARCHAR(255) for known columns.
var columnTypes = map[string]string{
	core.ColIssuedDate: "DATE",
	core.ColIssuedTime: "TIME",
	"speed_category":   "VARCHAR(25)",
	"speed":            "VARCHAR(100)",
	core.ColSynopsis:   "TEXT",
	"current_update":   "TEXT",
	"summary":          "TEXT",
	"description":      "TEXT",
	"content":          "TEXT",
}

const defaultColumnType = "VARCHAR(255)"

// ColumnTypes derives the column-type map of a processed table.
func ColumnTypes(t core.Table) []Column {
	cols := make([]Column, 0, len(t.Columns))
	for _, name := range t.Columns {
		typ, ok := columnTypes[name]
		if !ok {
			typ = defaultColumnType
		}
		cols = append(cols, Column{Name: name, Type: typ})
	}
	return cols
}

// Warehouse is an open warehouse database.
type Warehouse struct {
	db       *sql.DB
	database string
}

// Open opens (creating if needed) the SQLite file at path as the named database.
func Open(path, database string) (*Warehouse, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	params := []string{
		"_foreign_keys=on",
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")))
	if err != nil {
		return nil, fmt.Errorf("warehouse open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("warehouse ping: %w", err)
	}
	return &Warehouse{db: db, database: database}, nil
}

// Close closes the database.
func (w *Warehouse) Close() error {
	if w == nil || w.db == nil {
		return nil
	}
	return w.db.Close()
}

// TableName maps a schema-qualified table onto a single SQLite table name.
func TableName(schema, table string) string {
	return strings.ToLower(schema + "_" + table)
}

// DeclareTable creates database.schema.table with the given columns. An
// existing table whose columns differ is dropped and recreated, since every
// load replaces the whole table anyway.
func (w *Warehouse) DeclareTable(ctx context.Context, database, schema, table string, cols []Column) error {
	if database != w.database {
		return fmt.Errorf("declaring %s.%s.%s: connected to database %q", database, schema, table, w.database)
	}
	if len(cols) == 0 {
		return fmt.Errorf("declaring %s.%s: no columns", schema, table)
	}
	name := TableName(schema, table)

	existing, err := w.columns(ctx, name)
	if err != nil {
		return fmt.Errorf("declaring %s.%s: %w", schema, table, err)
	}
	want := make([]string, len(cols))
	defs := make([]string, len(cols))
	for i, c := range cols {
		want[i] = c.Name
		defs[i] = quote(c.Name) + " " + c.Type
	}
	if len(existing) > 0 && slices.Equal(existing, want) {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("declaring %s.%s: begin: %w", schema, table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if len(existing) > 0 {
		if _, err := tx.ExecContext(ctx, "DROP TABLE "+quote(name)); err != nil {
			return fmt.Errorf("declaring %s.%s: dropping old layout: %w", schema, table, err)
		}
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", quote(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("declaring %s.%s: %w", schema, table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("declaring %s.%s: commit: %w", schema, table, err)
	}
	return nil
}

// columns lists the column names of a table in order; none when it does not exist.
func (w *Warehouse) columns(ctx context.Context, name string) ([]string, error) {
	rows, err := w.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?) ORDER BY cid", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, err
		}
		out = append(out, col)
	}
	return out, rows.Err()
}

// Load replaces the contents of schema.table with t in one transaction and
// returns the number of rows inserted.
func (w *Warehouse) Load(ctx context.Context, schema, table string, t core.Table) (int, error) {
	name := quote(TableName(schema, table))

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("loading %s.%s: begin: %w", schema, table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+name); err != nil {
		return 0, fmt.Errorf("loading %s.%s: clearing: %w", schema, table, err)
	}

	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quote(c)
		marks[i] = "?"
	}
	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return 0, fmt.Errorf("loading %s.%s: prepare: %w", schema, table, err)
	}
	defer insert.Close()

	for i, row := range t.Rows {
		args := make([]any, len(row))
		for c, v := range row {
			args[c] = v
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("loading %s.%s: row %d: %w", schema, table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("loading %s.%s: commit: %w", schema, table, err)
	}
	return len(t.Rows), nil
}

// LoadTable declares and loads t in one call.
func (w *Warehouse) LoadTable(ctx context.Context, schema, table string, t core.Table) (int, error) {
	if err := w.DeclareTable(ctx, w.database, schema, table, ColumnTypes(t)); err != nil {
		return 0, err
	}
	return w.Load(ctx, schema, table, t)
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
