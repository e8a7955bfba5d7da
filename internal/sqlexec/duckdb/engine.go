package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/querysmith/querysmith/internal/sqlexec"
)

type Config struct {
	// Path to a DuckDB database file. Empty opens an in-memory database.
	Path     string
	RowLimit int
}

// Engine runs statements against a local DuckDB database. One statement is
// in flight at a time; database/sql serializes access to the single file.
type Engine struct {
	db       *sql.DB
	rowLimit int
}

func Open(cfg Config) (*Engine, error) {
	db, err := sql.Open("duckdb", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Engine{db: db, rowLimit: cfg.RowLimit}, nil
}

func (e *Engine) Close() error {
	return e.db.Close()
}

func (e *Engine) Execute(ctx context.Context, sqlText string) (sqlexec.Result, error) {
	sqlText = strings.TrimSpace(sqlText)
	if sqlText == "" {
		return sqlexec.Result{}, fmt.Errorf("sql is required")
	}
	if e.rowLimit > 0 {
		sqlText = fmt.Sprintf("SELECT * FROM (%s) AS q LIMIT %d", strings.TrimRight(sqlText, ";"), e.rowLimit)
	}

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return sqlexec.Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return sqlexec.Result{}, fmt.Errorf("query columns: %w", err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return sqlexec.Result{}, fmt.Errorf("scan row: %w", err)
		}
		resultRows = append(resultRows, sqlexec.NormalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return sqlexec.Result{}, fmt.Errorf("iterate rows: %w", err)
	}

	return sqlexec.Result{
		Columns:  columns,
		Rows:     resultRows,
		Duration: time.Since(start),
	}, nil
}

// Schema introspects information_schema and renders one line per table:
//
//	Table Students (StudentID BIGINT, Name VARCHAR, Age BIGINT)
func (e *Engine) Schema(ctx context.Context) (string, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT table_name, column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'main'
		ORDER BY table_name, ordinal_position`)
	if err != nil {
		return "", fmt.Errorf("introspect schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columnsByTable := map[string][]string{}
	for rows.Next() {
		var tableName, columnName, dataType string
		if err := rows.Scan(&tableName, &columnName, &dataType); err != nil {
			return "", fmt.Errorf("scan schema row: %w", err)
		}
		columnsByTable[tableName] = append(columnsByTable[tableName], columnName+" "+dataType)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate schema rows: %w", err)
	}

	tables := make([]string, 0, len(columnsByTable))
	for tableName := range columnsByTable {
		tables = append(tables, tableName)
	}
	sort.Strings(tables)

	lines := make([]string, 0, len(tables))
	for _, tableName := range tables {
		lines = append(lines, fmt.Sprintf("Table %s (%s)", tableName, strings.Join(columnsByTable[tableName], ", ")))
	}
	return strings.Join(lines, "\n"), nil
}

// Bootstrap runs setup statements, bypassing the read-only gate. It exists
// for fixtures and demos, never for untrusted input.
func (e *Engine) Bootstrap(ctx context.Context, statements []string) error {
	for _, statement := range statements {
		if _, err := e.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("bootstrap statement: %w", err)
		}
	}
	return nil
}
