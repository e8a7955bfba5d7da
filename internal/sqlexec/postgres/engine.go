package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/querysmith/querysmith/internal/sqlexec"
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
	RowLimit        int
}

// Engine runs statements against PostgreSQL through the pgx stdlib driver.
type Engine struct {
	db       *sql.DB
	rowLimit int
}

func Open(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Engine{db: db, rowLimit: cfg.RowLimit}, nil
}

// NewEngineFromDB wraps an existing handle. Tests inject a mock through it.
func NewEngineFromDB(db *sql.DB, rowLimit int) *Engine {
	return &Engine{db: db, rowLimit: rowLimit}
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

func (e *Engine) Schema(ctx context.Context) (string, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT table_name, column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'public'
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
