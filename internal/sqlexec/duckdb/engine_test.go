package duckdb

import (
	"context"
	"strings"
	"testing"
)

func newTestEngine(t *testing.T, rowLimit int) *Engine {
	t.Helper()
	engine, err := Open(Config{RowLimit: rowLimit})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })
	if err := engine.Bootstrap(context.Background(), SampleSchema()); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	return engine
}

func TestExecuteReturnsColumnsAndRows(t *testing.T) {
	engine := newTestEngine(t, 0)

	result, err := engine.Execute(context.Background(), "SELECT Name, Age FROM Students ORDER BY StudentID")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Columns) != 2 || result.Columns[0] != "Name" {
		t.Fatalf("Columns = %v", result.Columns)
	}
	if len(result.Rows) != 5 {
		t.Fatalf("Rows = %d, want 5", len(result.Rows))
	}
}

func TestExecuteAppliesRowLimit(t *testing.T) {
	engine := newTestEngine(t, 2)

	result, err := engine.Execute(context.Background(), "SELECT * FROM Students;")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("Rows = %d, want row limit 2", len(result.Rows))
	}
}

func TestExecuteRejectsEmptySQL(t *testing.T) {
	engine := newTestEngine(t, 0)
	if _, err := engine.Execute(context.Background(), "   "); err == nil {
		t.Fatal("Execute() accepted empty sql")
	}
}

func TestExecuteSurfacesDatabaseErrors(t *testing.T) {
	engine := newTestEngine(t, 0)
	if _, err := engine.Execute(context.Background(), "SELECT * FROM NoSuchTable"); err == nil {
		t.Fatal("Execute() succeeded against missing table")
	}
}

func TestSchemaListsAllTables(t *testing.T) {
	engine := newTestEngine(t, 0)

	schema, err := engine.Schema(context.Background())
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	for _, table := range []string{"Students", "Marks", "Attendance"} {
		if !strings.Contains(schema, "Table "+table) {
			t.Fatalf("Schema() missing table %s:\n%s", table, schema)
		}
	}
	if !strings.Contains(schema, "AttendancePercentage") {
		t.Fatalf("Schema() missing column detail:\n%s", schema)
	}
}
