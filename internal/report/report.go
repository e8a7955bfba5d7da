// Package report renders evaluation runs into files consumed by people and
// downstream tooling: JSON for machines, Markdown for review, CSV and parquet
// for analysis.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/querysmith/querysmith/internal/evalrun"
)

// Report bundles everything a single evaluation session produced.
type Report struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Dataset     string             `json:"dataset"`
	TestCases   int                `json:"test_cases"`
	Runs        []evalrun.ModelRun `json:"runs"`
	Comparison  evalrun.Comparison `json:"comparison"`
}

// FlatResults returns every per-test record across all models, grouped by
// model in run order.
func (r Report) FlatResults() []evalrun.Result {
	var flat []evalrun.Result
	for _, run := range r.Runs {
		flat = append(flat, run.Results...)
	}
	return flat
}

// WriteFiles renders the report in every supported format under dir, using a
// shared timestamped basename. It returns the paths written.
func WriteFiles(report Report, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	base := filepath.Join(dir, fmt.Sprintf("evaluation_report_%s", report.GeneratedAt.UTC().Format("20060102_150405")))

	paths := []string{base + ".json", base + ".md", base + ".csv"}
	if err := WriteJSON(report, paths[0]); err != nil {
		return nil, err
	}
	if err := os.WriteFile(paths[1], []byte(RenderMarkdown(report)), 0o644); err != nil {
		return nil, fmt.Errorf("write markdown report: %w", err)
	}
	if err := WriteCSV(report, paths[2]); err != nil {
		return nil, err
	}

	// parquet carries only per-test records, so skip it for empty runs
	if flat := report.FlatResults(); len(flat) > 0 {
		parquetData, err := EncodeResultsToParquet(flat)
		if err != nil {
			return nil, err
		}
		parquetPath := base + ".parquet"
		if err := os.WriteFile(parquetPath, parquetData, 0o644); err != nil {
			return nil, fmt.Errorf("write parquet report: %w", err)
		}
		paths = append(paths, parquetPath)
	}
	return paths, nil
}
