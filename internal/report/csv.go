package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/querysmith/querysmith/internal/simscore"
)

var csvHeader = []string{
	"model", "test_id", "question", "generated_query", "expected_query",
	"is_valid", "validation_msg", "execution_success", "error",
	"generation_time_sec", "execution_time_sec", "result_rows",
	simscore.MetricExactMatch, simscore.MetricTokenMatch, simscore.MetricBLEU,
	simscore.MetricF1, simscore.MetricSemanticSimilarity, "composite_score",
}

// WriteCSV writes one flat row per (model, test case) pair.
func WriteCSV(report Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv report: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, result := range report.FlatResults() {
		row := []string{
			result.Model,
			strconv.Itoa(result.TestID),
			result.Question,
			result.GeneratedQuery,
			result.ExpectedQuery,
			strconv.FormatBool(result.IsValid),
			result.ValidationMsg,
			strconv.FormatBool(result.ExecutionSuccess),
			result.Error,
			formatFloat(result.GenerationTimeSec),
			formatFloat(result.ExecutionTimeSec),
			strconv.Itoa(result.ResultRows),
			formatFloat(result.SimilarityMetrics[simscore.MetricExactMatch]),
			formatFloat(result.SimilarityMetrics[simscore.MetricTokenMatch]),
			formatFloat(result.SimilarityMetrics[simscore.MetricBLEU]),
			formatFloat(result.SimilarityMetrics[simscore.MetricF1]),
			formatFloat(result.SimilarityMetrics[simscore.MetricSemanticSimilarity]),
			formatFloat(result.CompositeScore),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv report: %w", err)
	}
	return nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', 6, 64)
}
