package report

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/querysmith/querysmith/internal/evalrun"
	"github.com/querysmith/querysmith/internal/simscore"
)

type parquetResult struct {
	Model             string  `parquet:"model"`
	TestID            int64   `parquet:"test_id"`
	Question          string  `parquet:"question"`
	GeneratedQuery    string  `parquet:"generated_query"`
	ExpectedQuery     string  `parquet:"expected_query"`
	IsValid           bool    `parquet:"is_valid"`
	ValidationMsg     string  `parquet:"validation_msg"`
	ExecutionSuccess  bool    `parquet:"execution_success"`
	Error             string  `parquet:"error"`
	GenerationTimeSec float64 `parquet:"generation_time_sec"`
	ExecutionTimeSec  float64 `parquet:"execution_time_sec"`
	ResultRows        int64   `parquet:"result_rows"`
	ExactMatch        float64 `parquet:"exact_match"`
	TokenMatch        float64 `parquet:"token_match"`
	BLEUScore         float64 `parquet:"bleu_score"`
	F1Score           float64 `parquet:"f1_score"`
	SemanticSim       float64 `parquet:"semantic_similarity"`
	CompositeScore    float64 `parquet:"composite_score"`
}

// EncodeResultsToParquet encodes flat per-test records for columnar analysis.
func EncodeResultsToParquet(results []evalrun.Result) ([]byte, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("results are required")
	}

	rows := make([]parquetResult, 0, len(results))
	for _, result := range results {
		rows = append(rows, parquetResult{
			Model:             result.Model,
			TestID:            int64(result.TestID),
			Question:          result.Question,
			GeneratedQuery:    result.GeneratedQuery,
			ExpectedQuery:     result.ExpectedQuery,
			IsValid:           result.IsValid,
			ValidationMsg:     result.ValidationMsg,
			ExecutionSuccess:  result.ExecutionSuccess,
			Error:             result.Error,
			GenerationTimeSec: result.GenerationTimeSec,
			ExecutionTimeSec:  result.ExecutionTimeSec,
			ResultRows:        int64(result.ResultRows),
			ExactMatch:        result.SimilarityMetrics[simscore.MetricExactMatch],
			TokenMatch:        result.SimilarityMetrics[simscore.MetricTokenMatch],
			BLEUScore:         result.SimilarityMetrics[simscore.MetricBLEU],
			F1Score:           result.SimilarityMetrics[simscore.MetricF1],
			SemanticSim:       result.SimilarityMetrics[simscore.MetricSemanticSimilarity],
			CompositeScore:    result.CompositeScore,
		})
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[parquetResult](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
