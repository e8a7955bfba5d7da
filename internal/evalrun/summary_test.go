package evalrun

import (
	"math"
	"testing"
)

func TestSummarizeCountsAndPercentages(t *testing.T) {
	results := []Result{
		{
			ExpectedQuery: "SELECT 1", IsValid: true, ExecutionSuccess: true,
			SimilarityMetrics: map[string]float64{"exact_match": 1.0, "f1_score": 1.0},
			CompositeScore:    1.0, GenerationTimeSec: 2.0,
		},
		{
			ExpectedQuery: "SELECT 2", IsValid: true,
			Error:             "table missing",
			SimilarityMetrics: map[string]float64{"exact_match": 0.0, "f1_score": 0.5},
			CompositeScore:    0.4, GenerationTimeSec: 4.0,
		},
		{
			ExpectedQuery: "", IsValid: false,
			SimilarityMetrics: map[string]float64{"exact_match": 0.0, "f1_score": 0.0},
			GenerationTimeSec: 3.0,
		},
	}

	summary := Summarize("phi", results)
	if summary.TotalTests != 3 || summary.ValidQueries != 2 || summary.Executed != 1 || summary.Errors != 1 {
		t.Fatalf("counters = %+v", summary)
	}
	if !closeTo(summary.ValidityPct, 100*2.0/3.0) {
		t.Fatalf("ValidityPct = %v", summary.ValidityPct)
	}
	if !closeTo(summary.ExecutionPct, 100*1.0/3.0) {
		t.Fatalf("ExecutionPct = %v", summary.ExecutionPct)
	}
	if !closeTo(summary.AvgGenerationSec, 3.0) {
		t.Fatalf("AvgGenerationSec = %v", summary.AvgGenerationSec)
	}
	// only the two results with a reference query contribute to averages
	if !closeTo(summary.AvgComposite, 0.7) {
		t.Fatalf("AvgComposite = %v", summary.AvgComposite)
	}
	if !closeTo(summary.AvgMetrics["f1_score"], 0.75) {
		t.Fatalf("AvgMetrics[f1_score] = %v", summary.AvgMetrics["f1_score"])
	}
	if !closeTo(summary.AvgMetrics["exact_match"], 0.5) {
		t.Fatalf("AvgMetrics[exact_match] = %v", summary.AvgMetrics["exact_match"])
	}
}

func TestSummarizeEmptyResultsDegradesToZeros(t *testing.T) {
	summary := Summarize("phi", nil)
	if summary.TotalTests != 0 || summary.ValidityPct != 0 || summary.AvgComposite != 0 {
		t.Fatalf("summary = %+v, want zeroed", summary)
	}
	if summary.AvgMetrics == nil {
		t.Fatal("AvgMetrics is nil, want empty map")
	}
}

func TestCompareSelectsStrictlyBestPerCriterion(t *testing.T) {
	summaries := []ModelSummary{
		{Model: "phi", AvgComposite: 0.8, ExecutionPct: 60, ValidityPct: 90},
		{Model: "llama3", AvgComposite: 0.8, ExecutionPct: 75, ValidityPct: 90},
		{Model: "mistral", AvgComposite: 0.6, ExecutionPct: 50, ValidityPct: 95},
	}

	comparison := Compare(summaries)
	if got := comparison.BestModels[CriterionComposite].Model; got != "phi" {
		t.Fatalf("composite winner = %q, tie must keep first-seen model", got)
	}
	if got := comparison.BestModels[CriterionExecution].Model; got != "llama3" {
		t.Fatalf("execution winner = %q", got)
	}
	if got := comparison.BestModels[CriterionValidity].Model; got != "mistral" {
		t.Fatalf("validity winner = %q", got)
	}
	if len(comparison.MetricsByModel) != 3 {
		t.Fatalf("MetricsByModel has %d entries", len(comparison.MetricsByModel))
	}
}

func TestCompareExcludesErroredModelsFromBest(t *testing.T) {
	summaries := []ModelSummary{
		{Model: "broken", AvgComposite: 1.0, ExecutionPct: 100, ValidityPct: 100, Error: "not installed"},
		{Model: "phi", AvgComposite: 0.5, ExecutionPct: 40, ValidityPct: 70},
	}

	comparison := Compare(summaries)
	for criterion, best := range comparison.BestModels {
		if best.Model != "phi" {
			t.Fatalf("criterion %q won by errored model %q", criterion, best.Model)
		}
	}
	if _, present := comparison.MetricsByModel["broken"]; !present {
		t.Fatal("errored model missing from MetricsByModel")
	}
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}
