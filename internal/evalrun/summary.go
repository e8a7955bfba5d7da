package evalrun

// ModelSummary aggregates every Result produced for one model. The Error
// field is set only when the model could not be evaluated at all, for example
// when its translator could not be constructed.
type ModelSummary struct {
	Model             string             `json:"model"`
	TotalTests        int                `json:"total_tests"`
	ValidQueries      int                `json:"valid_queries"`
	Executed          int                `json:"executed"`
	Errors            int                `json:"errors"`
	ValidityPct       float64            `json:"validity_pct"`
	ExecutionPct      float64            `json:"execution_pct"`
	ErrorPct          float64            `json:"error_pct"`
	AvgMetrics        map[string]float64 `json:"avg_similarity_metrics"`
	AvgComposite      float64            `json:"avg_composite_score"`
	AvgGenerationSec  float64            `json:"avg_generation_time_sec"`
	AvgExecutionSec   float64            `json:"avg_execution_time_sec"`
	Error             string             `json:"error,omitempty"`
}

// Summarize reduces a model's results to counters, percentages and averaged
// metrics. An empty result set yields a zeroed summary rather than an error.
func Summarize(modelName string, results []Result) ModelSummary {
	summary := ModelSummary{
		Model:      modelName,
		TotalTests: len(results),
		AvgMetrics: map[string]float64{},
	}
	if len(results) == 0 {
		return summary
	}

	var genSeconds, execSeconds, compositeTotal float64
	metricTotals := map[string]float64{}
	scored := 0
	for _, result := range results {
		if result.IsValid {
			summary.ValidQueries++
		}
		if result.ExecutionSuccess {
			summary.Executed++
		}
		if result.Error != "" {
			summary.Errors++
		}
		genSeconds += result.GenerationTimeSec
		execSeconds += result.ExecutionTimeSec
		if result.ExpectedQuery == "" {
			continue
		}
		scored++
		compositeTotal += result.CompositeScore
		for name, value := range result.SimilarityMetrics {
			metricTotals[name] += value
		}
	}

	total := float64(len(results))
	summary.ValidityPct = 100 * float64(summary.ValidQueries) / total
	summary.ExecutionPct = 100 * float64(summary.Executed) / total
	summary.ErrorPct = 100 * float64(summary.Errors) / total
	summary.AvgGenerationSec = genSeconds / total
	summary.AvgExecutionSec = execSeconds / total
	if scored > 0 {
		summary.AvgComposite = compositeTotal / float64(scored)
		for name, totalValue := range metricTotals {
			summary.AvgMetrics[name] = totalValue / float64(scored)
		}
	}
	return summary
}
