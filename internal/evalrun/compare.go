package evalrun

// Comparison criteria names as they appear in reports.
const (
	CriterionComposite = "composite_score"
	CriterionExecution = "execution_pct"
	CriterionValidity  = "validity_pct"
)

// BestModel names the winner of one comparison criterion.
type BestModel struct {
	Model string  `json:"model"`
	Score float64 `json:"score"`
}

// ModelMetrics republishes a model's headline numbers for reporting.
type ModelMetrics struct {
	CompositeScore    float64            `json:"composite_score"`
	ExecutionPct      float64            `json:"execution_pct"`
	ValidityPct       float64            `json:"validity_pct"`
	SimilarityMetrics map[string]float64 `json:"similarity_metrics"`
}

// Comparison ranks models across criteria. Models whose summary carries an
// error marker never win a criterion but still appear in MetricsByModel.
type Comparison struct {
	BestModels     map[string]BestModel    `json:"best_models"`
	MetricsByModel map[string]ModelMetrics `json:"metrics_by_model"`
}

// Compare reduces ordered per-model summaries to a Comparison. Winners are
// chosen by strictly greater score; ties keep the earlier model in the slice.
func Compare(summaries []ModelSummary) Comparison {
	comparison := Comparison{
		BestModels:     map[string]BestModel{},
		MetricsByModel: map[string]ModelMetrics{},
	}
	for _, summary := range summaries {
		comparison.MetricsByModel[summary.Model] = ModelMetrics{
			CompositeScore:    summary.AvgComposite,
			ExecutionPct:      summary.ExecutionPct,
			ValidityPct:       summary.ValidityPct,
			SimilarityMetrics: summary.AvgMetrics,
		}
		if summary.Error != "" {
			continue
		}
		updateBest(comparison.BestModels, CriterionComposite, summary.Model, summary.AvgComposite)
		updateBest(comparison.BestModels, CriterionExecution, summary.Model, summary.ExecutionPct)
		updateBest(comparison.BestModels, CriterionValidity, summary.Model, summary.ValidityPct)
	}
	return comparison
}

func updateBest(best map[string]BestModel, criterion, model string, score float64) {
	current, seen := best[criterion]
	if !seen || score > current.Score {
		best[criterion] = BestModel{Model: model, Score: score}
	}
}
