package report

import (
	"fmt"
	"sort"
	"strings"
)

// RenderMarkdown produces a human-readable comparison of every evaluated
// model, suitable for checking into a repo or pasting into a review.
func RenderMarkdown(report Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Model Evaluation Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Dataset: %s (%d test cases)\n\n", report.Dataset, report.TestCases)

	b.WriteString("## Best Models\n\n")
	if len(report.Comparison.BestModels) == 0 {
		b.WriteString("No model completed the evaluation.\n\n")
	} else {
		criteria := make([]string, 0, len(report.Comparison.BestModels))
		for criterion := range report.Comparison.BestModels {
			criteria = append(criteria, criterion)
		}
		sort.Strings(criteria)
		for _, criterion := range criteria {
			best := report.Comparison.BestModels[criterion]
			fmt.Fprintf(&b, "- **%s**: %s (%.3f)\n", criterion, best.Model, best.Score)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Model Summaries\n\n")
	b.WriteString("| Model | Tests | Valid % | Executed % | Errors | Avg Composite | Avg Gen (s) |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, run := range report.Runs {
		s := run.Summary
		if s.Error != "" {
			fmt.Fprintf(&b, "| %s | - | - | - | - | - | - |\n", s.Model)
			continue
		}
		fmt.Fprintf(&b, "| %s | %d | %.1f | %.1f | %d | %.3f | %.2f |\n",
			s.Model, s.TotalTests, s.ValidityPct, s.ExecutionPct, s.Errors, s.AvgComposite, s.AvgGenerationSec)
	}
	b.WriteString("\n")

	for _, run := range report.Runs {
		if run.Summary.Error != "" {
			fmt.Fprintf(&b, "## %s\n\nEvaluation failed: %s\n\n", run.Model, run.Summary.Error)
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", run.Model)
		metricNames := make([]string, 0, len(run.Summary.AvgMetrics))
		for name := range run.Summary.AvgMetrics {
			metricNames = append(metricNames, name)
		}
		sort.Strings(metricNames)
		for _, name := range metricNames {
			fmt.Fprintf(&b, "- %s: %.3f\n", name, run.Summary.AvgMetrics[name])
		}
		b.WriteString("\n")
		for _, result := range run.Results {
			status := "ok"
			switch {
			case result.Error != "":
				status = "error"
			case !result.IsValid:
				status = "rejected"
			case !result.ExecutionSuccess:
				status = "failed"
			}
			fmt.Fprintf(&b, "### Test %d (%s)\n\n", result.TestID, status)
			fmt.Fprintf(&b, "Question: %s\n\n", result.Question)
			if result.GeneratedQuery != "" {
				fmt.Fprintf(&b, "```sql\n%s\n```\n\n", result.GeneratedQuery)
			}
			if result.Error != "" {
				fmt.Fprintf(&b, "Error: %s\n\n", result.Error)
			} else if !result.IsValid {
				fmt.Fprintf(&b, "Rejected: %s\n\n", result.ValidationMsg)
			}
		}
	}
	return b.String()
}
