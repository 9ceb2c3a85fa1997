package output

import (
	"bytes"
	"fmt"

	"github.com/ventureboard/risklab/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "STARTUP RISK SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "%s (%s) valued at %s\n", report.Startup.Name, report.Startup.ID, FormatCompact(report.Startup.Valuation))
	fmt.Fprintln(&buf)
	for _, r := range report.Reports {
		fmt.Fprintf(&buf, "%s: Median=%s P05=%s P95=%s Success=%s\n",
			r.Scenario,
			FormatCompact(r.Metrics.Median),
			FormatCompact(r.Metrics.Percentile05),
			FormatCompact(r.Metrics.Percentile95),
			FormatPercentage(r.Metrics.SuccessRate),
		)
		fmt.Fprintf(&buf, "  Advice=%s (%d%% confidence)\n", r.Advice.Recommendation.Label(), r.Advice.Confidence)
	}
	rank := RankScenarios(report)
	if rank.BestScenario != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Best median: %s (%s, %.2fx)\n", rank.BestScenario, FormatCompact(rank.BestMedian), rank.MedianMultiple)
		fmt.Fprintf(&buf, "Worst downside: %s (P05 %s)\n", rank.WorstDownside, FormatCompact(rank.WorstP05))
	}
	return buf.Bytes(), nil
}
