package output

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/ventureboard/risklab/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.AnalysisReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Startup", "Scenario", "Iterations", "Seed", "Baseline", "Mean", "Median", "Min", "Max", "P05", "P95", "SuccessRate", "Recommendation", "Confidence"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	reports := append([]domain.RiskReport(nil), report.Reports...)
	sort.Slice(reports, func(i, j int) bool { return reports[i].Scenario < reports[j].Scenario })
	for _, r := range reports {
		row := []string{
			report.Startup.ID,
			r.Scenario,
			intToString(r.Iterations),
			strconv.FormatInt(r.Seed, 10),
			floatToString(r.Baseline),
			floatToString(r.Metrics.Mean),
			floatToString(r.Metrics.Median),
			floatToString(r.Metrics.Min),
			floatToString(r.Metrics.Max),
			floatToString(r.Metrics.Percentile05),
			floatToString(r.Metrics.Percentile95),
			floatToString(r.Metrics.SuccessRate),
			string(r.Advice.Recommendation),
			intToString(r.Advice.Confidence),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
