package output

import (
	"bytes"
	"encoding/csv"

	"github.com/ventureboard/risklab/internal/domain"
	"github.com/ventureboard/risklab/pkg/dateutil"
)

// TimelineCSVExporter writes the per-month percentile band of every scenario.
type TimelineCSVExporter struct{}

func (c TimelineCSVExporter) Name() string { return "timeline-csv" }

func (c TimelineCSVExporter) Format(report *domain.AnalysisReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Month", "Period", "P05", "Median", "P95"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range report.Reports {
		for _, b := range r.Band {
			row := []string{
				r.Scenario,
				intToString(b.Month),
				dateutil.MonthLabel(report.GeneratedAt, b.Month),
				floatToString(b.P05),
				floatToString(b.Median),
				floatToString(b.P95),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
