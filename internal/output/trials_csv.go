package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ventureboard/risklab/internal/calculation"
	"github.com/ventureboard/risklab/internal/domain"
)

// TrialsCSVExporter writes one row per trial with its final value, for offline analysis.
// It needs reports produced with trials kept.
type TrialsCSVExporter struct{}

func (c TrialsCSVExporter) Name() string { return "trials-csv" }

func (c TrialsCSVExporter) Format(report *domain.AnalysisReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Scenario", "Trial", "FinalValue", "Multiple", "Success"}); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range report.Reports {
		if len(r.Trials) == 0 {
			return nil, fmt.Errorf("scenario %s: %w", r.Scenario, ErrNoTrials)
		}
		threshold := calculation.SuccessMultiple * r.Baseline
		for i, t := range r.Trials {
			row := []string{
				r.Scenario,
				intToString(i),
				floatToString(t.FinalValue),
				strconv.FormatFloat(t.FinalValue/r.Baseline, 'f', 4, 64),
				strconv.FormatBool(t.FinalValue > threshold),
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write data row: %w", err)
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
