package output

import (
	"encoding/json"

	"github.com/ventureboard/risklab/internal/domain"
)

// JSONFormatter serializes the analysis report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
