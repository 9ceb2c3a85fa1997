package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/ventureboard/risklab/internal/domain"
)

// HTMLFormatter produces a standalone HTML report with chart-ready band data.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":     FormatCurrency,
	"compact":  FormatCompact,
	"pct":      FormatPercentage,
	"multiple": FormatMultiple,
	"label":    func(r domain.Recommendation) string { return r.Label() },
	"add":      func(i, j int) int { return i + j },
	"json": func(v interface{}) (template.JS, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(b), nil
	},
}).Parse(htmlTemplateSource))

// chartSeries is the per-scenario payload the embedded chart script reads.
type chartSeries struct {
	Scenario string                `json:"scenario"`
	Band     []domain.TimelineBand `json:"band"`
}

func (h HTMLFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	var buf bytes.Buffer

	series := make([]chartSeries, 0, len(report.Reports))
	for _, r := range report.Reports {
		series = append(series, chartSeries{Scenario: r.Scenario, Band: r.Band})
	}

	data := struct {
		*domain.AnalysisReport
		Ranking     ScenarioRanking
		Assumptions []string
		Chart       []chartSeries
	}{report, RankScenarios(report), GenerateAssumptions(report), series}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
