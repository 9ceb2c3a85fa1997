package narrative

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/ventureboard/risklab/internal/domain"
	"github.com/ventureboard/risklab/pkg/decimal"
)

// Narrator turns a finished scenario report into a short prose summary.
type Narrator interface {
	Narrate(ctx context.Context, startup domain.StartupProfile, report *domain.RiskReport) (string, error)
}

// summaryData is the view both narrators render from.
type summaryData struct {
	Name           string
	Sector         string
	Scenario       string
	Valuation      string
	Median         string
	P05            string
	P95            string
	SuccessPct     string
	Recommendation string
	Confidence     int
	Months         int
	Risks          []string
	Opportunities  []string
}

func newSummaryData(startup domain.StartupProfile, report *domain.RiskReport) summaryData {
	compact := func(v float64) string { return decimal.NewMoney(v).FormatCompact() }
	return summaryData{
		Name:           startup.Name,
		Sector:         startup.Sector,
		Scenario:       report.Scenario,
		Valuation:      compact(report.Baseline),
		Median:         compact(report.Metrics.Median),
		P05:            compact(report.Metrics.Percentile05),
		P95:            compact(report.Metrics.Percentile95),
		SuccessPct:     fmt.Sprintf("%.0f%%", report.Metrics.SuccessRate*100),
		Recommendation: report.Advice.Recommendation.Label(),
		Confidence:     report.Advice.Confidence,
		Months:         report.Horizon,
		Risks:          report.Advice.Risks,
		Opportunities:  report.Advice.Opportunities,
	}
}

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"join":  strings.Join,
	"lower": strings.ToLower,
}).Parse(
	`Under the {{lower .Scenario}} scenario, {{.Name}}{{if .Sector}} ({{.Sector}}){{end}} moves from {{.Valuation}} to a median of {{.Median}} over {{.Months}} months, ` +
		`with a 90% range of {{.P05}} to {{.P95}}. ` +
		`{{.SuccessPct}} of simulated paths more than double the current valuation. ` +
		`Recommendation: {{.Recommendation}} at {{.Confidence}}% confidence.` +
		`{{if .Opportunities}} Upside: {{join .Opportunities "; "}}.{{end}}` +
		`{{if .Risks}} Watch: {{join .Risks "; "}}.{{end}}`))

// TemplateNarrator renders a deterministic summary offline.
type TemplateNarrator struct{}

// Narrate implements Narrator.
func (TemplateNarrator) Narrate(ctx context.Context, startup domain.StartupProfile, report *domain.RiskReport) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if report == nil {
		return "", fmt.Errorf("%w: report is required", domain.ErrInvalidArgument)
	}
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, newSummaryData(startup, report)); err != nil {
		return "", fmt.Errorf("failed to render narrative: %w", err)
	}
	return buf.String(), nil
}
