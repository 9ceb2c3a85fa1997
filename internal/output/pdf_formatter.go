package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ventureboard/risklab/internal/domain"
	"github.com/ventureboard/risklab/pkg/dateutil"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 15.0
	pdfPageWidth    = 210.0
	pdfContentWidth = pdfPageWidth - pdfMarginLeft - pdfMarginRight
)

// PDFFormatter renders an A4 investment memo: a profile page followed by one page per scenario.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	pdf.SetCreationDate(report.GeneratedAt)
	pdf.SetTitle(pdfText(report.Startup.Name+" risk analysis"), false)

	writePDFProfile(pdf, report)
	for _, r := range report.Reports {
		writePDFScenario(pdf, report, r)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfText maps characters the core fonts cannot encode.
func pdfText(s string) string {
	return strings.NewReplacer("•", "-", "—", "-", "–", "-").Replace(s)
}

func pdfHeading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 8, pdfText(text), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
}

func pdfRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(55, 6, pdfText(label), "", 0, "L", false, 0, "")
	pdf.CellFormat(pdfContentWidth-55, 6, pdfText(value), "", 1, "L", false, 0, "")
}

func writePDFProfile(pdf *fpdf.Fpdf, report *domain.AnalysisReport) {
	s := report.Startup
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102)
	pdf.Ln(20)
	pdf.CellFormat(pdfContentWidth, 12, "Startup Risk Analysis", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 14)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(pdfContentWidth, 10, pdfText(s.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(pdfContentWidth, 8, "Generated: "+report.GeneratedAt.Format("2 January 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdfHeading(pdf, "Profile")
	pdfRow(pdf, "Sector", s.Sector)
	pdfRow(pdf, "Valuation", FormatCurrency(s.Valuation))
	pdfRow(pdf, "Health score", fmt.Sprintf("%.0f/100", s.HealthScore()))
	pdfRow(pdf, "Market score", fmt.Sprintf("%.0f/100", s.MarketScore()))
	pdfRow(pdf, "Addressable market", FormatCompact(s.MarketSizeUSD))
	pdfRow(pdf, "Competitors", intToString(s.Competitors))
	pdfRow(pdf, "Monthly burn", FormatCurrency(s.MonthlyBurn))
	pdfRow(pdf, "Runway", fmt.Sprintf("%d months", s.RunwayMonths))
	pdf.Ln(5)

	pdfHeading(pdf, "Scenario overview")
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(245, 247, 250)
	widths := []float64{40, 30, 30, 30, 25, 25}
	for i, h := range []string{"Scenario", "Median", "P05", "P95", "Success", "Advice"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, r := range report.Reports {
		cells := []string{
			r.Scenario,
			FormatCompact(r.Metrics.Median),
			FormatCompact(r.Metrics.Percentile05),
			FormatCompact(r.Metrics.Percentile95),
			FormatPercentage(r.Metrics.SuccessRate),
			r.Advice.Recommendation.Label(),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, pdfText(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(5)

	pdfHeading(pdf, "Assumptions")
	for _, a := range GenerateAssumptions(report) {
		pdf.MultiCell(pdfContentWidth, 5, pdfText("- "+a), "", "L", false)
	}
}

func writePDFScenario(pdf *fpdf.Fpdf, report *domain.AnalysisReport, r domain.RiskReport) {
	pdf.AddPage()
	pdfHeading(pdf, "Scenario: "+r.Scenario)
	pdfRow(pdf, "Market growth", fmt.Sprintf("%.1f%% per year", r.Params.MarketGrowthRate))
	pdfRow(pdf, "Competitor impact", fmt.Sprintf("%.1f%%", r.Params.CompetitorImpactRate))
	pdfRow(pdf, "Monthly burn", FormatCurrency(r.Params.MonthlyBurnRate))
	pdfRow(pdf, "Initial investment", FormatCurrency(r.Params.InitialInvestment))
	pdfRow(pdf, "Trials", fmt.Sprintf("%d (seed %d)", r.Iterations, r.Seed))
	pdf.Ln(3)

	pdfHeading(pdf, "Outcome distribution")
	pdfRow(pdf, "Mean", FormatCurrency(r.Metrics.Mean))
	pdfRow(pdf, "Median", FormatCurrency(r.Metrics.Median)+" ("+FormatMultiple(r.Metrics.Median, r.Baseline)+")")
	pdfRow(pdf, "5th / 95th percentile", FormatCurrency(r.Metrics.Percentile05)+" / "+FormatCurrency(r.Metrics.Percentile95))
	pdfRow(pdf, "Min / Max", FormatCurrency(r.Metrics.Min)+" / "+FormatCurrency(r.Metrics.Max))
	pdfRow(pdf, "Success rate (>2x)", FormatPercentage(r.Metrics.SuccessRate))
	pdf.Ln(3)

	if len(r.Band) > 0 {
		pdfHeading(pdf, "Year-end checkpoints")
		for _, b := range r.Band {
			if (b.Month+1)%12 != 0 {
				continue
			}
			pdfRow(pdf, dateutil.MonthLabel(report.GeneratedAt, b.Month),
				FormatCompact(b.P05)+" / "+FormatCompact(b.Median)+" / "+FormatCompact(b.P95))
		}
		pdf.Ln(3)
	}

	a := r.Advice
	pdfHeading(pdf, fmt.Sprintf("Recommendation: %s (%d%% confidence)", a.Recommendation.Label(), a.Confidence))
	for _, section := range []struct {
		title string
		items []string
	}{{"Key points", a.KeyPoints}, {"Opportunities", a.Opportunities}, {"Risks", a.Risks}} {
		if len(section.items) == 0 {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(pdfContentWidth, 6, section.title, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, it := range section.items {
			pdf.MultiCell(pdfContentWidth, 5, pdfText("- "+it), "", "L", false)
		}
	}
	if r.Narrative != "" {
		pdf.Ln(3)
		pdfHeading(pdf, "Narrative")
		pdf.MultiCell(pdfContentWidth, 5, pdfText(r.Narrative), "", "L", false)
	}
}
