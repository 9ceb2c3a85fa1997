package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ventureboard/risklab/internal/domain"
	"github.com/ventureboard/risklab/pkg/dateutil"
	"github.com/ventureboard/risklab/pkg/decimal"
)

// ConsoleVerboseFormatter renders the full scenario cards via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	var buf bytes.Buffer
	s := report.Startup

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "DETAILED STARTUP RISK ANALYSIS")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(report) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "STARTUP PROFILE")
	fmt.Fprintln(&buf, "=============================================")
	fmt.Fprintf(&buf, "Name:              %s (%s)\n", s.Name, s.ID)
	if s.Sector != "" {
		fmt.Fprintf(&buf, "Sector:            %s\n", s.Sector)
	}
	fmt.Fprintf(&buf, "Valuation:         %s\n", FormatCurrency(s.Valuation))
	fmt.Fprintf(&buf, "Health Score:      %.0f/100\n", s.HealthScore())
	fmt.Fprintf(&buf, "Market Score:      %.0f/100\n", s.MarketScore())
	fmt.Fprintf(&buf, "Market Size:       %s\n", FormatCompact(s.MarketSizeUSD))
	fmt.Fprintf(&buf, "Competitors:       %d\n", s.Competitors)
	burn := decimal.NewMoney(s.MonthlyBurn)
	fmt.Fprintf(&buf, "Monthly Burn:      %s (%s/year)\n", burn.Format(), burn.Annual().Format())
	fmt.Fprintf(&buf, "Runway:            %d months (through %s)\n", s.RunwayMonths,
		dateutil.RunwayEnd(report.GeneratedAt, s.RunwayMonths).Format("Jan 2006"))
	fmt.Fprintln(&buf)

	for i, r := range report.Reports {
		writeScenarioCard(&buf, i+1, r, report)
	}

	rank := RankScenarios(report)
	if rank.BestScenario != "" {
		fmt.Fprintln(&buf, "SCENARIO COMPARISON")
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		fmt.Fprintf(&buf, "Highest median outcome: %s at %s (%.2fx current valuation)\n", rank.BestScenario, FormatCurrency(rank.BestMedian), rank.MedianMultiple)
		fmt.Fprintf(&buf, "Weakest downside:       %s with a 5th percentile of %s\n", rank.WorstDownside, FormatCurrency(rank.WorstP05))
		fmt.Fprintf(&buf, "Median spread:          %s\n", FormatCurrency(rank.Spread))
	}
	return buf.Bytes(), nil
}

func writeScenarioCard(buf *bytes.Buffer, n int, r domain.RiskReport, report *domain.AnalysisReport) {
	fmt.Fprintf(buf, "SCENARIO %d: %s\n", n, r.Scenario)
	fmt.Fprintln(buf, strings.Repeat("=", 50))
	fmt.Fprintf(buf, "Parameters: growth %.1f%%/yr, competitor impact %.1f%%, burn %s/month, investment %s\n",
		r.Params.MarketGrowthRate, r.Params.CompetitorImpactRate,
		FormatCurrency(r.Params.MonthlyBurnRate), FormatCurrency(r.Params.InitialInvestment))
	fmt.Fprintln(buf)

	m := r.Metrics
	fmt.Fprintln(buf, "OUTCOME DISTRIBUTION:")
	fmt.Fprintf(buf, "  Mean:              %s\n", FormatCurrency(m.Mean))
	fmt.Fprintf(buf, "  Median:            %s (%s)\n", FormatCurrency(m.Median), FormatMultiple(m.Median, r.Baseline))
	fmt.Fprintf(buf, "  5th Percentile:    %s\n", FormatCurrency(m.Percentile05))
	fmt.Fprintf(buf, "  95th Percentile:   %s\n", FormatCurrency(m.Percentile95))
	fmt.Fprintf(buf, "  Range:             %s to %s\n", FormatCurrency(m.Min), FormatCurrency(m.Max))
	fmt.Fprintf(buf, "  Success Rate (>2x): %s\n", FormatPercentage(m.SuccessRate))
	fmt.Fprintln(buf)

	if len(r.Band) > 0 {
		fmt.Fprintln(buf, "YEAR-END CHECKPOINTS (P05 / Median / P95):")
		for _, b := range r.Band {
			if (b.Month+1)%12 != 0 {
				continue
			}
			fmt.Fprintf(buf, "  %s: %s / %s / %s\n",
				dateutil.MonthLabel(report.GeneratedAt, b.Month),
				FormatCompact(b.P05), FormatCompact(b.Median), FormatCompact(b.P95))
		}
		fmt.Fprintln(buf)
	}

	a := r.Advice
	fmt.Fprintf(buf, "RECOMMENDATION: %s (%d%% confidence)\n", a.Recommendation.Label(), a.Confidence)
	writeList(buf, "Key points", a.KeyPoints)
	writeList(buf, "Opportunities", a.Opportunities)
	writeList(buf, "Risks", a.Risks)
	if r.Narrative != "" {
		fmt.Fprintln(buf, "Narrative:")
		fmt.Fprintf(buf, "  %s\n", strings.ReplaceAll(strings.TrimSpace(r.Narrative), "\n", "\n  "))
	}
	fmt.Fprintln(buf)
}

func writeList(buf *bytes.Buffer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(buf, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(buf, "  • %s\n", it)
	}
}
