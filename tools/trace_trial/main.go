package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	shopspring "github.com/shopspring/decimal"
	"github.com/ventureboard/risklab/internal/calculation"
	"github.com/ventureboard/risklab/internal/domain"
	"github.com/ventureboard/risklab/pkg/dateutil"
	"github.com/ventureboard/risklab/pkg/decimal"
)

func main() {
	valuation := flag.Float64("valuation", 42000000, "Baseline valuation")
	growth := flag.Float64("growth", 20, "Annual market growth rate in percent")
	impact := flag.Float64("impact", 30, "Competitor impact rate in percent")
	burn := flag.Float64("burn", 850000, "Monthly burn")
	seed := flag.Int64("seed", 1, "Random seed")
	start := flag.String("start", time.Now().Format("2006-01"), "First simulated month (YYYY-MM)")
	flag.Parse()

	startDate, err := time.Parse("2006-01", *start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -start %q: %v\n", *start, err)
		os.Exit(2)
	}

	params := domain.SimulationParameters{
		MarketGrowthRate:     *growth,
		CompetitorImpactRate: *impact,
		MonthlyBurnRate:      *burn,
	}
	sim := calculation.NewMonteCarloSimulator(*valuation, calculation.MonteCarloConfig{Seed: *seed})
	trials, err := sim.Simulate(params, 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	baseline := decimal.NewMoney(*valuation)
	threshold := baseline.Mul(shopspring.NewFromFloat(calculation.SuccessMultiple))
	fmt.Printf("Trial trace: seed %d, baseline %s, success above %s\n", sim.Seed, baseline.Format(), threshold.Format())
	prev := baseline
	for _, p := range trials[0].Timeline {
		v := decimal.NewMoney(p.Value)
		mark := ""
		if v.GreaterThan(threshold) {
			mark = "*"
		}
		fmt.Printf("%3d  %-8s  %16s  %14s %s\n", p.Month, dateutil.MonthLabel(startDate, p.Month),
			v.Format(), v.Sub(prev).FormatCompact(), mark)
		prev = v
	}
	final := decimal.NewMoney(trials[0].FinalValue)
	fmt.Printf("Final: %s (%sx baseline)\n", final.Format(), final.Multiple(baseline).StringFixed(2))
}
