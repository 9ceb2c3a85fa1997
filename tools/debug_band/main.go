package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ventureboard/risklab/internal/calculation"
	"github.com/ventureboard/risklab/internal/config"
	"github.com/ventureboard/risklab/pkg/decimal"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_band <analysis-file> [startup-id]")
		return
	}
	cfg, err := config.NewInputParser().LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	id := ""
	if len(os.Args) > 2 {
		id = os.Args[2]
	}
	startup, err := cfg.Startup(id)
	if err != nil {
		panic(err)
	}

	engine := calculation.NewEngine(cfg.Simulation)
	res, err := engine.AnalyzeSet(context.Background(), startup, cfg.ScenarioSet())
	if err != nil {
		panic(err)
	}

	// Header
	header := "Month"
	for i := range res.Reports {
		header += fmt.Sprintf(",S%d_P05,S%d_Median,S%d_P95", i+1, i+1, i+1)
	}
	fmt.Println(header)

	months := len(res.Reports[0].Band)
	for m := 0; m < months; m++ {
		row := fmt.Sprintf("%d", m)
		for _, r := range res.Reports {
			b := r.Band[m]
			row += fmt.Sprintf(",%.0f,%.0f,%.0f", b.P05, b.Median, b.P95)
		}
		fmt.Println(row)
	}

	// First month each scenario's median band clears the success threshold.
	threshold := calculation.SuccessMultiple * startup.Valuation
	fmt.Printf("\nSuccess threshold: %s\n", decimal.NewMoney(threshold).Format())
	for i, r := range res.Reports {
		crossed := -1
		for _, b := range r.Band {
			if b.Median > threshold {
				crossed = b.Month
				break
			}
		}
		fmt.Printf("S%d %s: seed=%d success=%.3f median=%s crossing_month=%d\n",
			i+1, r.Scenario, r.Seed, r.Metrics.SuccessRate, decimal.NewMoney(r.Metrics.Median).FormatCompact(), crossed)
	}
}
