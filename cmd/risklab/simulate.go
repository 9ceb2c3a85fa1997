package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ventureboard/risklab/internal/calculation"
	"github.com/ventureboard/risklab/internal/config"
	"github.com/ventureboard/risklab/internal/domain"
	"github.com/ventureboard/risklab/internal/output"
	"github.com/ventureboard/risklab/pkg/decimal"
	"go.uber.org/zap"
)

// runFlags are shared by simulate and advise.
type runFlags struct {
	startup    string
	scenario   string
	iterations int
	seed       int64
	workers    int
	save       bool
	narrate    bool
	keepTrials bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.startup, "startup", "", "Startup id (optional when the file defines one startup)")
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "Scenario name (default: all scenarios)")
	cmd.Flags().IntVar(&f.iterations, "iterations", 0, "Trials per scenario (default: analysis file, then settings)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed for reproducible runs (0 picks a fresh seed)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Parallel simulation workers (default: analysis file, then settings)")
	cmd.Flags().BoolVar(&f.save, "save", false, "Save each run to the history database")
	cmd.Flags().BoolVar(&f.narrate, "narrate", false, "Attach a narrative summary to each report")
}

// simulationConfig layers flags over the analysis file over settings.
func (a *app) simulationConfig(fileCfg calculation.MonteCarloConfig, f *runFlags) calculation.MonteCarloConfig {
	cfg := fileCfg
	if cfg.Iterations == 0 {
		cfg.Iterations = a.settings.Simulation.Iterations
	}
	if cfg.Workers == 0 {
		cfg.Workers = a.settings.Simulation.Workers
	}
	if f.iterations > 0 {
		cfg.Iterations = f.iterations
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if f.seed != 0 {
		cfg.Seed = f.seed
	}
	return cfg
}

// analyze loads the analysis file and runs the selected scenarios, applying the
// optional narrative and history steps.
func (a *app) analyze(ctx context.Context, file string, f *runFlags) (*domain.AnalysisReport, error) {
	analysis, err := config.NewInputParser().LoadFromFile(file)
	if err != nil {
		return nil, err
	}
	startup, err := analysis.Startup(f.startup)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(analysis.StartupIDs(), ", "))
	}

	set := analysis.ScenarioSet()
	if f.scenario != "" {
		sc, err := set.Get(f.scenario)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(set.Names(), ", "))
		}
		set = domain.NewScenarioSet(sc)
	}

	engine := calculation.NewEngine(a.simulationConfig(analysis.Simulation, f))
	engine.SetLogger(a.logger)
	engine.KeepTrials = f.keepTrials
	report, err := engine.AnalyzeSet(ctx, startup, set)
	if err != nil {
		return nil, err
	}

	if f.narrate {
		n, err := a.narrator(ctx)
		if err != nil {
			return nil, err
		}
		for i := range report.Reports {
			text, err := n.Narrate(ctx, startup, &report.Reports[i])
			if err != nil {
				a.logger.Warn("narrative failed", zap.String("scenario", report.Reports[i].Scenario), zap.Error(err))
				continue
			}
			report.Reports[i].Narrative = text
		}
	}

	if f.save {
		runs, err := a.openStore()
		if err != nil {
			return nil, err
		}
		defer runs.Close()
		for i := range report.Reports {
			if err := runs.SaveRun(ctx, &report.Reports[i]); err != nil {
				return nil, err
			}
		}
		a.logger.Info("runs saved", zap.Int("count", len(report.Reports)), zap.String("path", runs.Path()))
	}
	return report, nil
}

// emit renders to w, or writes files into dir when dir is set.
func emit(w io.Writer, report *domain.AnalysisReport, format, dir string) error {
	if dir != "" {
		paths, err := output.GenerateReport(report, format, dir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(w, "Report written to %s\n", p)
		}
		return nil
	}
	data, err := output.Render(report, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (a *app) simulateCmd() *cobra.Command {
	var (
		flags  runFlags
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "simulate [analysis-file]",
		Short: "Run Monte Carlo valuation simulations",
		Long: `Simulate 5-year valuation trajectories for a startup under each scenario and report
risk metrics and investment advice.

Examples:
  risklab simulate analysis.yaml
  risklab simulate analysis.yaml --scenario Aggressive --iterations 5000 --seed 42
  risklab simulate analysis.yaml -f html -o reports
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.keepTrials = output.NormalizeFormatName(format) == "trials-csv"
			report, err := a.analyze(cmd.Context(), args[0], &flags)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), report, format, outDir)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "console", fmt.Sprintf("Output format (%s, all)", strings.Join(output.AvailableFormatterNames(), ", ")))
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Write report files to this directory instead of stdout")
	return cmd
}

func (a *app) adviseCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "advise [analysis-file]",
		Short: "Print investment advice per scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.analyze(cmd.Context(), args[0], &flags)
			if err != nil {
				return err
			}
			printAdvice(cmd.OutOrStdout(), report)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printAdvice(w io.Writer, report *domain.AnalysisReport) {
	fmt.Fprintf(w, "INVESTMENT ADVICE: %s\n", report.Startup.Name)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	for _, r := range report.Reports {
		fmt.Fprintf(w, "\nSCENARIO: %s\n", r.Scenario)
		fmt.Fprintln(w, strings.Repeat("-", 60))
		fmt.Fprintf(w, "Recommendation: %s (%d%% confidence)\n", r.Advice.Recommendation.Label(), r.Advice.Confidence)
		fmt.Fprintf(w, "Median outcome: %s  Success rate: %s\n",
			decimal.NewMoney(r.Metrics.Median).FormatCompact(), output.FormatPercentage(r.Metrics.SuccessRate))
		for _, p := range r.Advice.KeyPoints {
			fmt.Fprintf(w, "  • %s\n", p)
		}
		for _, o := range r.Advice.Opportunities {
			fmt.Fprintf(w, "  + %s\n", o)
		}
		for _, k := range r.Advice.Risks {
			fmt.Fprintf(w, "  - %s\n", k)
		}
		if r.Narrative != "" {
			fmt.Fprintf(w, "\n%s\n", r.Narrative)
		}
	}
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [analysis-file]",
		Short: "Validate an analysis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Analysis file %s is valid (%d startups, %d scenarios)\n",
				args[0], len(analysis.Startups), analysis.ScenarioSet().Len())
			return nil
		},
	}
}

func (a *app) scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios [analysis-file]",
		Short: "List the scenarios an analysis file resolves to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := domain.DefaultScenarioSet()
			if len(args) == 1 {
				analysis, err := config.NewInputParser().LoadFromFile(args[0])
				if err != nil {
					return err
				}
				set = analysis.ScenarioSet()
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-14s %8s %8s %14s %14s\n", "SCENARIO", "GROWTH", "IMPACT", "BURN/MO", "INVESTMENT")
			for _, sc := range set.Scenarios() {
				fmt.Fprintf(w, "%-14s %7.1f%% %7.1f%% %14s %14s\n",
					sc.Name,
					sc.Params.MarketGrowthRate,
					sc.Params.CompetitorImpactRate,
					decimal.NewMoney(sc.Params.MonthlyBurnRate).Format(),
					decimal.NewMoney(sc.Params.InitialInvestment).Format())
			}
			return nil
		},
	}
}

func (a *app) initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [analysis-file]",
		Short: "Write an example analysis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", args[0])
			}
			parser := config.NewInputParser()
			if err := parser.SaveAnalysis(parser.CreateExampleConfiguration(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example analysis written to %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
