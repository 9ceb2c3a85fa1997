package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ventureboard/risklab/internal/domain"
	"github.com/ventureboard/risklab/pkg/decimal"
	"go.uber.org/zap"
)

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved simulation runs",
	}

	var (
		startupID string
		limit     int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := a.openStore()
			if err != nil {
				return err
			}
			defer runs.Close()

			summaries, err := runs.ListRuns(cmd.Context(), startupID, limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(w, "No saved runs")
				return nil
			}
			fmt.Fprintf(w, "%-36s  %-12s  %-12s  %10s  %10s  %8s  %-12s  %s\n",
				"RUN ID", "STARTUP", "SCENARIO", "TRIALS", "MEDIAN", "SUCCESS", "ADVICE", "CREATED")
			for _, s := range summaries {
				fmt.Fprintf(w, "%-36s  %-12s  %-12s  %10d  %10s  %7.1f%%  %-12s  %s\n",
					s.RunID, s.StartupID, s.Scenario, s.Iterations,
					decimal.NewMoney(s.Median).FormatCompact(), s.SuccessRate*100,
					s.Recommendation.Label(), s.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&startupID, "startup", "", "Only list runs for this startup")
	listCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs (0 for all)")

	var format string
	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Render a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := a.openStore()
			if err != nil {
				return err
			}
			defer runs.Close()

			r, err := runs.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report := &domain.AnalysisReport{
				Startup:     domain.StartupProfile{ID: r.StartupID, Name: r.StartupName, Valuation: r.Baseline},
				Reports:     []domain.RiskReport{*r},
				GeneratedAt: r.CreatedAt,
			}
			return emit(cmd.OutOrStdout(), report, format, "")
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "console-lite", "Output format")

	deleteCmd := &cobra.Command{
		Use:   "delete [run-id...]",
		Short: "Delete saved runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := a.openStore()
			if err != nil {
				return err
			}
			defer runs.Close()

			for _, id := range args {
				if err := runs.DeleteRun(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				a.logger.Debug("run deleted", zap.String("run_id", id))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d run(s): %s\n", len(args), strings.Join(args, ", "))
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, deleteCmd)
	return cmd
}
