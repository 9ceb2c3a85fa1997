package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ventureboard/risklab/internal/config"
	"github.com/ventureboard/risklab/internal/observability"
	"github.com/ventureboard/risklab/internal/server"
	"go.uber.org/zap"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		addr    string
		narrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve [analysis-file]",
		Short: "Serve the simulator over HTTP and WebSocket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.settings.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := server.Options{
				Analysis:      analysis,
				Simulation:    a.simulationConfig(analysis.Simulation, &runFlags{}),
				MaxIterations: a.settings.Server.MaxIterations,
				Metrics:       observability.NewMetrics(""),
				Logger:        a.logger,
			}
			if a.settings.Storage.Enabled {
				runs, err := a.openStore()
				if err != nil {
					return err
				}
				defer runs.Close()
				opts.History = runs
			}
			if narrate {
				n, err := a.narrator(ctx)
				if err != nil {
					return err
				}
				opts.Narrator = n
			}

			srv, err := server.New(opts)
			if err != nil {
				return err
			}
			a.logger.Info("starting server",
				zap.String("addr", addr),
				zap.Strings("startups", analysis.StartupIDs()),
				zap.Int("max_iterations", opts.MaxIterations),
				zap.Bool("history", opts.History != nil),
				zap.Int("default_iterations", opts.Simulation.Iterations))
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr setting)")
	cmd.Flags().BoolVar(&narrate, "narrate", false, "Attach a narrative summary to each simulate response")
	return cmd
}
