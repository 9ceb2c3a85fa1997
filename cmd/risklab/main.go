package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ventureboard/risklab/internal/config"
	"github.com/ventureboard/risklab/internal/narrative"
	"github.com/ventureboard/risklab/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries state shared by every command once the root pre-run has loaded settings.
type app struct {
	configFile string
	verbose    bool

	settings config.Settings
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "risklab",
		Short:         "Startup valuation risk simulator",
		Long:          "Monte Carlo valuation risk analysis and rule-based investment advice for startups",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(a.configFile)
			if err != nil {
				return err
			}
			logger, err := newLogger(settings.Logging, a.verbose)
			if err != nil {
				return err
			}
			a.settings = settings
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Settings file (default: ./risklab.yaml if it exists)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.simulateCmd(),
		a.adviseCmd(),
		a.validateCmd(),
		a.initCmd(),
		a.scenariosCmd(),
		a.serveCmd(),
		a.historyCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:              "version",
		Short:            "Print version information",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "risklab %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// newLogger builds the CLI logger. Logs go to stderr so report output on stdout stays clean.
func newLogger(ls config.LoggingSettings, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(ls.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging level %q: %w", ls.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	if strings.EqualFold(ls.Format, "console") {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// narrator picks the configured narrative provider. Gemini falls back to the template
// narrator when the API call fails.
func (a *app) narrator(ctx context.Context) (narrative.Narrator, error) {
	switch strings.ToLower(a.settings.Narrative.Provider) {
	case "", "template":
		return narrative.TemplateNarrator{}, nil
	case "gemini":
		g, err := narrative.NewGeminiNarrator(ctx, a.settings.Narrative.APIKey, a.settings.Narrative.Model, a.logger)
		if err != nil {
			return nil, err
		}
		return narrative.Fallback{Primary: g, Secondary: narrative.TemplateNarrator{}, Logger: a.logger}, nil
	default:
		return nil, fmt.Errorf("unknown narrative provider %q (valid: template, gemini)", a.settings.Narrative.Provider)
	}
}

func (a *app) openStore() (*store.RunStore, error) {
	runs, err := store.NewRunStore(a.settings.Storage.Path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("run store opened", zap.String("path", runs.Path()))
	return runs, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
