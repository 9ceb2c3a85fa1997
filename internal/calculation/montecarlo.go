package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/ventureboard/risklab/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultHorizonMonths is the simulated time horizon (5 years).
	DefaultHorizonMonths = 60
	// DefaultIterations is the trial count used when none is configured.
	DefaultIterations = 1000
	// AnnualVolatility is the annualized volatility applied to monthly growth.
	AnnualVolatility = 0.15
	// MilestoneBoost multiplies the value when a milestone lands.
	MilestoneBoost = 1.10
	// MilestoneThreshold is the uniform draw a milestone must exceed (30% chance).
	MilestoneThreshold = 0.7
	// MilestoneInterval is the month spacing of milestone checks, starting at month 0.
	MilestoneInterval = 12
	// SuccessMultiple is the multiple of the baseline a final value must exceed to count as success.
	SuccessMultiple = 2.0
)

// RandomSource yields uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// MonteCarloConfig holds configuration for Monte Carlo simulations
type MonteCarloConfig struct {
	Iterations int   `yaml:"iterations" json:"iterations"`
	Horizon    int   `yaml:"horizon_months" json:"horizon_months"`
	Seed       int64 `yaml:"seed" json:"seed"` // 0 picks a fresh seed
	Workers    int   `yaml:"workers" json:"workers"`
}

// MonteCarloSimulator runs independent valuation trials for one baseline valuation.
type MonteCarloSimulator struct {
	Baseline float64
	Horizon  int
	Seed     int64
	Workers  int
	Source   RandomSource

	logger *zap.Logger
}

// NewMonteCarloSimulator creates a simulator seeded from config.Seed (or a fresh seed).
func NewMonteCarloSimulator(baseline float64, config MonteCarloConfig) *MonteCarloSimulator {
	if config.Seed == 0 {
		config.Seed = seedFunc()
	}
	if config.Horizon == 0 {
		config.Horizon = DefaultHorizonMonths
	}
	return &MonteCarloSimulator{
		Baseline: baseline,
		Horizon:  config.Horizon,
		Seed:     config.Seed,
		Workers:  config.Workers,
		Source:   rand.New(rand.NewSource(config.Seed)),
		logger:   zap.NewNop(),
	}
}

// SetLogger attaches a logger; nil restores the no-op logger.
func (mcs *MonteCarloSimulator) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mcs.logger = l
}

func (mcs *MonteCarloSimulator) validate(params domain.SimulationParameters, iterations int) error {
	if iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", domain.ErrInvalidArgument, iterations)
	}
	if mcs.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", domain.ErrInvalidArgument, mcs.Horizon)
	}
	if math.IsNaN(mcs.Baseline) || math.IsInf(mcs.Baseline, 0) || mcs.Baseline <= 0 {
		return fmt.Errorf("%w: baseline valuation must be a positive number", domain.ErrInvalidArgument)
	}
	if mcs.Source == nil {
		return fmt.Errorf("%w: random source is required", domain.ErrInvalidArgument)
	}
	return params.Validate()
}

// Simulate runs iterations trials sequentially, drawing from mcs.Source.
func (mcs *MonteCarloSimulator) Simulate(params domain.SimulationParameters, iterations int) ([]domain.TrialResult, error) {
	if err := mcs.validate(params, iterations); err != nil {
		return nil, err
	}

	trials := make([]domain.TrialResult, iterations)
	for i := range trials {
		trials[i] = runTrial(params, mcs.Baseline, mcs.Horizon, mcs.Source)
	}
	mcs.logger.Debug("simulation complete",
		zap.Int("iterations", iterations),
		zap.Int("horizon", mcs.Horizon))
	return trials, nil
}

// RunParallel runs iterations trials over Workers goroutines. Each trial gets its own
// source seeded from mcs.Source up front, so the result does not depend on the worker count.
func (mcs *MonteCarloSimulator) RunParallel(ctx context.Context, params domain.SimulationParameters, iterations int) ([]domain.TrialResult, error) {
	if err := mcs.validate(params, iterations); err != nil {
		return nil, err
	}

	seeds := make([]int64, iterations)
	for i := range seeds {
		seeds[i] = int64(mcs.Source.Float64() * math.MaxInt64)
	}

	workers := mcs.Workers
	if workers <= 0 {
		workers = 1
	}

	trials := make([]domain.TrialResult, iterations)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < iterations; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src := rand.New(rand.NewSource(seeds[i]))
			trials[i] = runTrial(params, mcs.Baseline, mcs.Horizon, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parallel simulation aborted: %w", err)
	}

	mcs.logger.Debug("parallel simulation complete",
		zap.Int("iterations", iterations),
		zap.Int("workers", workers))
	return trials, nil
}

// runTrial simulates one trajectory. The recorded timeline is floored at zero but the
// running value keeps compounding from its unclamped level.
func runTrial(params domain.SimulationParameters, baseline float64, horizon int, src RandomSource) domain.TrialResult {
	value := baseline
	monthlyGrowth := (params.MarketGrowthRate / 100) / 12
	timeline := make([]domain.TimelinePoint, horizon)

	for month := 0; month < horizon; month++ {
		draw := src.Float64()*2 - 1
		monthlyVolatility := AnnualVolatility * draw / math.Sqrt(12)
		competitorFactor := 1 - (params.CompetitorImpactRate/100)*(float64(month)/float64(horizon))
		effectiveGrowth := monthlyGrowth * competitorFactor * (1 + monthlyVolatility)

		value = value*(1+effectiveGrowth) - params.MonthlyBurnRate

		milestone := src.Float64()
		if month%MilestoneInterval == 0 && milestone > MilestoneThreshold {
			value *= MilestoneBoost
		}

		timeline[month] = domain.TimelinePoint{Month: month, Value: math.Max(0, value)}
	}

	return domain.TrialResult{
		FinalValue: math.Max(0, value),
		Timeline:   timeline,
	}
}
