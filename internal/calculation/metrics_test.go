package calculation

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureboard/risklab/internal/domain"
)

func trialsFromFinals(finals ...float64) []domain.TrialResult {
	trials := make([]domain.TrialResult, len(finals))
	for i, v := range finals {
		trials[i] = domain.TrialResult{FinalValue: v, Timeline: []domain.TimelinePoint{{Month: 0, Value: v}}}
	}
	return trials
}

func TestAggregateSingleTrial(t *testing.T) {
	m, err := Aggregate(trialsFromFinals(12345), 1000)
	require.NoError(t, err)

	assert.Equal(t, 12345.0, m.Mean)
	assert.Equal(t, m.Mean, m.Median)
	assert.Equal(t, m.Mean, m.Min)
	assert.Equal(t, m.Mean, m.Max)
	assert.Equal(t, m.Mean, m.Percentile95)
	assert.Equal(t, m.Mean, m.Percentile05)
	assert.Equal(t, 1.0, m.SuccessRate)
}

func TestAggregateSingleIterationSimulation(t *testing.T) {
	trials, err := NewMonteCarloSimulator(42000000, MonteCarloConfig{Seed: 9}).Simulate(baseParams(), 1)
	require.NoError(t, err)

	m, err := Aggregate(trials, 42000000)
	require.NoError(t, err)
	for _, v := range []float64{m.Median, m.Min, m.Max, m.Percentile95, m.Percentile05} {
		assert.Equal(t, m.Mean, v)
	}
}

func TestAggregateUpperMedian(t *testing.T) {
	m, err := Aggregate(trialsFromFinals(4, 1, 3, 2), 100)
	require.NoError(t, err)
	assert.Equal(t, 3.0, m.Median, "even-length median is the upper element, not the average")
	assert.Equal(t, 2.5, m.Mean)
	assert.Equal(t, 1.0, m.Min)
	assert.Equal(t, 4.0, m.Max)
}

func TestAggregateNearestRankPercentiles(t *testing.T) {
	finals := make([]float64, 20)
	for i := range finals {
		finals[i] = float64(i + 1)
	}
	m, err := Aggregate(trialsFromFinals(finals...), 100)
	require.NoError(t, err)

	assert.Equal(t, 20.0, m.Percentile95) // index 19
	assert.Equal(t, 2.0, m.Percentile05)  // index 1
	assert.Equal(t, 11.0, m.Median)       // index 10
}

func TestAggregateSuccessRateIsStrict(t *testing.T) {
	// baseline 10: success requires strictly more than 20
	m, err := Aggregate(trialsFromFinals(20, 20.5, 5, 40), 10)
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.SuccessRate)
}

func TestAggregateOrderInvariant(t *testing.T) {
	trials, err := NewMonteCarloSimulator(42000000, MonteCarloConfig{Seed: 17}).Simulate(baseParams(), 301)
	require.NoError(t, err)

	want, err := Aggregate(trials, 42000000)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 5; i++ {
		shuffled := append([]domain.TrialResult(nil), trials...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := Aggregate(shuffled, 42000000)
		require.NoError(t, err)
		assert.Equal(t, want.Median, got.Median)
		assert.Equal(t, want.Min, got.Min)
		assert.Equal(t, want.Max, got.Max)
		assert.Equal(t, want.Percentile05, got.Percentile05)
		assert.Equal(t, want.Percentile95, got.Percentile95)
		assert.Equal(t, want.SuccessRate, got.SuccessRate)
		assert.InDelta(t, want.Mean, got.Mean, 1e-3)
	}
}

func TestAggregateOrdering(t *testing.T) {
	trials, err := NewMonteCarloSimulator(42000000, MonteCarloConfig{Seed: 23}).Simulate(baseParams(), 1000)
	require.NoError(t, err)

	m, err := Aggregate(trials, 42000000)
	require.NoError(t, err)
	assert.LessOrEqual(t, m.Min, m.Median)
	assert.LessOrEqual(t, m.Median, m.Max)
	assert.LessOrEqual(t, m.Percentile05, m.Median)
	assert.LessOrEqual(t, m.Median, m.Percentile95)
	assert.GreaterOrEqual(t, m.SuccessRate, 0.0)
	assert.LessOrEqual(t, m.SuccessRate, 1.0)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	trials := trialsFromFinals(5, 3, 9, 1)
	_, err := Aggregate(trials, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 3, 9, 1}, []float64{trials[0].FinalValue, trials[1].FinalValue, trials[2].FinalValue, trials[3].FinalValue})
}

func TestAggregateEmpty(t *testing.T) {
	_, err := Aggregate(nil, 100)
	assert.True(t, errors.Is(err, domain.ErrComputationDegenerate))
}

func TestBand(t *testing.T) {
	trials := []domain.TrialResult{
		{Timeline: []domain.TimelinePoint{{Month: 0, Value: 1}, {Month: 1, Value: 10}}},
		{Timeline: []domain.TimelinePoint{{Month: 0, Value: 3}, {Month: 1, Value: 30}}},
		{Timeline: []domain.TimelinePoint{{Month: 0, Value: 2}, {Month: 1, Value: 20}}},
	}
	band := Band(trials)
	require.Len(t, band, 2)
	assert.Equal(t, domain.TimelineBand{Month: 0, P05: 1, Median: 2, P95: 3}, band[0])
	assert.Equal(t, domain.TimelineBand{Month: 1, P05: 10, Median: 20, P95: 30}, band[1])

	assert.Nil(t, Band(nil))
}
