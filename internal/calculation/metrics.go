package calculation

import (
	"fmt"
	"sort"

	"github.com/ventureboard/risklab/internal/domain"
)

// Aggregate reduces the final values of a trial set to summary risk statistics.
// Percentiles use the nearest-rank index into the sorted values; the median is the
// element at n/2, which is the upper median for even n.
func Aggregate(trials []domain.TrialResult, baseline float64) (domain.RiskMetrics, error) {
	n := len(trials)
	if n == 0 {
		return domain.RiskMetrics{}, fmt.Errorf("%w: no trials to aggregate", domain.ErrComputationDegenerate)
	}

	values := make([]float64, n)
	var sum float64
	successCount := 0
	threshold := SuccessMultiple * baseline
	for i, t := range trials {
		values[i] = t.FinalValue
		sum += t.FinalValue
		if t.FinalValue > threshold {
			successCount++
		}
	}
	sort.Float64s(values)

	return domain.RiskMetrics{
		Mean:         sum / float64(n),
		Median:       values[n/2],
		Min:          values[0],
		Max:          values[n-1],
		Percentile95: nearestRank(values, 0.95),
		Percentile05: nearestRank(values, 0.05),
		SuccessRate:  float64(successCount) / float64(n),
	}, nil
}

// Band computes the p05/median/p95 of all trials at every month of the horizon.
func Band(trials []domain.TrialResult) []domain.TimelineBand {
	if len(trials) == 0 {
		return nil
	}
	horizon := len(trials[0].Timeline)
	band := make([]domain.TimelineBand, 0, horizon)
	column := make([]float64, 0, len(trials))
	for month := 0; month < horizon; month++ {
		column = column[:0]
		for _, t := range trials {
			if month < len(t.Timeline) {
				column = append(column, t.Timeline[month].Value)
			}
		}
		if len(column) == 0 {
			continue
		}
		sort.Float64s(column)
		band = append(band, domain.TimelineBand{
			Month:  month,
			P05:    nearestRank(column, 0.05),
			Median: column[len(column)/2],
			P95:    nearestRank(column, 0.95),
		})
	}
	return band
}

// nearestRank indexes sorted at floor(n*p), clamped to the last element.
func nearestRank(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
