package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateArithmetic(t *testing.T) {
	baseDate := time.Date(2025, 6, 15, 12, 30, 45, 0, time.UTC)

	monthDate := AddMonths(baseDate, 18) // 1.5 years
	expectedMonth := time.Date(2026, 12, 15, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, expectedMonth, monthDate, "AddMonths should add 18 months correctly")

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(baseDate))
	assert.Equal(t, time.Date(2027, 6, 15, 12, 30, 45, 0, time.UTC), RunwayEnd(baseDate, 24))
}

func TestMonthLabel(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		index int
		want  string
	}{
		{0, "Jan 2025"},
		{1, "Feb 2025"}, // no day overflow from the 31st
		{11, "Dec 2025"},
		{12, "Jan 2026"},
		{59, "Dec 2029"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MonthLabel(start, tt.index), "index %d", tt.index)
	}
}
