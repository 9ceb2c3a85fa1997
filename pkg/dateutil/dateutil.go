package dateutil

import "time"

// StartOfMonth truncates a date to midnight on the first of its month
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// AddMonths adds a specified number of months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// MonthEnd returns the calendar month a simulated month index closes in, counted from
// the month containing start. Index 0 is the first simulated month.
func MonthEnd(start time.Time, index int) time.Time {
	return AddMonths(StartOfMonth(start), index)
}

// MonthLabel renders the calendar month of a simulated month index, e.g. "Jan 2025".
func MonthLabel(start time.Time, index int) string {
	return MonthEnd(start, index).Format("Jan 2006")
}

// RunwayEnd returns the date cash runs out given a runway in months
func RunwayEnd(asOf time.Time, runwayMonths int) time.Time {
	return AddMonths(asOf, runwayMonths)
}
