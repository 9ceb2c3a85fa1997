package output

import (
	"fmt"

	"github.com/ventureboard/risklab/pkg/decimal"
)

// FormatCurrency formats a dollar amount as whole USD with thousands separators.
func FormatCurrency(amount float64) string { return decimal.NewMoney(amount).Format() }

// FormatCompact formats a dollar amount in the dashboard's short form, e.g. $42.0M.
func FormatCompact(amount float64) string { return decimal.NewMoney(amount).FormatCompact() }

// FormatPercentage formats a fraction (0.625) as a percentage with one decimal (62.5%).
func FormatPercentage(fraction float64) string { return fmt.Sprintf("%.1f%%", fraction*100) }

// FormatMultiple formats amount relative to base, e.g. 2.15x.
func FormatMultiple(amount, base float64) string {
	return decimal.NewMoney(amount).Multiple(decimal.NewMoney(base)).StringFixed(2) + "x"
}

func intToString(i int) string { return fmt.Sprintf("%d", i) }

func floatToString(f float64) string { return fmt.Sprintf("%.2f", f) }
