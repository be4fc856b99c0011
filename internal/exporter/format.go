package exporter

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatOptional formats a nullable value, blank when nil
func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

// formatInt formats an integer value
func formatInt[T ~int | ~int64](i T) string {
	return strconv.FormatInt(int64(i), 10)
}

// formatDecimal formats money and ratios with 2 decimal places
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}
