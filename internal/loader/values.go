package loader

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Delivery dates are day-first; single digit days and months are accepted.
var dateLayouts = []string{"2/1/2006", "2/1/2006 15:04:05", "2/1/2006 15:04"}

// ParseNumber coerces a cell to a number. Blank and unparsable cells report
// ok=false. Currency symbols and thousands separators are ignored, and a lone
// comma is read as the decimal separator.
func ParseNumber(s string) (v float64, ok bool) {
	s = normalizeNumber(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseDecimal is ParseNumber for money columns.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = normalizeNumber(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0 && strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	}

	switch strings.ToLower(s) {
	case "nan", "null", "none", "-", "n/a":
		return ""
	}
	return s
}

// ParseDate parses a dd/mm/yyyy delivery date. A trailing time of day is
// accepted and discarded.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func floatPtr(s string) *float64 {
	if v, ok := ParseNumber(s); ok {
		return &v
	}
	return nil
}
