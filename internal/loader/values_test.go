package loader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"100", 100, true},
		{" 12.5 ", 12.5, true},
		{"12,5", 12.5, true},
		{"1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"R$ 1.679,60", 1679.60, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
		{"1,2,3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseDecimal(t *testing.T) {
	d, ok := ParseDecimal("2.479,86")
	assert.True(t, ok)
	assert.Equal(t, "2479.86", d.String())

	_, ok = ParseDecimal("x")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"15/01/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"5/3/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"05/03/2024 10:30:00", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"05/01/2024 17:30", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-15", time.Time{}, false},
		{"31/02/2024", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}
