package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{name: "same instant", start: base, end: base, expected: 0},
		{name: "sixty days", start: base, end: base.AddDate(0, 0, 60), expected: 60},
		{name: "partial day truncates", start: base, end: base.Add(47 * time.Hour), expected: 1},
		{name: "end before start", start: base, end: base.AddDate(0, 0, -3), expected: -3},
		{name: "partial negative day truncates toward zero", start: base, end: base.Add(-30 * time.Hour), expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysBetween(tt.start, tt.end))
		})
	}
}

func TestParseDate(t *testing.T) {
	expected := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2024-03-15", " 15/03/2024 ", "2024-03-15T00:00:00Z"} {
		got, err := ParseDate(input)
		require.NoError(t, err, input)
		assert.True(t, expected.Equal(got), input)
	}

	_, err := ParseDate("15 March")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "2024-03-15", FormatDate(time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)))
}

func TestDecimalFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected decimal.Decimal
		wantErr  bool
	}{
		{input: "5000", expected: decimal.NewFromInt(5000)},
		{input: "2,5", expected: decimal.NewFromFloat(2.5)},
		{input: " 12% ", expected: decimal.NewFromInt(12)},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DecimalFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestDateIn(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	evening := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), DateIn(evening, loc))
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), DateIn(evening, time.UTC))
}

func TestSameMonthAndMinTime(t *testing.T) {
	a := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC)
	c := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameMonth(a, b))
	assert.False(t, SameMonth(a, c))
	assert.Equal(t, c, MinTime(a, c))
	assert.Equal(t, a, MinTime(a, b))
	assert.Equal(t, a, StartOfDay(a.Add(5*time.Hour)))
}

func TestSumDecimals(t *testing.T) {
	assert.True(t, SumDecimals().Equal(decimal.Zero))
	assert.True(t, SumDecimals(decimal.NewFromFloat(0.1), decimal.NewFromFloat(0.2)).Equal(decimal.NewFromFloat(0.3)))
}
