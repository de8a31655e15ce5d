package normalize

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"salesdash/pkg/models"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$1,234.56", "1234.56"},
		{"$0.00", "0"},
		{"N/A", "0"},
		{"", "0"},
		{"  $ 12.50 ", "12.5"},
		{"-$5.25", "-5.25"},
		{"1,000,000", "1000000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseCurrency(tt.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParsePercent(t *testing.T) {
	assert.True(t, ParsePercent("15%").Equal(decimal.NewFromInt(15)))
	assert.True(t, ParsePercent(" 7.5 % ").Equal(decimal.RequireFromString("7.5")))
	assert.True(t, ParsePercent("n/a").IsZero())
}

func TestParseHour(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2:30 PM", 14},
		{"2:30 pm", 14},
		{"12:05 AM", 0},
		{"12:05 PM", 12},
		{"11:59:59 PM", 23},
		{"2:30 p. m.", 14},
		{"14:30", 14},
		{"09:15:00", 9},
		{"7", 7},
		{"garbage", 0},
		{"", 0},
		{"25:00", 0},
		{"-3:00", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseHour(tt.in)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 23)
		})
	}
}

func TestParseClockMinutes(t *testing.T) {
	h, m := ParseClock("2:45 PM")
	assert.Equal(t, 14, h)
	assert.Equal(t, 45, m)

	h, m = ParseClock("08:07")
	assert.Equal(t, 8, h)
	assert.Equal(t, 7, m)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"14:05:30", 14*time.Hour + 5*time.Minute + 30*time.Second, true},
		{"2:05 p. m.", 14*time.Hour + 5*time.Minute, true},
		{"09:15", 9*time.Hour + 15*time.Minute, true},
		{"tarde", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimeOfDay(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want civil.Date
	}{
		{"2024-03-15", civil.Date{Year: 2024, Month: 3, Day: 15}},
		{"2024-03-15 10:22:00", civil.Date{Year: 2024, Month: 3, Day: 15}},
		{"3/5/2024", civil.Date{Year: 2024, Month: 3, Day: 5}},
		{"03/05/2024", civil.Date{Year: 2024, Month: 3, Day: 5}},
		{"not a date", civil.Date{}},
		{"", civil.Date{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.in, nil))
		})
	}
}

func TestParseDateCustomLayouts(t *testing.T) {
	got := ParseDate("05/03/2024", []string{"02/01/2006"})
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 5}, got)
}

func TestParseFlag(t *testing.T) {
	for _, yes := range []string{"SI", "si", "Sí", "S", "TRUE", "1", "x", "yes"} {
		assert.True(t, ParseFlag(yes), yes)
	}
	for _, no := range []string{"NO", "", "0", "false", "SIN"} {
		assert.False(t, ParseFlag(no), no)
	}
}

func TestParseMovementKind(t *testing.T) {
	assert.Equal(t, models.MovementSale, ParseMovementKind("venta"))
	assert.Equal(t, models.MovementReturn, ParseMovementKind(" DEVOLUCION "))
	assert.Equal(t, models.MovementReturn, ParseMovementKind("Devolución"))
	assert.Equal(t, models.MovementOther, ParseMovementKind("TRASPASO"))
}
