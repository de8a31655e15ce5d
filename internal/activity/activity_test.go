package activity

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/pkg/models"
)

// 2024-03-04 is a Monday.
var monday = civil.Date{Year: 2024, Month: time.March, Day: 4}

func sale(store, folio string, d civil.Date, clock string) models.TransactionLine {
	return models.TransactionLine{Store: store, Folio: folio, Date: d, Time: clock, Kind: models.MovementSale}
}

func TestBuildGaps(t *testing.T) {
	lines := []models.TransactionLine{
		sale("Centro", "T1", monday, "09:00:00"),
		sale("Centro", "T2", monday, "09:10:00"),
		sale("Centro", "T2", monday, "09:10:00"), // same instant, not a gap
		sale("Centro", "T3", monday, "09:40:00"),
		sale("Centro", "T4", monday, "14:00:00"), // 260 min, a break
		sale("Norte", "N1", monday, "09:05:00"),  // other store, own sequence
		sale("Norte", "N2", monday, "09:25:00"),
		sale("Centro", "X", monday, "sin hora"),
		sale("Centro", "Y", civil.Date{}, "10:00:00"),
	}

	p := Build(lines)

	assert.Equal(t, 7, p.Timed)
	require.Equal(t, 3, p.Gaps)
	assert.InDelta(t, (10.0+30.0+20.0)/3, p.MeanGapMinutes, 1e-9)
	assert.InDelta(t, 30.0, p.MaxGapMinutes, 1e-9)
}

func TestBuildHours(t *testing.T) {
	tuesday := monday.AddDays(1)
	lines := []models.TransactionLine{
		sale("Centro", "T1", monday, "09:00"),
		sale("Centro", "T1", monday, "09:01"),
		sale("Centro", "T2", monday, "09:30"),
		sale("Centro", "T3", monday, "1:15 PM"),
		sale("Centro", "T4", tuesday, "13:45"),
		sale("Centro", "T5", tuesday, "18:00"),
	}

	p := Build(lines)

	assert.Equal(t, []HourCount{{Hour: 9, Tickets: 2}, {Hour: 13, Tickets: 2}, {Hour: 18, Tickets: 1}}, p.Hours)
	assert.Equal(t, 9, p.PeakHour, "ties go to the earlier hour")
	assert.Equal(t, 18, p.LowHour)

	require.Len(t, p.Heatmap, 4)
	assert.Equal(t, Cell{Weekday: "Lunes", Hour: 9, Tickets: 2}, p.Heatmap[0])
	assert.Equal(t, Cell{Weekday: "Martes", Hour: 18, Tickets: 1}, p.Heatmap[3])
}

func TestBuildEmpty(t *testing.T) {
	p := Build(nil)
	assert.Zero(t, p.Timed)
	assert.Zero(t, p.Gaps)
	assert.Empty(t, p.Hours)
	assert.Empty(t, p.Heatmap)
}
