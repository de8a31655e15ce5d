package timeseries

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/internal/period"
	"salesdash/pkg/models"
)

func date(y int, m time.Month, d int) civil.Date { return civil.Date{Year: y, Month: m, Day: d} }

func decs(vals ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func closure(d civil.Date, net int64) models.TillClosure {
	return models.TillClosure{Date: d, NetSales: decimal.NewFromInt(net)}
}

func TestParseGranularity(t *testing.T) {
	tests := map[string]Granularity{"day": Day, "": Day, "Semana": Week, "MONTH": Month, "mes": Month}
	for in, want := range tests {
		got, err := ParseGranularity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseGranularity("year")
	assert.ErrorIs(t, err, ErrUnknownGranularity)
}

func TestBucketStart(t *testing.T) {
	// 2024-03-14 is a Thursday
	thursday := date(2024, 3, 14)
	assert.Equal(t, date(2024, 3, 11), BucketStart(thursday, Week))
	assert.Equal(t, date(2024, 3, 11), BucketStart(date(2024, 3, 11), Week))
	assert.Equal(t, date(2024, 3, 11), BucketStart(date(2024, 3, 17), Week))
	assert.Equal(t, date(2024, 3, 1), BucketStart(thursday, Month))
	assert.Equal(t, thursday, BucketStart(thursday, Day))
	assert.Equal(t, date(2025, 1, 1), BucketNext(date(2024, 12, 1), Month))
}

func TestClassifyCVBoundaries(t *testing.T) {
	tests := []struct {
		cv   float64
		want Stability
	}{
		{0, Stable},
		{0.149, Stable},
		{0.15, Moderate},
		{0.349, Moderate},
		{0.35, Volatile},
		{1.2, Volatile},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyCV(tt.cv), "cv=%v", tt.cv)
	}
}

func TestDescribe(t *testing.T) {
	t.Run("rising series", func(t *testing.T) {
		s := Describe(decs(100, 200, 300, 400))
		assert.True(t, s.Min.Equal(decimal.NewFromInt(100)))
		assert.True(t, s.Max.Equal(decimal.NewFromInt(400)))
		assert.True(t, s.Mean.Equal(decimal.NewFromInt(250)))
		assert.InDelta(t, 100.0, s.Slope, 1e-9)
		assert.Equal(t, Rising, s.Trend)
		// sample std of 100..400 is 129.099
		assert.InDelta(t, 129.0994, s.StdDev, 1e-3)
		assert.Equal(t, Volatile, s.Stability)
	})

	t.Run("flat series", func(t *testing.T) {
		s := Describe(decs(1000, 1010, 990, 1000))
		assert.Equal(t, Flat, s.Trend)
		assert.Equal(t, Stable, s.Stability)
	})

	t.Run("falling series", func(t *testing.T) {
		s := Describe(decs(500, 400, 300))
		assert.Equal(t, Falling, s.Trend)
	})

	t.Run("single bucket", func(t *testing.T) {
		s := Describe(decs(42))
		assert.Equal(t, Insufficient, s.Trend)
		assert.Zero(t, s.StdDev)
		assert.Equal(t, Stable, s.Stability)
	})

	t.Run("empty", func(t *testing.T) {
		s := Describe(nil)
		assert.Equal(t, 0, s.Buckets)
		assert.Equal(t, Insufficient, s.Trend)
	})

	t.Run("non-positive mean", func(t *testing.T) {
		s := Describe(decs(-10, 10))
		assert.Zero(t, s.CV)
	})
}

func TestMovingAverageCentered(t *testing.T) {
	values := decs(1, 2, 3, 4, 5, 6)

	odd := MovingAverage(values, 3)
	assert.False(t, odd[0].Valid)
	assert.True(t, odd[1].Decimal.Equal(decimal.NewFromInt(2)))
	assert.True(t, odd[4].Decimal.Equal(decimal.NewFromInt(5)))
	assert.False(t, odd[5].Valid)

	even := MovingAverage(values, 4)
	// window for i covers [i-2, i+1]
	assert.False(t, even[1].Valid)
	assert.True(t, even[2].Decimal.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, even[4].Decimal.Equal(decimal.RequireFromString("4.5")))
	assert.False(t, even[5].Valid)

	short := MovingAverage(decs(1, 2), 7)
	assert.False(t, short[0].Valid)
	assert.False(t, short[1].Valid)
}

func TestResampleFillsGaps(t *testing.T) {
	closures := []models.TillClosure{
		closure(date(2024, 3, 1), 100),
		closure(date(2024, 3, 1), 50),
		closure(date(2024, 3, 4), 200),
		{NetSales: decimal.NewFromInt(999)},
	}

	buckets := Resample(closures, Day)
	require.Len(t, buckets, 4)
	assert.True(t, buckets[0].Value.Equal(decimal.NewFromInt(150)))
	assert.True(t, buckets[1].Value.IsZero())
	assert.True(t, buckets[2].Value.IsZero())
	assert.True(t, buckets[3].Value.Equal(decimal.NewFromInt(200)))
}

func TestBuildOverlaysPriorYear(t *testing.T) {
	current := []models.TillClosure{
		closure(date(2024, 3, 1), 100),
		closure(date(2024, 3, 2), 120),
	}
	prior := []models.TillClosure{
		closure(date(2023, 3, 2), 80),
		closure(date(2023, 3, 3), 90),
	}
	r := period.Range{Start: date(2024, 3, 1), End: date(2024, 3, 3)}

	res := Build(current, prior, Day, r)

	require.Len(t, res.Points, 3)
	assert.Equal(t, date(2024, 3, 1), res.Points[0].Date)
	assert.True(t, res.Points[0].Current.Valid)
	assert.False(t, res.Points[0].Prior.Valid)

	assert.True(t, res.Points[1].Current.Valid)
	assert.True(t, res.Points[1].Prior.Decimal.Equal(decimal.NewFromInt(80)))

	assert.False(t, res.Points[2].Current.Valid)
	assert.True(t, res.Points[2].Prior.Decimal.Equal(decimal.NewFromInt(90)))

	assert.Equal(t, 7, res.Window)
	assert.Equal(t, 2, res.Stats.Buckets)
	assert.Equal(t, "Viernes", res.Points[0].Weekday)
}

func TestPriorWeeksAlignWithCurrentWeeks(t *testing.T) {
	current := []models.TillClosure{closure(date(2024, 3, 13), 100)}
	prior := []models.TillClosure{closure(date(2023, 3, 13), 70)}

	res := Build(current, prior, Week, period.Range{})

	require.Len(t, res.Points, 1)
	assert.Equal(t, date(2024, 3, 11), res.Points[0].Date)
	assert.True(t, res.Points[0].Prior.Decimal.Equal(decimal.NewFromInt(70)))
}
