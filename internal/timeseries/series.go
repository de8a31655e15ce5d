package timeseries

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"salesdash/internal/period"
	"salesdash/pkg/models"
)

// Bucket is one resampled value.
type Bucket struct {
	Date  civil.Date      `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Point is one row of the merged current/prior series. Either side is null
// when its series has no bucket at that date.
type Point struct {
	Date      civil.Date          `json:"date"`
	Weekday   string              `json:"weekday"`
	Current   decimal.NullDecimal `json:"current"`
	Prior     decimal.NullDecimal `json:"prior"`
	MovingAvg decimal.NullDecimal `json:"moving_avg"`
}

// Result is the resampled series with its statistics.
type Result struct {
	Granularity Granularity  `json:"granularity"`
	Range       period.Range `json:"range"`
	Window      int          `json:"window"`
	Current     []Bucket     `json:"current"`
	Points      []Point      `json:"points"`
	Stats       Stats        `json:"stats"`
}

// Resample sums closure net sales per bucket. Buckets between the first and
// last populated bucket are present with a zero value.
func Resample(closures []models.TillClosure, g Granularity) []Bucket {
	return resample(closures, g, func(d civil.Date) civil.Date { return d })
}

// ResampleShifted resamples closures after moving each closure date forward
// by one year, so a prior-year series lands on the current axis.
func ResampleShifted(closures []models.TillClosure, g Granularity) []Bucket {
	return resample(closures, g, func(d civil.Date) civil.Date { return period.ShiftYear(d, 1) })
}

func resample(closures []models.TillClosure, g Granularity, move func(civil.Date) civil.Date) []Bucket {
	sums := make(map[civil.Date]decimal.Decimal)
	var first, last civil.Date
	for i := range closures {
		c := &closures[i]
		if c.Date.IsZero() {
			continue
		}
		b := BucketStart(move(c.Date), g)
		sums[b] = sums[b].Add(c.NetSales)
		if first.IsZero() || b.Before(first) {
			first = b
		}
		if last.IsZero() || b.After(last) {
			last = b
		}
	}
	if len(sums) == 0 {
		return nil
	}

	var out []Bucket
	for cur := first; !cur.After(last); cur = BucketNext(cur, g) {
		out = append(out, Bucket{Date: cur, Value: sums[cur]})
	}
	return out
}

// Merge outer-joins the current and prior buckets on date and attaches the
// moving average of the current series.
func Merge(current, prior []Bucket, window int) []Point {
	values := make([]decimal.Decimal, len(current))
	for i, b := range current {
		values[i] = b.Value
	}
	avg := MovingAverage(values, window)

	byDate := make(map[civil.Date]*Point, len(current)+len(prior))
	for i, b := range current {
		byDate[b.Date] = &Point{
			Date:      b.Date,
			Current:   decimal.NewNullDecimal(b.Value),
			MovingAvg: avg[i],
		}
	}
	for _, b := range prior {
		p, ok := byDate[b.Date]
		if !ok {
			p = &Point{Date: b.Date}
			byDate[b.Date] = p
		}
		p.Prior = decimal.NewNullDecimal(b.Value)
	}

	points := make([]Point, 0, len(byDate))
	for _, p := range byDate {
		p.Weekday = WeekdayName(p.Date)
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// Build resamples both periods and describes the current one.
func Build(current, prior []models.TillClosure, g Granularity, r period.Range) *Result {
	cur := Resample(current, g)
	prev := ResampleShifted(prior, g)

	values := make([]decimal.Decimal, len(cur))
	for i, b := range cur {
		values[i] = b.Value
	}

	return &Result{
		Granularity: g,
		Range:       r,
		Window:      g.Window(),
		Current:     cur,
		Points:      Merge(cur, prev, g.Window()),
		Stats:       Describe(values),
	}
}
