// Package period resolves the analysis window and its year-ago comparison.
package period

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// ErrInvalidRange is returned when the start date falls after the end date.
var ErrInvalidRange = errors.New("start date is after end date")

// Range is an inclusive span of calendar dates.
type Range struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// Contains reports whether d lies inside the range. The zero date, used for
// unparsable source dates, is never inside any range.
func (r Range) Contains(d civil.Date) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days covered.
func (r Range) Days() int {
	return r.End.DaysSince(r.Start) + 1
}

// Prior returns the same month/day span one year earlier.
func (r Range) Prior() Range {
	return Range{
		Start: ShiftYear(r.Start, -1),
		End:   ShiftYear(r.End, -1),
	}
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}

// ShiftYear moves d by the given number of years keeping month and day.
// Feb 29 lands on Feb 28 when the target year is not a leap year.
func ShiftYear(d civil.Date, years int) civil.Date {
	out := civil.Date{Year: d.Year + years, Month: d.Month, Day: d.Day}
	if d.Month == time.February && d.Day == 29 && !isLeap(out.Year) {
		out.Day = 28
	}
	return out
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Default picks month-to-date ending at today, or at the latest data date
// when today is past it. The start never precedes the earliest data date.
func Default(today, minData, maxData civil.Date) Range {
	end := today
	if !maxData.IsZero() && today.After(maxData) {
		end = maxData
	}
	start := civil.Date{Year: end.Year, Month: end.Month, Day: 1}
	if !minData.IsZero() && start.Before(minData) {
		start = minData
	}
	if start.After(end) {
		start = end
	}
	return Range{Start: start, End: end}
}

// Resolve fills zero bounds from the default range and validates the result.
func Resolve(start, end, today, minData, maxData civil.Date) (Range, error) {
	def := Default(today, minData, maxData)
	if start.IsZero() {
		start = def.Start
	}
	if end.IsZero() {
		end = def.End
	}
	if start.After(end) {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return Range{Start: start, End: end}, nil
}

// Today returns the calendar date of now in loc. A nil loc means local time.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(now.In(loc))
}

// Filter keeps the items whose date lies inside r.
func Filter[T any](items []T, r Range, dateOf func(*T) civil.Date) []T {
	var out []T
	for i := range items {
		if r.Contains(dateOf(&items[i])) {
			out = append(out, items[i])
		}
	}
	return out
}

// Bounds returns the earliest and latest non-zero dates among items.
func Bounds[T any](items []T, dateOf func(*T) civil.Date) (first, last civil.Date) {
	for i := range items {
		d := dateOf(&items[i])
		if d.IsZero() {
			continue
		}
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}
	return first, last
}
