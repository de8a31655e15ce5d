// Package timeseries resamples till-closure net sales into day, week or
// month buckets and describes the resulting series.
package timeseries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// ErrUnknownGranularity is returned by ParseGranularity.
var ErrUnknownGranularity = errors.New("unknown granularity")

// Granularity is the bucket width.
type Granularity string

const (
	Day   Granularity = "DAY"
	Week  Granularity = "WEEK"
	Month Granularity = "MONTH"
)

// ParseGranularity accepts day/week/month in any case, plus the Spanish
// labels used by the store managers.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DAY", "D", "DIA", "DÍA":
		return Day, nil
	case "WEEK", "W", "SEMANA":
		return Week, nil
	case "MONTH", "M", "MES":
		return Month, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// Window is the centered moving-average width for the granularity.
func (g Granularity) Window() int {
	switch g {
	case Week:
		return 4
	case Month:
		return 3
	default:
		return 7
	}
}

// BucketStart maps d to the first day of its bucket. Weeks start on Monday.
func BucketStart(d civil.Date, g Granularity) civil.Date {
	switch g {
	case Week:
		weekday := int(d.In(time.UTC).Weekday())
		daysBack := (weekday + 6) % 7
		return d.AddDays(-daysBack)
	case Month:
		return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
	default:
		return d
	}
}

// BucketNext returns the start of the bucket following start.
func BucketNext(start civil.Date, g Granularity) civil.Date {
	switch g {
	case Week:
		return start.AddDays(7)
	case Month:
		if start.Month == time.December {
			return civil.Date{Year: start.Year + 1, Month: time.January, Day: 1}
		}
		return civil.Date{Year: start.Year, Month: start.Month + 1, Day: 1}
	default:
		return start.AddDays(1)
	}
}

var weekdayNames = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// WeekdayName returns the Spanish weekday label for d.
func WeekdayName(d civil.Date) string {
	return weekdayNames[d.In(time.UTC).Weekday()]
}
