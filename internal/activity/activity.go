// Package activity measures how busy the counters are through the day: the
// idle time between consecutive sales and the ticket density per hour.
package activity

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"salesdash/internal/normalize"
	"salesdash/pkg/models"
)

// MaxGap bounds the gaps that count as idle time. Longer gaps are lunch
// breaks or store closings.
const MaxGap = 180 * time.Minute

// HourCount is the number of distinct tickets rung up in one hour of day.
type HourCount struct {
	Hour    int `json:"hour"`
	Tickets int `json:"tickets"`
}

// Cell is one weekday x hour heatmap entry.
type Cell struct {
	Weekday string `json:"weekday"`
	Hour    int    `json:"hour"`
	Tickets int    `json:"tickets"`
}

// Profile is the activity view of a set of lines.
type Profile struct {
	// Timed is the number of lines whose date and time could be read.
	Timed          int         `json:"timed_lines"`
	Gaps           int         `json:"gaps"`
	MeanGapMinutes float64     `json:"mean_gap_minutes"`
	MaxGapMinutes  float64     `json:"max_gap_minutes"`
	PeakHour       int         `json:"peak_hour"`
	LowHour        int         `json:"low_hour"`
	Hours          []HourCount `json:"hours"`
	Heatmap        []Cell      `json:"heatmap"`
}

type stamped struct {
	line *models.TransactionLine
	at   time.Time
}

// Build computes the profile. Lines without a readable date or time are
// ignored.
func Build(lines []models.TransactionLine) *Profile {
	timed := stamp(lines)
	p := &Profile{Timed: len(timed)}
	if len(timed) == 0 {
		return p
	}

	gaps := idleGaps(timed)
	p.Gaps = len(gaps)
	var sum float64
	for _, g := range gaps {
		sum += g
		if g > p.MaxGapMinutes {
			p.MaxGapMinutes = g
		}
	}
	if len(gaps) > 0 {
		p.MeanGapMinutes = sum / float64(len(gaps))
	}

	p.Hours = ticketsPerHour(timed)
	p.PeakHour, p.LowHour = extremes(p.Hours)
	p.Heatmap = heatmap(timed)
	return p
}

func stamp(lines []models.TransactionLine) []stamped {
	out := make([]stamped, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		if l.Date.IsZero() {
			continue
		}
		offset, ok := normalize.ParseTimeOfDay(l.Time)
		if !ok {
			continue
		}
		out = append(out, stamped{line: l, at: l.Date.In(time.UTC).Add(offset)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at.Before(out[j].at) })
	return out
}

// idleGaps returns, in minutes, the time between consecutive lines of the
// same store and day, keeping 0 < gap <= MaxGap.
func idleGaps(timed []stamped) []float64 {
	type key struct {
		store string
		date  civil.Date
	}
	last := make(map[key]time.Time)
	var gaps []float64
	for _, s := range timed {
		k := key{s.line.Store, s.line.Date}
		if prev, ok := last[k]; ok {
			if d := s.at.Sub(prev); d > 0 && d <= MaxGap {
				gaps = append(gaps, d.Minutes())
			}
		}
		last[k] = s.at
	}
	return gaps
}

func ticketsPerHour(timed []stamped) []HourCount {
	folios := make(map[int]map[string]struct{})
	for _, s := range timed {
		h := s.at.Hour()
		if folios[h] == nil {
			folios[h] = make(map[string]struct{})
		}
		folios[h][s.line.Folio] = struct{}{}
	}
	out := make([]HourCount, 0, len(folios))
	for h, set := range folios {
		out = append(out, HourCount{Hour: h, Tickets: len(set)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// extremes picks the busiest and quietest hours; ties go to the earlier hour.
func extremes(hours []HourCount) (peak, low int) {
	if len(hours) == 0 {
		return 0, 0
	}
	best, worst := hours[0], hours[0]
	for _, h := range hours[1:] {
		if h.Tickets > best.Tickets {
			best = h
		}
		if h.Tickets < worst.Tickets {
			worst = h
		}
	}
	return best.Hour, worst.Hour
}

var weekdayOrder = map[time.Weekday]int{
	time.Monday: 0, time.Tuesday: 1, time.Wednesday: 2, time.Thursday: 3,
	time.Friday: 4, time.Saturday: 5, time.Sunday: 6,
}

var weekdayLabels = map[time.Weekday]string{
	time.Monday: "Lunes", time.Tuesday: "Martes", time.Wednesday: "Miércoles",
	time.Thursday: "Jueves", time.Friday: "Viernes", time.Saturday: "Sábado", time.Sunday: "Domingo",
}

// heatmap counts distinct tickets per weekday and hour, Monday first.
func heatmap(timed []stamped) []Cell {
	type key struct {
		day  time.Weekday
		hour int
	}
	folios := make(map[key]map[string]struct{})
	for _, s := range timed {
		k := key{s.at.Weekday(), s.at.Hour()}
		if folios[k] == nil {
			folios[k] = make(map[string]struct{})
		}
		folios[k][s.line.Folio] = struct{}{}
	}

	keys := make([]key, 0, len(folios))
	for k := range folios {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].day != keys[j].day {
			return weekdayOrder[keys[i].day] < weekdayOrder[keys[j].day]
		}
		return keys[i].hour < keys[j].hour
	})

	out := make([]Cell, 0, len(keys))
	for _, k := range keys {
		out = append(out, Cell{Weekday: weekdayLabels[k.day], Hour: k.hour, Tickets: len(folios[k])})
	}
	return out
}
