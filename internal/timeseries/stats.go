package timeseries

import (
	"math"

	"github.com/shopspring/decimal"
)

// Stability classifies the coefficient of variation.
type Stability string

const (
	Stable   Stability = "STABLE"
	Moderate Stability = "MODERATE"
	Volatile Stability = "VOLATILE"
)

// Trend classifies the least-squares slope.
type Trend string

const (
	Rising       Trend = "RISING"
	Falling      Trend = "FALLING"
	Flat         Trend = "FLAT"
	Insufficient Trend = "INSUFFICIENT"
)

const (
	stableCV   = 0.15
	moderateCV = 0.35
	flatBand   = 0.02
)

// Stats describes a bucketed series.
type Stats struct {
	Buckets   int             `json:"buckets"`
	Min       decimal.Decimal `json:"min"`
	Max       decimal.Decimal `json:"max"`
	Mean      decimal.Decimal `json:"mean"`
	StdDev    float64         `json:"std_dev"`
	CV        float64         `json:"cv"`
	Stability Stability       `json:"stability"`
	Slope     float64         `json:"slope"`
	Trend     Trend           `json:"trend"`
}

// ClassifyCV maps a coefficient of variation onto a Stability.
func ClassifyCV(cv float64) Stability {
	switch {
	case cv < stableCV:
		return Stable
	case cv < moderateCV:
		return Moderate
	default:
		return Volatile
	}
}

// ClassifySlope maps a slope onto a Trend relative to the series mean.
func ClassifySlope(slope, mean float64) Trend {
	band := flatBand * mean
	switch {
	case slope > band:
		return Rising
	case slope < -band:
		return Falling
	default:
		return Flat
	}
}

// Describe computes the summary statistics of values. The standard deviation
// is the sample deviation; it is 0 for fewer than two buckets.
func Describe(values []decimal.Decimal) Stats {
	s := Stats{Buckets: len(values), Stability: Stable, Trend: Insufficient}
	if len(values) == 0 {
		return s
	}

	sum := decimal.Zero
	s.Min, s.Max = values[0], values[0]
	for _, v := range values {
		sum = sum.Add(v)
		if v.LessThan(s.Min) {
			s.Min = v
		}
		if v.GreaterThan(s.Max) {
			s.Max = v
		}
	}
	s.Mean = sum.Div(decimal.NewFromInt(int64(len(values))))

	ys := floats(values)
	mean, _ := s.Mean.Float64()
	s.StdDev = sampleStdDev(ys, mean)
	if mean > 0 {
		s.CV = s.StdDev / mean
	}
	s.Stability = ClassifyCV(s.CV)

	if len(ys) >= 2 {
		s.Slope = olsSlope(ys)
		s.Trend = ClassifySlope(s.Slope, mean)
	}
	return s
}

// MovingAverage returns the centered rolling mean of values. A position is
// null unless its whole window lies inside the series.
func MovingAverage(values []decimal.Decimal, window int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	if window < 1 {
		return out
	}
	offset := (window - 1) / 2
	w := decimal.NewFromInt(int64(window))
	for i := range values {
		hi := i + offset
		lo := hi - window + 1
		if lo < 0 || hi >= len(values) {
			continue
		}
		sum := decimal.Zero
		for _, v := range values[lo : hi+1] {
			sum = sum.Add(v)
		}
		out[i] = decimal.NewNullDecimal(sum.Div(w))
	}
	return out
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i], _ = v.Float64()
	}
	return out
}

func sampleStdDev(ys []float64, mean float64) float64 {
	if len(ys) < 2 {
		return 0
	}
	var ss float64
	for _, y := range ys {
		ss += (y - mean) * (y - mean)
	}
	return math.Sqrt(ss / float64(len(ys)-1))
}

// olsSlope fits y = a + b*x over x = 0..n-1 and returns b.
func olsSlope(ys []float64) float64 {
	n := float64(len(ys))
	xMean := (n - 1) / 2
	var yMean float64
	for _, y := range ys {
		yMean += y
	}
	yMean /= n

	var num, den float64
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}
