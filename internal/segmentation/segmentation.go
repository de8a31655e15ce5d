// Package segmentation ranks products and measures how concentrated revenue
// is across the catalog.
package segmentation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"salesdash/pkg/models"
)

// ErrUnknownMetric is returned by ParseMetric.
var ErrUnknownMetric = errors.New("unknown ranking metric")

// Metric selects the ranking column.
type Metric string

const (
	ByAmount  Metric = "AMOUNT"
	ByUnits   Metric = "UNITS"
	ByTickets Metric = "TICKETS"
)

// DefaultTopN is used when Options.TopN is not positive.
const DefaultTopN = 15

const paretoCutoff = 80

var hundred = decimal.NewFromInt(100)

// ParseMetric accepts amount/units/tickets in any case.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AMOUNT", "IMPORTE":
		return ByAmount, nil
	case "UNITS", "UNIDADES":
		return ByUnits, nil
	case "TICKETS", "FRECUENCIA":
		return ByTickets, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Options controls the ranking.
type Options struct {
	Metric    Metric
	TopN      int
	Ascending bool
}

// Product is the rollup of one SKU.
type Product struct {
	SKU            string          `json:"sku"`
	Article        string          `json:"article"`
	Line           string          `json:"line"`
	Amount         decimal.Decimal `json:"amount"`
	Units          decimal.Decimal `json:"units"`
	Tickets        int             `json:"tickets"`
	PenetrationPct float64         `json:"penetration_pct"`
}

// ParetoRow is a product with its cumulative share of revenue.
type ParetoRow struct {
	SKU           string          `json:"sku"`
	Article       string          `json:"article"`
	Amount        decimal.Decimal `json:"amount"`
	CumulativePct float64         `json:"cumulative_pct"`
	InCoreSet     bool            `json:"in_core_set"`
}

// Pareto is the 80/20 view of the catalog.
type Pareto struct {
	Rows             []ParetoRow `json:"rows"`
	CoreSetSize      int         `json:"core_set_size"`
	ConcentrationPct float64     `json:"concentration_pct"`
}

// Rollup aggregates lines per SKU. Article and line names come from the first
// line seen for each SKU. totalTickets is the number of distinct folios among
// all lines, the penetration denominator.
func Rollup(lines []models.TransactionLine) (products []Product, totalTickets int) {
	type acc struct {
		p       *Product
		tickets map[string]struct{}
	}
	bySKU := make(map[string]*acc)
	var order []string
	allTickets := make(map[string]struct{})

	for i := range lines {
		l := &lines[i]
		allTickets[l.Folio] = struct{}{}
		a, ok := bySKU[l.SKU]
		if !ok {
			a = &acc{
				p:       &Product{SKU: l.SKU, Article: l.Article, Line: l.Line},
				tickets: make(map[string]struct{}),
			}
			bySKU[l.SKU] = a
			order = append(order, l.SKU)
		}
		a.p.Amount = a.p.Amount.Add(l.Signed())
		a.p.Units = a.p.Units.Add(l.Quantity)
		a.tickets[l.Folio] = struct{}{}
	}

	totalTickets = len(allTickets)
	products = make([]Product, 0, len(order))
	for _, sku := range order {
		a := bySKU[sku]
		a.p.Tickets = len(a.tickets)
		if totalTickets > 0 {
			a.p.PenetrationPct = float64(a.p.Tickets) / float64(totalTickets) * 100
		}
		products = append(products, *a.p)
	}
	return products, totalTickets
}

// Rank sorts products by the selected metric and keeps the first N. Ties are
// broken by SKU so the order is deterministic.
func Rank(products []Product, opts Options) []Product {
	n := opts.TopN
	if n <= 0 {
		n = DefaultTopN
	}
	ranked := append([]Product(nil), products...)
	sort.SliceStable(ranked, func(i, j int) bool {
		c := compare(ranked[i], ranked[j], opts.Metric)
		if c == 0 {
			return ranked[i].SKU < ranked[j].SKU
		}
		if opts.Ascending {
			return c < 0
		}
		return c > 0
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func compare(a, b Product, m Metric) int {
	switch m {
	case ByUnits:
		return a.Units.Cmp(b.Units)
	case ByTickets:
		switch {
		case a.Tickets < b.Tickets:
			return -1
		case a.Tickets > b.Tickets:
			return 1
		}
		return 0
	default:
		return a.Amount.Cmp(b.Amount)
	}
}

// BuildPareto orders products by amount and marks the leading rows whose
// cumulative share stays within 80%.
func BuildPareto(products []Product) Pareto {
	sorted := append([]Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Amount.Cmp(sorted[j].Amount); c != 0 {
			return c > 0
		}
		return sorted[i].SKU < sorted[j].SKU
	})

	total := decimal.Zero
	for _, p := range sorted {
		total = total.Add(p.Amount)
	}

	var out Pareto
	running := decimal.Zero
	inPrefix := true
	for _, p := range sorted {
		running = running.Add(p.Amount)
		var cum float64
		if total.IsPositive() {
			cum, _ = running.Div(total).Mul(hundred).Float64()
		}
		row := ParetoRow{SKU: p.SKU, Article: p.Article, Amount: p.Amount, CumulativePct: cum}
		if inPrefix && total.IsPositive() && cum <= paretoCutoff {
			row.InCoreSet = true
			out.CoreSetSize++
		} else {
			inPrefix = false
		}
		out.Rows = append(out.Rows, row)
	}
	if len(sorted) > 0 {
		out.ConcentrationPct = float64(out.CoreSetSize) / float64(len(sorted)) * 100
	}
	return out
}
