package segmentation

import (
	"sort"

	"github.com/shopspring/decimal"

	"salesdash/pkg/models"
)

// Catalog summarizes the assortment sold in scope.
type Catalog struct {
	DistinctSKUs   int             `json:"distinct_skus"`
	ItemsPerTicket decimal.Decimal `json:"items_per_ticket"`
	LeadingLine    string          `json:"leading_line"`
}

// GroupSales is revenue for one product line or store.
type GroupSales struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Result is the full segmentation view.
type Result struct {
	Options      Options      `json:"options"`
	TotalTickets int          `json:"total_tickets"`
	Ranked       []Product    `json:"ranked"`
	Products     []Product    `json:"products"`
	Pareto       Pareto       `json:"pareto"`
	Catalog      Catalog      `json:"catalog"`
	ByLine       []GroupSales `json:"by_line"`
	ByStore      []GroupSales `json:"by_store"`
}

// Segment runs the whole analysis over lines.
func Segment(lines []models.TransactionLine, opts Options) *Result {
	if opts.Metric == "" {
		opts.Metric = ByAmount
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}

	products, tickets := Rollup(lines)
	byLine := GroupBy(lines, func(l *models.TransactionLine) string { return l.Line })

	catalog := Catalog{
		DistinctSKUs:   len(products),
		ItemsPerTicket: ItemsPerTicket(lines),
	}
	if len(byLine) > 0 {
		catalog.LeadingLine = byLine[0].Name
	}

	return &Result{
		Options:      opts,
		TotalTickets: tickets,
		Ranked:       Rank(products, opts),
		Products:     products,
		Pareto:       BuildPareto(products),
		Catalog:      catalog,
		ByLine:       byLine,
		ByStore:      GroupBy(lines, func(l *models.TransactionLine) string { return l.Store }),
	}
}

// ItemsPerTicket is the mean quantity summed per folio.
func ItemsPerTicket(lines []models.TransactionLine) decimal.Decimal {
	perTicket := make(map[string]decimal.Decimal)
	for i := range lines {
		perTicket[lines[i].Folio] = perTicket[lines[i].Folio].Add(lines[i].Quantity)
	}
	if len(perTicket) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, q := range perTicket {
		sum = sum.Add(q)
	}
	return sum.Div(decimal.NewFromInt(int64(len(perTicket))))
}

// GroupBy sums signed amounts per key, largest first. Lines with an empty
// key are skipped.
func GroupBy(lines []models.TransactionLine, key func(*models.TransactionLine) string) []GroupSales {
	sums := make(map[string]decimal.Decimal)
	for i := range lines {
		k := key(&lines[i])
		if k == "" {
			continue
		}
		sums[k] = sums[k].Add(lines[i].Signed())
	}
	out := make([]GroupSales, 0, len(sums))
	for k, v := range sums {
		out = append(out, GroupSales{Name: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
