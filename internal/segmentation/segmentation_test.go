package segmentation

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/pkg/models"
)

func line(folio, sku string, qty, amount int64) models.TransactionLine {
	a := decimal.NewFromInt(amount)
	return models.TransactionLine{
		Folio: folio, SKU: sku, Article: "Art " + sku, Line: "L-" + sku[:1], Store: "Centro",
		Quantity: decimal.NewFromInt(qty), Kind: models.MovementSale,
		LineAmount: a, SignedAmount: decimal.NewNullDecimal(a),
	}
}

func TestRollupPenetration(t *testing.T) {
	lines := []models.TransactionLine{
		line("T1", "A1", 2, 100),
		line("T1", "B1", 1, 50),
		line("T2", "A1", 1, 50),
		line("T3", "C1", 5, 10),
		line("T1", "A1", 1, 25),
	}

	products, tickets := Rollup(lines)
	require.Equal(t, 3, tickets)
	require.Len(t, products, 3)

	a := products[0]
	assert.Equal(t, "A1", a.SKU)
	assert.True(t, a.Amount.Equal(decimal.NewFromInt(175)))
	assert.True(t, a.Units.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, 2, a.Tickets)
	assert.InDelta(t, 66.666, a.PenetrationPct, 1e-2)
}

func TestRollupNoTickets(t *testing.T) {
	products, tickets := Rollup(nil)
	assert.Zero(t, tickets)
	assert.Empty(t, products)
}

func TestRankByMetric(t *testing.T) {
	products := []Product{
		{SKU: "A", Amount: decimal.NewFromInt(100), Units: decimal.NewFromInt(1), Tickets: 5},
		{SKU: "B", Amount: decimal.NewFromInt(300), Units: decimal.NewFromInt(9), Tickets: 1},
		{SKU: "C", Amount: decimal.NewFromInt(200), Units: decimal.NewFromInt(9), Tickets: 3},
	}

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"amount desc", Options{Metric: ByAmount}, []string{"B", "C", "A"}},
		{"amount asc", Options{Metric: ByAmount, Ascending: true}, []string{"A", "C", "B"}},
		{"units tie broken by sku", Options{Metric: ByUnits}, []string{"B", "C", "A"}},
		{"tickets top 2", Options{Metric: ByTickets, TopN: 2}, []string{"A", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(products, tt.opts)
			var skus []string
			for _, p := range got {
				skus = append(skus, p.SKU)
			}
			assert.Equal(t, tt.want, skus)
		})
	}
}

func TestRankDefaultsToFifteen(t *testing.T) {
	var products []Product
	for i := 0; i < 20; i++ {
		products = append(products, Product{SKU: fmt.Sprintf("S%02d", i), Amount: decimal.NewFromInt(int64(i))})
	}
	assert.Len(t, Rank(products, Options{TopN: 0}), DefaultTopN)
	assert.Len(t, Rank(products, Options{TopN: -3}), DefaultTopN)
}

func TestParetoMonotonicAndMinimalPrefix(t *testing.T) {
	amounts := []int64{500, 200, 100, 80, 60, 40, 20}
	var products []Product
	for i, a := range amounts {
		products = append(products, Product{SKU: fmt.Sprintf("P%d", len(amounts)-i), Amount: decimal.NewFromInt(a)})
	}

	p := BuildPareto(products)
	require.Len(t, p.Rows, len(amounts))

	for i := 1; i < len(p.Rows); i++ {
		assert.GreaterOrEqual(t, p.Rows[i].CumulativePct, p.Rows[i-1].CumulativePct)
	}
	assert.InDelta(t, 100.0, p.Rows[len(p.Rows)-1].CumulativePct, 1e-9)

	// 500/1000 = 50%, 700/1000 = 70%, 800/1000 = 80%, 880/1000 = 88%
	assert.Equal(t, 3, p.CoreSetSize)
	for i, row := range p.Rows {
		assert.Equal(t, i < 3, row.InCoreSet, "row %d", i)
	}
	assert.InDelta(t, 3.0/7.0*100, p.ConcentrationPct, 1e-9)
}

func TestParetoNonPositiveTotal(t *testing.T) {
	p := BuildPareto([]Product{
		{SKU: "A", Amount: decimal.NewFromInt(-10)},
		{SKU: "B", Amount: decimal.NewFromInt(5)},
	})
	for _, row := range p.Rows {
		assert.Zero(t, row.CumulativePct)
		assert.False(t, row.InCoreSet)
	}
	assert.Zero(t, p.ConcentrationPct)
}

func TestSegment(t *testing.T) {
	lines := []models.TransactionLine{
		line("T1", "A1", 2, 100),
		line("T1", "B1", 1, 50),
		line("T2", "A2", 4, 30),
	}
	lines[2].Store = "Norte"

	res := Segment(lines, Options{})

	assert.Equal(t, ByAmount, res.Options.Metric)
	assert.Equal(t, DefaultTopN, res.Options.TopN)
	assert.Equal(t, 2, res.TotalTickets)
	assert.Equal(t, 3, res.Catalog.DistinctSKUs)
	assert.True(t, res.Catalog.ItemsPerTicket.Equal(decimal.NewFromFloat(3.5)))
	assert.Equal(t, "L-A", res.Catalog.LeadingLine)
	require.Len(t, res.ByStore, 2)
	assert.Equal(t, "Centro", res.ByStore[0].Name)
	assert.Equal(t, "A1", res.Ranked[0].SKU)
}
