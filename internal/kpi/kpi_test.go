package kpi

import (
	"fmt"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/pkg/models"
)

var day = civil.Date{Year: 2024, Month: 3, Day: 1}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func saleLine(folio, amt string) models.TransactionLine {
	a := amount(amt)
	return models.TransactionLine{
		Folio: folio, Date: day, Kind: models.MovementSale,
		LineAmount: a, SignedAmount: decimal.NewNullDecimal(a),
	}
}

func returnLine(folio, amt string) models.TransactionLine {
	a := amount(amt)
	return models.TransactionLine{
		Folio: folio, Date: day, Kind: models.MovementReturn,
		LineAmount: a, SignedAmount: decimal.NewNullDecimal(a.Abs().Neg()),
	}
}

func TestChangePct(t *testing.T) {
	tests := []struct {
		name         string
		current, old string
		want         float64
	}{
		{"growth", "150", "100", 50},
		{"decline", "50", "100", -50},
		{"zero prior", "100", "0", 0},
		{"negative prior", "100", "-10", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ChangePct(amount(tt.current), amount(tt.old)), 1e-9)
		})
	}
}

func TestActiveInvoicesDedupesAndDropsCancelled(t *testing.T) {
	invoices := []models.Invoice{
		{Folio: "F1", Status: "VIGENTE", Total: amount("100")},
		{Folio: "F1", Status: "VIGENTE", Total: amount("100")},
		{Folio: "F2", Status: "CANCELADA", Total: amount("999")},
		{Folio: "F3", Status: "VIGENTE", Total: amount("50")},
	}
	totals := Summarize(Scope{Invoices: invoices})

	assert.True(t, totals.InvoicedTotal.Equal(amount("150")), totals.InvoicedTotal.String())
	assert.Equal(t, 2, totals.Invoices)
}

func TestTicketsAndReturns(t *testing.T) {
	var lines []models.TransactionLine
	for i := 0; i < 10; i++ {
		lines = append(lines, saleLine(fmt.Sprintf("T%d", i%3), "100"))
	}
	lines = append(lines, returnLine("T4", "100"))

	totals := Summarize(Scope{Lines: lines})

	assert.Equal(t, 3, totals.Tickets)
	assert.Equal(t, 1, totals.Returns)
	assert.True(t, totals.LineNetAmount.Equal(amount("900")))
	assert.True(t, totals.ReturnAmount.Equal(amount("-100")))
	assert.True(t, totals.ReturnAmount.LessThanOrEqual(decimal.Zero))
	assert.True(t, totals.ReturnRatePct().Round(2).Equal(amount("33.33")))
}

func TestZeroGuards(t *testing.T) {
	totals := Summarize(Scope{})

	assert.True(t, totals.AvgTicket().IsZero())
	assert.True(t, totals.CardSharePct().IsZero())
	assert.True(t, totals.ReturnRatePct().IsZero())
	assert.True(t, totals.DailyNetSales().IsZero())
}

func TestBuildReport(t *testing.T) {
	current := Scope{
		Lines: []models.TransactionLine{saleLine("A", "600"), saleLine("B", "400"), returnLine("R", "-50")},
		Closures: []models.TillClosure{
			{Date: day, NetSales: amount("600"), DebitSales: amount("100"), CreditSales: amount("200"), CashSales: amount("300"), OpeningFloat: amount("500")},
			{Date: day.AddDays(1), NetSales: amount("400"), Withdrawals: amount("80")},
		},
		Invoices: []models.Invoice{{Folio: "F1", Total: amount("116")}},
	}
	prior := Scope{
		Lines:    []models.TransactionLine{saleLine("Z", "800"), returnLine("Y", "25")},
		Closures: []models.TillClosure{{Date: civil.Date{Year: 2023, Month: 3, Day: 1}, NetSales: amount("800")}},
	}

	r := Build(current, prior)

	assert.True(t, r.NetSales.Value.Equal(amount("1000")))
	assert.InDelta(t, 25.0, r.NetSales.ChangePct, 1e-9)
	assert.True(t, r.Tickets.Value.Equal(amount("2")))
	assert.True(t, r.AvgTicket.Value.Equal(amount("500")))
	assert.True(t, r.CardSales.Value.Equal(amount("300")))
	assert.True(t, r.CardSharePct.Value.Equal(amount("30")))
	assert.True(t, r.CashSales.Value.Equal(amount("300")))
	assert.True(t, r.Withdrawals.Value.Equal(amount("80")))
	assert.True(t, r.OpeningFloat.Value.Equal(amount("500")))
	assert.True(t, r.DailyNetSales.Value.Equal(amount("500")))
	assert.True(t, r.DailyNetSales.Prior.Equal(amount("800")))
	assert.Equal(t, 2, r.ClosureDays)

	// magnitudes 50 vs 25
	require.True(t, r.ReturnAmount.Value.Equal(amount("-50")))
	assert.InDelta(t, 100.0, r.ReturnAmount.ChangePct, 1e-9)

	assert.True(t, r.InvoicedTotal.Equal(amount("116")))
	assert.Equal(t, 1, r.InvoiceCount)
}
