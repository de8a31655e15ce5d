// Package kpi computes the headline sales indicators for a period and its
// year-ago comparison.
package kpi

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"salesdash/pkg/models"
)

var hundred = decimal.NewFromInt(100)

// Metric is a value paired with its comparison-period value.
type Metric struct {
	Value     decimal.Decimal `json:"value"`
	Prior     decimal.Decimal `json:"prior"`
	ChangePct float64         `json:"change_pct"`
}

// Compare builds a Metric. The variance is zero unless the prior value is
// strictly positive.
func Compare(current, prior decimal.Decimal) Metric {
	return Metric{
		Value:     current,
		Prior:     prior,
		ChangePct: ChangePct(current, prior),
	}
}

// ChangePct returns (current - prior) / prior * 100, or 0 when prior <= 0.
func ChangePct(current, prior decimal.Decimal) float64 {
	if !prior.IsPositive() {
		return 0
	}
	f, _ := current.Sub(prior).Div(prior).Mul(hundred).Float64()
	return f
}

// Scope is the filtered data for one period.
type Scope struct {
	Lines    []models.TransactionLine
	Closures []models.TillClosure
	Invoices []models.Invoice
}

// Totals are the raw sums of one period.
type Totals struct {
	NetSales      decimal.Decimal
	CardSales     decimal.Decimal
	CashSales     decimal.Decimal
	Withdrawals   decimal.Decimal
	OpeningFloat  decimal.Decimal
	ReturnAmount  decimal.Decimal
	LineNetAmount decimal.Decimal
	InvoicedTotal decimal.Decimal
	Tickets       int
	Returns       int
	Invoices      int
	ClosureDays   int
}

// Summarize reduces a scope to its totals.
func Summarize(s Scope) Totals {
	var t Totals

	days := make(map[civil.Date]struct{})
	for i := range s.Closures {
		c := &s.Closures[i]
		t.NetSales = t.NetSales.Add(c.NetSales)
		t.CardSales = t.CardSales.Add(c.CardSales())
		t.CashSales = t.CashSales.Add(c.CashSales)
		t.Withdrawals = t.Withdrawals.Add(c.Withdrawals)
		t.OpeningFloat = t.OpeningFloat.Add(c.OpeningFloat)
		if !c.Date.IsZero() {
			days[c.Date] = struct{}{}
		}
	}
	t.ClosureDays = len(days)

	saleFolios := make(map[string]struct{})
	returnFolios := make(map[string]struct{})
	for i := range s.Lines {
		l := &s.Lines[i]
		t.LineNetAmount = t.LineNetAmount.Add(l.Signed())
		switch l.Kind {
		case models.MovementSale:
			saleFolios[l.Folio] = struct{}{}
		case models.MovementReturn:
			returnFolios[l.Folio] = struct{}{}
			t.ReturnAmount = t.ReturnAmount.Add(l.Signed())
		}
	}
	t.Tickets = len(saleFolios)
	t.Returns = len(returnFolios)

	active := ActiveInvoices(s.Invoices)
	for i := range active {
		t.InvoicedTotal = t.InvoicedTotal.Add(active[i].Total)
	}
	t.Invoices = len(active)

	return t
}

// ActiveInvoices drops cancelled invoices and keeps the first row per folio.
func ActiveInvoices(invoices []models.Invoice) []models.Invoice {
	seen := make(map[string]struct{}, len(invoices))
	var out []models.Invoice
	for i := range invoices {
		inv := invoices[i]
		if inv.IsCancelled() {
			continue
		}
		if _, dup := seen[inv.Folio]; dup {
			continue
		}
		seen[inv.Folio] = struct{}{}
		out = append(out, inv)
	}
	return out
}

// AvgTicket is net sales over ticket count.
func (t Totals) AvgTicket() decimal.Decimal {
	return safeDiv(t.NetSales, decimal.NewFromInt(int64(t.Tickets)))
}

// CardSharePct is card sales as a share of net sales.
func (t Totals) CardSharePct() decimal.Decimal {
	if !t.NetSales.IsPositive() {
		return decimal.Zero
	}
	return t.CardSales.Div(t.NetSales).Mul(hundred)
}

// ReturnRatePct is distinct return tickets over sale tickets.
func (t Totals) ReturnRatePct() decimal.Decimal {
	return safeDiv(decimal.NewFromInt(int64(t.Returns)), decimal.NewFromInt(int64(t.Tickets))).Mul(hundred)
}

func (t Totals) days() decimal.Decimal {
	if t.ClosureDays < 1 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(t.ClosureDays))
}

// DailyNetSales averages net sales over distinct closure days.
func (t Totals) DailyNetSales() decimal.Decimal {
	return t.NetSales.Div(t.days())
}

// DailyTickets averages tickets over distinct closure days.
func (t Totals) DailyTickets() decimal.Decimal {
	return decimal.NewFromInt(int64(t.Tickets)).Div(t.days())
}

func safeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}
