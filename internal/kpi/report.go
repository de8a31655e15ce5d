package kpi

import "github.com/shopspring/decimal"

// Report is the KPI panel for a period against the same span a year earlier.
type Report struct {
	NetSales      Metric `json:"net_sales"`
	Tickets       Metric `json:"tickets"`
	AvgTicket     Metric `json:"avg_ticket"`
	CardSales     Metric `json:"card_sales"`
	CardSharePct  Metric `json:"card_share_pct"`
	CashSales     Metric `json:"cash_sales"`
	Withdrawals   Metric `json:"withdrawals"`
	OpeningFloat  Metric `json:"opening_float"`
	ReturnAmount  Metric `json:"return_amount"`
	ReturnCount   Metric `json:"return_count"`
	ReturnRatePct Metric `json:"return_rate_pct"`
	DailyNetSales Metric `json:"daily_net_sales"`
	DailyTickets  Metric `json:"daily_tickets"`
	LineNetAmount Metric `json:"line_net_amount"`

	// Invoices are reported for the current period only.
	InvoicedTotal decimal.Decimal `json:"invoiced_total"`
	InvoiceCount  int             `json:"invoice_count"`

	ClosureDays int `json:"closure_days"`
}

// Build computes every KPI for the current scope against the prior scope.
func Build(current, prior Scope) Report {
	cur := Summarize(current)
	prev := Summarize(prior)

	r := Report{
		NetSales:      Compare(cur.NetSales, prev.NetSales),
		Tickets:       Compare(count(cur.Tickets), count(prev.Tickets)),
		AvgTicket:     Compare(cur.AvgTicket(), prev.AvgTicket()),
		CardSales:     Compare(cur.CardSales, prev.CardSales),
		CardSharePct:  Compare(cur.CardSharePct(), prev.CardSharePct()),
		CashSales:     Compare(cur.CashSales, prev.CashSales),
		Withdrawals:   Compare(cur.Withdrawals, prev.Withdrawals),
		OpeningFloat:  Compare(cur.OpeningFloat, prev.OpeningFloat),
		ReturnCount:   Compare(count(cur.Returns), count(prev.Returns)),
		ReturnRatePct: Compare(cur.ReturnRatePct(), prev.ReturnRatePct()),
		DailyNetSales: Compare(cur.DailyNetSales(), prev.DailyNetSales()),
		DailyTickets:  Compare(cur.DailyTickets(), prev.DailyTickets()),
		LineNetAmount: Compare(cur.LineNetAmount, prev.LineNetAmount),
		InvoicedTotal: cur.InvoicedTotal,
		InvoiceCount:  cur.Invoices,
		ClosureDays:   cur.ClosureDays,
	}

	// Returns are negative; the variance compares magnitudes.
	r.ReturnAmount = Metric{
		Value:     cur.ReturnAmount,
		Prior:     prev.ReturnAmount,
		ChangePct: ChangePct(cur.ReturnAmount.Abs(), prev.ReturnAmount.Abs()),
	}

	return r
}

func count(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
