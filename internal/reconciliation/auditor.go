// Package reconciliation audits till closures against counted cash and flags
// suspicious transaction lines.
package reconciliation

import (
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"salesdash/internal/normalize"
	"salesdash/pkg/models"
)

// Options holds the audit thresholds.
type Options struct {
	// OutlierThreshold excludes closures whose |difference| is larger.
	OutlierThreshold decimal.Decimal
	// AlertThreshold flags closures whose |difference| is larger.
	AlertThreshold decimal.Decimal
	// DiscountThreshold flags lines discounted by more than this percent.
	DiscountThreshold decimal.Decimal
	// TopClients limits the client ranking.
	TopClients int
}

// DefaultOptions returns the thresholds used by the stores.
func DefaultOptions() Options {
	return Options{
		OutlierThreshold:  decimal.NewFromInt(30000),
		AlertThreshold:    decimal.NewFromInt(50),
		DiscountThreshold: decimal.NewFromInt(15),
		TopClients:        10,
	}
}

// FilterOutliers keeps closures with |difference| <= threshold.
func FilterOutliers(closures []models.TillClosure, threshold decimal.Decimal) []models.TillClosure {
	var out []models.TillClosure
	for i := range closures {
		if closures[i].Difference.Abs().LessThanOrEqual(threshold) {
			out = append(out, closures[i])
		}
	}
	return out
}

// Reconcile builds the reconciliation report. Closures are outlier-filtered here;
// the line counters use every line in scope.
func Reconcile(closures []models.TillClosure, lines []models.TransactionLine, opts Options) *Report {
	kept := FilterOutliers(closures, opts.OutlierThreshold)

	r := &Report{
		ExcludedOutliers: len(closures) - len(kept),
		Cashiers:         RollupCashiers(kept),
		Alerts:           Alerts(kept, opts.AlertThreshold),
		Audit:            AuditLines(lines, opts.DiscountThreshold),
		SalesByCashier:   SalesByCashier(lines),
		TopClients:       TopClients(lines, opts.TopClients),
		Returns:          ReturnDetails(lines),
	}

	folios := make(map[string]struct{})
	for i := range kept {
		c := &kept[i]
		r.Balance = r.Balance.Add(c.Difference)
		r.Withdrawals = r.Withdrawals.Add(c.Withdrawals)
		folios[c.Folio] = struct{}{}
		if c.Modified {
			r.Modified++
		}
	}
	r.Closures = len(folios)

	return r
}

// RollupCashiers groups closures by (store, cashier), ordered by store then
// cashier.
func RollupCashiers(closures []models.TillClosure) []CashierRollup {
	type key struct{ store, cashier string }
	groups := make(map[key]*CashierRollup)
	for i := range closures {
		c := &closures[i]
		k := key{c.Store, c.Cashier}
		g, ok := groups[k]
		if !ok {
			g = &CashierRollup{Store: c.Store, Cashier: c.Cashier}
			groups[k] = g
		}
		g.Closures++
		g.NetSales = g.NetSales.Add(c.NetSales)
		g.Difference = g.Difference.Add(c.Difference)
	}

	out := make([]CashierRollup, 0, len(groups))
	for _, g := range groups {
		g.Status = Surplus
		if g.Difference.IsNegative() {
			g.Status = Shortage
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Store != out[j].Store {
			return out[i].Store < out[j].Store
		}
		return out[i].Cashier < out[j].Cashier
	})
	return out
}

// Alerts returns modified closures and closures whose |difference| exceeds
// threshold, most recent first.
func Alerts(closures []models.TillClosure, threshold decimal.Decimal) []Alert {
	var out []Alert
	for i := range closures {
		c := &closures[i]
		if !c.Modified && !c.Difference.Abs().GreaterThan(threshold) {
			continue
		}
		out = append(out, Alert{
			Date:       c.Date,
			Time:       c.Time,
			Store:      c.Store,
			Register:   c.Register,
			Cashier:    c.Cashier,
			NetSales:   c.NetSales,
			Difference: c.Difference,
			Modified:   c.Modified,
			ModifiedBy: c.ModifiedBy,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].Date, out[i].Time, out[j].Date, out[j].Time)
	})
	return out
}

// newerFirst orders by date, then time of day, both descending. Rows whose
// time cannot be read go after the timed rows of the same day.
func newerFirst(ad civil.Date, at string, bd civil.Date, bt string) bool {
	if ad != bd {
		return ad.After(bd)
	}
	return clockOffset(at) > clockOffset(bt)
}

func clockOffset(raw string) time.Duration {
	offset, ok := normalize.ParseTimeOfDay(raw)
	if !ok {
		return -1
	}
	return offset
}

// AuditLines counts the suspicious lines.
func AuditLines(lines []models.TransactionLine, discountThreshold decimal.Decimal) Audit {
	var a Audit
	returns := make(map[string]struct{})
	for i := range lines {
		l := &lines[i]
		if l.PriceModified {
			a.PriceModified++
		}
		if l.DiscountPercent.GreaterThan(discountThreshold) {
			a.HighDiscount++
		}
		if l.IsSale() && l.Signed().IsZero() {
			a.ZeroAmountSales++
		}
		if l.IsReturn() {
			returns[l.Folio] = struct{}{}
		}
	}
	a.ReturnTickets = len(returns)
	return a
}

// SalesByCashier sums signed line amounts per (store, cashier), largest first.
func SalesByCashier(lines []models.TransactionLine) []CashierSales {
	type key struct{ store, cashier string }
	sums := make(map[key]decimal.Decimal)
	for i := range lines {
		l := &lines[i]
		if l.Cashier == "" {
			continue
		}
		k := key{l.Store, l.Cashier}
		sums[k] = sums[k].Add(l.Signed())
	}

	out := make([]CashierSales, 0, len(sums))
	for k, v := range sums {
		out = append(out, CashierSales{Store: k.store, Cashier: k.cashier, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Store+out[i].Cashier < out[j].Store+out[j].Cashier
	})
	return out
}

// TopClients ranks clients by signed line amount and keeps the first n.
func TopClients(lines []models.TransactionLine, n int) []ClientSales {
	sums := make(map[string]decimal.Decimal)
	for i := range lines {
		client := strings.TrimSpace(lines[i].Client)
		if client == "" {
			continue
		}
		sums[client] = sums[client].Add(lines[i].Signed())
	}

	out := make([]ClientSales, 0, len(sums))
	for client, v := range sums {
		out = append(out, ClientSales{Client: client, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Client < out[j].Client
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ReturnDetails lists returned lines, most recent first.
func ReturnDetails(lines []models.TransactionLine) []ReturnDetail {
	var out []ReturnDetail
	for i := range lines {
		l := &lines[i]
		if !l.IsReturn() {
			continue
		}
		out = append(out, ReturnDetail{
			Date:     l.Date,
			Time:     l.Time,
			Store:    l.Store,
			Cashier:  l.Cashier,
			Folio:    l.Folio,
			Article:  l.Article,
			Quantity: l.Quantity,
			Amount:   l.Signed(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].Date, out[i].Time, out[j].Date, out[j].Time)
	})
	return out
}
