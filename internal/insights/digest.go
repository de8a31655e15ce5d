package insights

import (
	"fmt"
	"strings"

	"salesdash/pkg/services"
)

// Digest is the compact set of figures the narrator writes about
type Digest struct {
	Period         string
	Store          string
	NetSales       string
	NetSalesChange float64
	Tickets        string
	AvgTicket      string
	CardSharePct   string
	ReturnRatePct  string
	InvoicedTotal  string

	Trend     string
	Stability string

	CashBalance   string
	Alerts        int
	Excluded      int
	PriceModified int
	HighDiscount  int

	TopProducts      []string
	ConcentrationPct float64
	LeadingLine      string
}

// BuildDigest extracts the figures from the analytics results. Any result may
// be nil when its section is unavailable.
func BuildDigest(k *services.KPIResult, ts *services.TimeSeriesResult, rec *services.ReconciliationResult, seg *services.SegmentationResult) Digest {
	var d Digest
	if k != nil {
		r := k.Report
		d.Period = k.Scope.Range.String()
		d.Store = k.Scope.Store
		d.NetSales = r.NetSales.Value.StringFixed(2)
		d.NetSalesChange = r.NetSales.ChangePct
		d.Tickets = r.Tickets.Value.String()
		d.AvgTicket = r.AvgTicket.Value.StringFixed(2)
		d.CardSharePct = r.CardSharePct.Value.StringFixed(1)
		d.ReturnRatePct = r.ReturnRatePct.Value.StringFixed(1)
		d.InvoicedTotal = r.InvoicedTotal.StringFixed(2)
	}
	if ts != nil && ts.Series != nil {
		d.Trend = string(ts.Series.Stats.Trend)
		d.Stability = string(ts.Series.Stats.Stability)
	}
	if rec != nil && rec.Report != nil {
		d.CashBalance = rec.Report.Balance.StringFixed(2)
		d.Alerts = len(rec.Report.Alerts)
		d.Excluded = rec.Report.ExcludedOutliers
		d.PriceModified = rec.Report.Audit.PriceModified
		d.HighDiscount = rec.Report.Audit.HighDiscount
	}
	if seg != nil && seg.Result != nil {
		for i, p := range seg.Result.Ranked {
			if i == 5 {
				break
			}
			d.TopProducts = append(d.TopProducts, fmt.Sprintf("%s (%s)", p.Article, p.Amount.StringFixed(2)))
		}
		d.ConcentrationPct = seg.Result.Pareto.ConcentrationPct
		d.LeadingLine = seg.Result.Catalog.LeadingLine
	}
	return d
}

func (d Digest) prompt() string {
	var b strings.Builder
	store := d.Store
	if store == "" {
		store = "todas las sucursales"
	}

	fmt.Fprintf(&b, "Periodo: %s (%s)\n", d.Period, store)
	fmt.Fprintf(&b, "Venta neta: $%s (%+.1f%% vs. año anterior)\n", d.NetSales, d.NetSalesChange)
	fmt.Fprintf(&b, "Tickets: %s, ticket promedio: $%s\n", d.Tickets, d.AvgTicket)
	fmt.Fprintf(&b, "Pago con tarjeta: %s%%, tasa de devolución: %s%%\n", d.CardSharePct, d.ReturnRatePct)
	fmt.Fprintf(&b, "Total facturado: $%s\n", d.InvoicedTotal)
	if d.Trend != "" {
		fmt.Fprintf(&b, "Tendencia de ventas: %s, estabilidad: %s\n", d.Trend, d.Stability)
	}
	if d.CashBalance != "" {
		fmt.Fprintf(&b, "Balance de caja: $%s, cortes con alerta: %d, cortes atípicos excluidos: %d\n", d.CashBalance, d.Alerts, d.Excluded)
		fmt.Fprintf(&b, "Renglones con precio modificado: %d, con descuento alto: %d\n", d.PriceModified, d.HighDiscount)
	}
	if len(d.TopProducts) > 0 {
		fmt.Fprintf(&b, "Productos principales: %s\n", strings.Join(d.TopProducts, "; "))
		fmt.Fprintf(&b, "El %.1f%% de los productos genera el 80%% de la venta. Línea líder: %s\n", d.ConcentrationPct, d.LeadingLine)
	}
	return b.String()
}
