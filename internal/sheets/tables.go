package sheets

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"salesdash/internal/kpi"
	"salesdash/pkg/services"
)

// Table is a header row plus data rows, ready for the Sheets API
type Table struct {
	Headers []string
	Rows    [][]interface{}
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func pct(f float64) string { return fmt.Sprintf("%.2f", f) }

func date(d civil.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// KPITable lays out the KPI panel with one indicator per row
func KPITable(res *services.KPIResult) Table {
	r := res.Report
	metrics := []struct {
		name string
		m    kpi.Metric
	}{
		{"Venta neta", r.NetSales},
		{"Tickets", r.Tickets},
		{"Ticket promedio", r.AvgTicket},
		{"Venta con tarjeta", r.CardSales},
		{"% tarjeta", r.CardSharePct},
		{"Venta en efectivo", r.CashSales},
		{"Retiros", r.Withdrawals},
		{"Fondo inicial", r.OpeningFloat},
		{"Importe devoluciones", r.ReturnAmount},
		{"Tickets devueltos", r.ReturnCount},
		{"% devoluciones", r.ReturnRatePct},
		{"Venta diaria", r.DailyNetSales},
		{"Tickets diarios", r.DailyTickets},
		{"Importe neto de renglones", r.LineNetAmount},
	}

	t := Table{Headers: []string{"Indicador", "Periodo", "Año anterior", "Variación %", "Desde", "Hasta"}}
	for _, m := range metrics {
		t.Rows = append(t.Rows, []interface{}{
			m.name, money(m.m.Value), money(m.m.Prior), pct(m.m.ChangePct),
			date(res.Scope.Range.Start), date(res.Scope.Range.End),
		})
	}
	t.Rows = append(t.Rows,
		[]interface{}{"Total facturado", money(r.InvoicedTotal), "", "", date(res.Scope.Range.Start), date(res.Scope.Range.End)},
		[]interface{}{"Facturas", r.InvoiceCount, "", "", date(res.Scope.Range.Start), date(res.Scope.Range.End)},
	)
	return t
}

// CashierTable lists the per-cashier reconciliation rollup
func CashierTable(res *services.ReconciliationResult) Table {
	t := Table{Headers: []string{"Sucursal", "Cajero", "Cortes", "Venta neta", "Diferencia", "Estado"}}
	for _, c := range res.Report.Cashiers {
		t.Rows = append(t.Rows, []interface{}{
			c.Store, c.Cashier, c.Closures, money(c.NetSales), money(c.Difference), string(c.Status),
		})
	}
	return t
}

// AlertTable lists closures flagged for review
func AlertTable(res *services.ReconciliationResult) Table {
	t := Table{Headers: []string{"Fecha", "Hora", "Sucursal", "Caja", "Cajero", "Venta neta", "Diferencia", "Modificado", "Usuario"}}
	for _, a := range res.Report.Alerts {
		modified := "NO"
		if a.Modified {
			modified = "SI"
		}
		t.Rows = append(t.Rows, []interface{}{
			date(a.Date), a.Time, a.Store, a.Register, a.Cashier,
			money(a.NetSales), money(a.Difference), modified, a.ModifiedBy,
		})
	}
	return t
}

// ProductTable lists the ranked products
func ProductTable(res *services.SegmentationResult) Table {
	t := Table{Headers: []string{"Clave", "Artículo", "Línea", "Importe", "Unidades", "Tickets", "Penetración %"}}
	for _, p := range res.Result.Ranked {
		t.Rows = append(t.Rows, []interface{}{
			p.SKU, p.Article, p.Line, money(p.Amount), p.Units.String(), p.Tickets, pct(p.PenetrationPct),
		})
	}
	return t
}

// ParetoTable lists every product with its cumulative revenue share
func ParetoTable(res *services.SegmentationResult) Table {
	t := Table{Headers: []string{"Clave", "Artículo", "Importe", "% acumulado", "Núcleo 80%"}}
	for _, row := range res.Result.Pareto.Rows {
		core := "NO"
		if row.InCoreSet {
			core = "SI"
		}
		t.Rows = append(t.Rows, []interface{}{row.SKU, row.Article, money(row.Amount), pct(row.CumulativePct), core})
	}
	return t
}

// SeriesTable lists the merged current/prior series
func SeriesTable(res *services.TimeSeriesResult) Table {
	t := Table{Headers: []string{"Fecha", "Día", "Venta", "Año anterior", "Promedio móvil"}}
	for _, p := range res.Series.Points {
		t.Rows = append(t.Rows, []interface{}{
			date(p.Date), p.Weekday, nullMoney(p.Current), nullMoney(p.Prior), nullMoney(p.MovingAvg),
		})
	}
	return t
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return money(d.Decimal)
}
