package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"salesdash/internal/kpi"
	"salesdash/internal/logger"
)

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Show the KPI panel against the same period a year earlier",
	Long: `Compute the headline indicators for the selected period: net sales, tickets,
average ticket, card/cash split, withdrawals, returns and invoiced total.
Each indicator is compared with the same calendar span one year earlier.

Net sales and payment splits come from the till-closure export; ticket and
return counts come from the sales export.`,
	Example: `  # Month to date
  salesdash kpis

  # Explicit period for one store
  salesdash kpis --start 2024-03-01 --end 2024-03-31 --store Centro

  # Machine-readable output
  salesdash kpis --json`,
	RunE: runKPIs,
}

func init() {
	rootCmd.AddCommand(kpisCmd)
}

func runKPIs(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("kpis")

	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, _, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.KPIs(ctx, q)
	if err != nil {
		return missingExportHint(err)
	}
	log.Info().Str("range", res.Scope.Range.String()).Msg("KPIs computed")

	if wantJSON(cmd) {
		return printJSON(res)
	}

	printBanner("INDICADORES CLAVE", res.Scope)
	r := res.Report
	printMetric("Venta neta", r.NetSales)
	printMetric("Tickets", r.Tickets)
	printMetric("Ticket promedio", r.AvgTicket)
	printMetric("Venta con tarjeta", r.CardSales)
	printMetric("% tarjeta", r.CardSharePct)
	printMetric("Venta en efectivo", r.CashSales)
	printMetric("Retiros", r.Withdrawals)
	printMetric("Fondo inicial", r.OpeningFloat)
	printMetric("Devoluciones ($)", r.ReturnAmount)
	printMetric("Tickets devueltos", r.ReturnCount)
	printMetric("% devoluciones", r.ReturnRatePct)
	printMetric("Venta diaria", r.DailyNetSales)
	printMetric("Tickets diarios", r.DailyTickets)
	fmt.Printf("%-22s %16s   (%d facturas vigentes)\n", "Total facturado", r.InvoicedTotal.StringFixed(2), r.InvoiceCount)
	fmt.Printf("%-22s %16d\n", "Días con corte", r.ClosureDays)
	return nil
}

func printMetric(label string, m kpi.Metric) {
	fmt.Printf("%-22s %16s %16s %+9.1f%%\n", label, m.Value.StringFixed(2), m.Prior.StringFixed(2), m.ChangePct)
}
