package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"salesdash/internal/logger"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Audit till closures against counted cash",
	Long: `Reconcile the till closures of the selected period.

Closures whose cash difference exceeds OUTLIER_THRESHOLD in absolute value are
treated as capture errors and left out of the balance, the per-cashier rollup
and the alerts. They still count toward KPI net sales.

Alerts list closures that were modified after the fact or whose difference
exceeds ALERT_THRESHOLD. The line audit counts price overrides, discounts above
DISCOUNT_AUDIT_PCT, zero-amount sales and return tickets.`,
	Example: `  # Current month
  salesdash reconcile

  # One store, explicit period
  salesdash reconcile --store Norte --start 2024-03-01 --end 2024-03-31`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().Int("max-rows", 20, "Maximum rows printed per detail list")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("reconcile")

	maxRows, _ := cmd.Flags().GetInt("max-rows")
	if maxRows <= 0 {
		return fmt.Errorf("max-rows must be positive")
	}
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

	res, err := svc.Reconciliation(ctx, q)
	if err != nil {
		return missingExportHint(err)
	}
	r := res.Report

	log.Info().
		Int("closures", r.Closures).
		Int("excluded", r.ExcludedOutliers).
		Int("alerts", len(r.Alerts)).
		Msg("Reconciliation completed")

	if wantJSON(cmd) {
		return printJSON(res)
	}

	printBanner("CONCILIACIÓN DE CAJA", res.Scope)
	fmt.Printf("Balance de caja:        %14s\n", r.Balance.StringFixed(2))
	fmt.Printf("Cortes auditados:       %14d\n", r.Closures)
	fmt.Printf("Cortes modificados:     %14d\n", r.Modified)
	fmt.Printf("Retiros:                %14s\n", r.Withdrawals.StringFixed(2))
	fmt.Printf("Cortes atípicos:        %14d (excluidos)\n", r.ExcludedOutliers)

	fmt.Println()
	fmt.Println("=== CORTES POR CAJERO ===")
	for _, c := range r.Cashiers {
		fmt.Printf("%-14s %-18s %4d cortes %14s %12s  %s\n", c.Store, c.Cashier, c.Closures, c.NetSales.StringFixed(2), c.Difference.StringFixed(2), c.Status)
	}

	fmt.Println()
	fmt.Printf("=== ALERTAS (%d) ===\n", len(r.Alerts))
	for i, a := range r.Alerts {
		if i == maxRows {
			fmt.Printf("... %d más\n", len(r.Alerts)-maxRows)
			break
		}
		modified := ""
		if a.Modified {
			modified = "modificado por " + a.ModifiedBy
		}
		fmt.Printf("%s %-8s %-12s caja %-4s %-16s %12s  %s\n", a.Date, a.Time, a.Store, a.Register, a.Cashier, a.Difference.StringFixed(2), modified)
	}

	fmt.Println()
	fmt.Println("=== AUDITORÍA DE RENGLONES ===")
	fmt.Printf("Precio modificado:      %6d\n", r.Audit.PriceModified)
	fmt.Printf("Descuento alto:         %6d\n", r.Audit.HighDiscount)
	fmt.Printf("Ventas en cero:         %6d\n", r.Audit.ZeroAmountSales)
	fmt.Printf("Tickets con devolución: %6d\n", r.Audit.ReturnTickets)

	if len(r.TopClients) > 0 {
		fmt.Println()
		fmt.Println("=== MEJORES CLIENTES ===")
		for _, c := range r.TopClients {
			fmt.Printf("%-40s %14s\n", c.Client, c.Amount.StringFixed(2))
		}
	}
	return nil
}
