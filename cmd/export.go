package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"salesdash/internal/logger"
	"salesdash/internal/sheets"
	"salesdash/internal/timeseries"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the dashboard tables to a Google Sheet",
	Long: `Compute every view for the selected period and write it to a Google Sheet,
one tab per table: KPIs, Cajeros, Alertas, Productos, Pareto and Serie.
Existing rows below the header are replaced.

Environment variables:
  GOOGLE_SHEET_URL               - default target sheet
  GOOGLE_APPLICATION_CREDENTIALS - path to service account JSON
  GOOGLE_CREDENTIALS             - service account JSON (alternative)`,
	Example: `  salesdash export --sheet-url "https://docs.google.com/spreadsheets/d/abc123/edit"
  salesdash export --start 2024-03-01 --end 2024-03-31 --granularity week`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("sheet-url", "", "Google Sheets URL (overrides GOOGLE_SHEET_URL)")
	exportCmd.Flags().StringP("granularity", "g", "day", "Bucket width of the Serie tab: day, week or month")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	gStr, _ := cmd.Flags().GetString("granularity")
	g, err := timeseries.ParseGranularity(gStr)
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, cfg, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	if sheetURL == "" {
		sheetURL = cfg.GoogleSheetURL
	}
	if sheetURL == "" {
		return fmt.Errorf("sheet URL is required: pass --sheet-url or set GOOGLE_SHEET_URL")
	}

	r, err := collectReports(ctx, svc, q, g)
	if err != nil {
		return err
	}

	sheetsService, err := sheets.NewSheetsService(ctx, sheetURL)
	if err != nil {
		return fmt.Errorf("failed to create sheets service: %w", err)
	}

	tabs := []struct {
		name  string
		table sheets.Table
	}{
		{"KPIs", sheets.KPITable(r.kpis)},
		{"Cajeros", sheets.CashierTable(r.recon)},
		{"Alertas", sheets.AlertTable(r.recon)},
		{"Productos", sheets.ProductTable(r.seg)},
		{"Pareto", sheets.ParetoTable(r.seg)},
		{"Serie", sheets.SeriesTable(r.series)},
	}
	for _, tab := range tabs {
		if err := sheetsService.WriteTable(ctx, tab.name, tab.table); err != nil {
			return fmt.Errorf("failed to write %s: %w", tab.name, err)
		}
		log.Info().Str("sheet", tab.name).Int("rows", len(tab.table.Rows)).Msg("Sheet updated")
	}

	printBanner("EXPORTACIÓN A GOOGLE SHEETS", r.kpis.Scope)
	for _, tab := range tabs {
		fmt.Printf("%-12s %6d filas\n", tab.name, len(tab.table.Rows))
	}
	fmt.Printf("\nHoja: %s\n", sheetURL)
	return nil
}
