package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"salesdash/internal/timeseries"
)

var timeseriesCmd = &cobra.Command{
	Use:   "timeseries",
	Short: "Show the sales trend by day, week or month",
	Long: `Resample till-closure net sales into day, week (Monday start) or month
buckets, overlay the same buckets one year earlier and describe the series:
volatility class from the coefficient of variation and trend from the
least-squares slope.`,
	Example: `  salesdash timeseries --granularity week
  salesdash timeseries --granularity mes --start 2024-01-01 --end 2024-06-30`,
	RunE: runTimeSeries,
}

func init() {
	rootCmd.AddCommand(timeseriesCmd)

	timeseriesCmd.Flags().StringP("granularity", "g", "day", "Bucket width: day, week or month")
}

func runTimeSeries(cmd *cobra.Command, args []string) error {
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
	svc, _, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.TimeSeries(ctx, q, g)
	if err != nil {
		return missingExportHint(err)
	}

	if wantJSON(cmd) {
		return printJSON(res)
	}

	printBanner(fmt.Sprintf("TENDENCIA DE VENTAS (%s)", g), res.Scope)
	fmt.Printf("%-12s %-10s %14s %14s %14s\n", "Fecha", "Día", "Venta", "Año anterior", "Prom. móvil")
	for _, p := range res.Series.Points {
		fmt.Printf("%-12s %-10s %14s %14s %14s\n", p.Date, p.Weekday, nullable(p.Current.Valid, p.Current.Decimal.StringFixed(2)),
			nullable(p.Prior.Valid, p.Prior.Decimal.StringFixed(2)), nullable(p.MovingAvg.Valid, p.MovingAvg.Decimal.StringFixed(2)))
	}

	s := res.Series.Stats
	fmt.Println()
	fmt.Printf("Periodos: %d   Mín: %s   Máx: %s   Promedio: %s\n", s.Buckets, s.Min.StringFixed(2), s.Max.StringFixed(2), s.Mean.StringFixed(2))
	fmt.Printf("Desv. estándar: %.2f   CV: %.3f (%s)   Pendiente: %.2f (%s)\n", s.StdDev, s.CV, s.Stability, s.Slope, s.Trend)
	return nil
}

func nullable(valid bool, s string) string {
	if !valid {
		return "-"
	}
	return s
}
