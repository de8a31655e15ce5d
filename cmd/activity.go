package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show idle time between sales and the busiest hours",
	Long: `Measure counter activity from the sales lines: minutes between consecutive
lines of the same store and day (gaps longer than three hours are ignored),
the peak and quietest hour by distinct tickets, and a weekday by hour grid.`,
	RunE: runActivity,
}

func init() {
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, args []string) error {
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

	res, err := svc.Activity(ctx, q)
	if err != nil {
		return missingExportHint(err)
	}

	if wantJSON(cmd) {
		return printJSON(res)
	}

	p := res.Profile
	printBanner("ACTIVIDAD EN MOSTRADOR", res.Scope)
	if p.Timed == 0 {
		fmt.Println("No hay renglones con hora legible en el periodo.")
		return nil
	}
	fmt.Printf("Tiempo entre ventas: %.1f min   Brecha máxima: %.0f min\n", p.MeanGapMinutes, p.MaxGapMinutes)
	fmt.Printf("Hora pico: %d:00 hrs   Hora de baja venta: %d:00 hrs\n", p.PeakHour, p.LowHour)

	fmt.Println()
	fmt.Println("=== TICKETS POR HORA ===")
	for _, h := range p.Hours {
		fmt.Printf("%02d:00 %6d\n", h.Hour, h.Tickets)
	}
	return nil
}
