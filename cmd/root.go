package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"salesdash/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "salesdash",
	Short: "Sales analytics over the point-of-sale exports",
	Long: `salesdash reads the sales, invoice and till-closure exports produced by the
point-of-sale pipeline and computes the store dashboard: KPIs against the same
period a year earlier, sales trends, cash reconciliation, product segmentation
and counter activity.

Every command accepts the same period and filter flags. Without --start/--end
the period is month-to-date, clipped to the dates present in the sales export.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("salesdash executed")

		fmt.Println("Welcome to salesdash!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.PersistentFlags().String("start", "", "Period start (YYYY-MM-DD, default: first of the month)")
	rootCmd.PersistentFlags().String("end", "", "Period end (YYYY-MM-DD, default: today or latest data date)")
	rootCmd.PersistentFlags().String("store", "", "Only this store (SUCURSAL)")
	rootCmd.PersistentFlags().String("line", "", "Only this product line (LINEA)")
	rootCmd.PersistentFlags().Bool("json", false, "Print the result as JSON")
}
