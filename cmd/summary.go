package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"salesdash/internal/insights"
	"salesdash/internal/logger"
	"salesdash/internal/timeseries"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Write an executive briefing of the period with an OpenAI model",
	Long: `Condense the KPI panel, the weekly trend, the cash reconciliation and the top
products into a digest and ask an OpenAI chat model for a short written
briefing in Spanish.

Environment variables:
  OPENAI_API_KEY - required
  OPENAI_MODEL   - chat model (default gpt-4o-mini)`,
	Example: `  salesdash summary
  salesdash summary --start 2024-03-01 --end 2024-03-31 --store Centro`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().Duration("timeout", 2*time.Minute, "Overall timeout for the model call")
}

func runSummary(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("summary")

	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	svc, cfg, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	r, err := collectReports(ctx, svc, q, timeseries.Week)
	if err != nil {
		return err
	}

	digest := insights.BuildDigest(r.kpis, r.series, r.recon, r.seg)
	narrator := insights.NewNarrator(openai.NewClient(cfg.OpenAIAPIKey), insights.DefaultConfig(cfg.OpenAIModel))

	text, err := narrator.Summarize(ctx, digest)
	if err != nil {
		return fmt.Errorf("failed to generate summary: %w", err)
	}
	log.Info().Int("chars", len(text)).Msg("Summary generated")

	if wantJSON(cmd) {
		return printJSON(map[string]any{"scope": r.kpis.Scope, "digest": digest, "summary": text})
	}

	printBanner("RESUMEN EJECUTIVO", r.kpis.Scope)
	fmt.Println(text)
	return nil
}
