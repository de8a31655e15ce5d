package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"salesdash/internal/analytics"
	"salesdash/internal/config"
	"salesdash/internal/logger"
	"salesdash/internal/normalize"
	"salesdash/internal/reconciliation"
	"salesdash/internal/segmentation"
	"salesdash/internal/snapshot"
	"salesdash/internal/source"
	"salesdash/internal/timeseries"
	"salesdash/pkg/services"
)

// buildService wires the configured export sources into an analytics
// service. The returned cleanup closes any remote clients.
func buildService(ctx context.Context) (*analytics.Service, *config.Config, func(), error) {
	const op = "buildService"
	log := logger.WithComponent("setup")

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	cleanup := func() {}
	var sources snapshot.Sources
	if cfg.SourceBucket != "" {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%s: failed to create storage client: %w", op, err)
		}
		cleanup = func() { _ = client.Close() }
		sources = snapshot.Sources{
			Sales:    source.NewGCSSource(client, cfg.SourceBucket, cfg.SourcePrefix, cfg.SalesFile),
			Invoices: source.NewGCSSource(client, cfg.SourceBucket, cfg.SourcePrefix, cfg.InvoicesFile),
			Closures: source.NewGCSSource(client, cfg.SourceBucket, cfg.SourcePrefix, cfg.ClosuresFile),
		}
		log.Info().Str("bucket", cfg.SourceBucket).Str("prefix", cfg.SourcePrefix).Msg("Reading exports from Cloud Storage")
	} else {
		sources = snapshot.Sources{
			Sales:    source.NewFileSource(cfg.DataDir, cfg.SalesFile),
			Invoices: source.NewFileSource(cfg.DataDir, cfg.InvoicesFile),
			Closures: source.NewFileSource(cfg.DataDir, cfg.ClosuresFile),
		}
		log.Debug().Str("dir", cfg.DataDir).Msg("Reading exports from local directory")
	}

	loader := snapshot.NewLoader(sources, normalize.NewReader(cfg.DateLayouts))
	svc := analytics.NewService(loader, analytics.Options{
		Reconciliation: reconciliationOptions(cfg),
		Location:       cfg.Location(),
	})
	return svc, cfg, cleanup, nil
}

func reconciliationOptions(cfg *config.Config) reconciliation.Options {
	opts := reconciliation.DefaultOptions()
	opts.OutlierThreshold = decimal.NewFromFloat(cfg.OutlierThreshold)
	opts.AlertThreshold = decimal.NewFromFloat(cfg.AlertThreshold)
	opts.DiscountThreshold = decimal.NewFromFloat(cfg.DiscountAuditPct)
	return opts
}

// queryFromFlags reads the persistent period and filter flags.
func queryFromFlags(cmd *cobra.Command) (services.Query, error) {
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	store, _ := cmd.Flags().GetString("store")
	line, _ := cmd.Flags().GetString("line")

	q := services.Query{Store: strings.TrimSpace(store), Line: strings.TrimSpace(line)}
	var err error
	if q.Start, err = parseFlagDate(startStr); err != nil {
		return q, fmt.Errorf("invalid start date format. Use YYYY-MM-DD: %w", err)
	}
	if q.End, err = parseFlagDate(endStr); err != nil {
		return q, fmt.Errorf("invalid end date format. Use YYYY-MM-DD: %w", err)
	}
	return q, nil
}

func parseFlagDate(s string) (civil.Date, error) {
	if strings.TrimSpace(s) == "" {
		return civil.Date{}, nil
	}
	return civil.ParseDate(strings.TrimSpace(s))
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printBanner(title string, scope services.Scope) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%s\n", title)
	fmt.Printf("Periodo: %s   Comparativo: %s\n", scope.Range, scope.Prior)
	if scope.Store != "" || scope.Line != "" {
		fmt.Printf("Sucursal: %s   Línea: %s\n", orAll(scope.Store), orAll(scope.Line))
	}
	fmt.Println(strings.Repeat("=", 80))
	if !scope.Datasets.Closures {
		fmt.Println("Aviso: no se encontró el reporte de cortes; las cifras de caja quedan en cero.")
	}
	if !scope.Datasets.Invoices {
		fmt.Println("Aviso: no se encontró el reporte de facturas.")
	}
}

func orAll(s string) string {
	if s == "" {
		return "Todas"
	}
	return s
}

// missingExportHint turns a missing sales export into an actionable error.
func missingExportHint(err error) error {
	if normalize.IsDatasetMissing(err) {
		return fmt.Errorf("sales export not found, run the export pipeline first: %w", err)
	}
	return err
}

// reports bundles every view of one query, as used by export and summary.
type reports struct {
	kpis   *services.KPIResult
	series *services.TimeSeriesResult
	recon  *services.ReconciliationResult
	seg    *services.SegmentationResult
}

func collectReports(ctx context.Context, svc services.Analytics, q services.Query, g timeseries.Granularity) (*reports, error) {
	var r reports
	var err error
	if r.kpis, err = svc.KPIs(ctx, q); err != nil {
		return nil, missingExportHint(err)
	}
	if r.series, err = svc.TimeSeries(ctx, q, g); err != nil {
		return nil, err
	}
	if r.recon, err = svc.Reconciliation(ctx, q); err != nil {
		return nil, err
	}
	if r.seg, err = svc.Segmentation(ctx, q, segmentation.Options{}); err != nil {
		return nil, err
	}
	return &r, nil
}
