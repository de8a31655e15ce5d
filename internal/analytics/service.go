// Package analytics answers dashboard queries by scoping the latest export
// snapshot to a period and handing the scoped records to each calculator.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"salesdash/internal/activity"
	"salesdash/internal/kpi"
	"salesdash/internal/logger"
	"salesdash/internal/normalize"
	"salesdash/internal/reconciliation"
	"salesdash/internal/segmentation"
	"salesdash/internal/snapshot"
	"salesdash/internal/timeseries"
	"salesdash/pkg/services"
)

// ErrInvalidQuery marks a query the caller must correct.
var ErrInvalidQuery = errors.New("invalid query")

// SnapshotProvider supplies the current export snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*snapshot.Snapshot, error)
}

// Options configures the service.
type Options struct {
	Reconciliation reconciliation.Options
	Location       *time.Location
	// Now overrides the clock; used by tests.
	Now func() time.Time
}

// Service implements services.Analytics.
type Service struct {
	snapshots SnapshotProvider
	opts      Options
	log       zerolog.Logger
}

var _ services.Analytics = (*Service)(nil)

// NewService creates the analytics service.
func NewService(snapshots SnapshotProvider, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		snapshots: snapshots,
		opts:      opts,
		log:       logger.WithComponent("analytics"),
	}
}

// KPIs computes the KPI panel.
func (s *Service) KPIs(ctx context.Context, q services.Query) (*services.KPIResult, error) {
	const op = "KPIs"

	sc, err := s.scope(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := kpi.Build(sc.current, sc.prior)
	s.logFor(ctx).Debug().
		Str("range", sc.meta.Range.String()).
		Str("net_sales", report.NetSales.Value.StringFixed(2)).
		Msg("KPIs computed")

	return &services.KPIResult{Scope: sc.meta, Report: report}, nil
}

// TimeSeries resamples closure net sales.
func (s *Service) TimeSeries(ctx context.Context, q services.Query, g timeseries.Granularity) (*services.TimeSeriesResult, error) {
	const op = "TimeSeries"

	sc, err := s.scope(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	series := timeseries.Build(sc.current.Closures, sc.prior.Closures, g, sc.meta.Range)
	return &services.TimeSeriesResult{Scope: sc.meta, Series: series}, nil
}

// Reconciliation audits the scoped closures and lines.
func (s *Service) Reconciliation(ctx context.Context, q services.Query) (*services.ReconciliationResult, error) {
	const op = "Reconciliation"

	sc, err := s.scope(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := reconciliation.Reconcile(sc.current.Closures, sc.current.Lines, s.opts.Reconciliation)
	if report.ExcludedOutliers > 0 {
		s.logFor(ctx).Info().
			Int("excluded", report.ExcludedOutliers).
			Msg("Closures excluded from reconciliation as outliers")
	}
	return &services.ReconciliationResult{Scope: sc.meta, Report: report}, nil
}

// Segmentation ranks the scoped products.
func (s *Service) Segmentation(ctx context.Context, q services.Query, opts segmentation.Options) (*services.SegmentationResult, error) {
	const op = "Segmentation"

	sc, err := s.scope(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &services.SegmentationResult{
		Scope:  sc.meta,
		Result: segmentation.Segment(sc.current.Lines, opts),
	}, nil
}

// Activity profiles the scoped lines.
func (s *Service) Activity(ctx context.Context, q services.Query) (*services.ActivityResult, error) {
	const op = "Activity"

	sc, err := s.scope(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &services.ActivityResult{
		Scope:   sc.meta,
		Profile: activity.Build(sc.current.Lines),
	}, nil
}

// Filters lists the stores and lines found in the sales export, plus the
// data date bounds.
func (s *Service) Filters(ctx context.Context) (*services.Filters, error) {
	const op = "Filters"

	snap, err := s.sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stores := make(map[string]struct{})
	lines := make(map[string]struct{})
	for i := range snap.Sales.Lines {
		l := &snap.Sales.Lines[i]
		if l.Store != "" {
			stores[l.Store] = struct{}{}
		}
		if l.Line != "" {
			lines[l.Line] = struct{}{}
		}
	}

	first, last := salesBounds(snap)
	return &services.Filters{
		Stores:   sortedKeys(stores),
		Lines:    sortedKeys(lines),
		MinDate:  first,
		MaxDate:  last,
		Datasets: snap.Availability(),
	}, nil
}

func (s *Service) sales(ctx context.Context) (*snapshot.Snapshot, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Sales == nil {
		return nil, normalize.WrapLoadError("Snapshot", "sales", normalize.ErrDatasetMissing)
	}
	return snap, nil
}

func (s *Service) logFor(ctx context.Context) *zerolog.Logger {
	l := logger.FromContext(ctx, "analytics")
	return &l
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
