package services

import (
	"context"

	"cloud.google.com/go/civil"

	"salesdash/internal/activity"
	"salesdash/internal/kpi"
	"salesdash/internal/period"
	"salesdash/internal/reconciliation"
	"salesdash/internal/segmentation"
	"salesdash/internal/snapshot"
	"salesdash/internal/timeseries"
)

// Analytics answers dashboard queries over the latest export snapshot
type Analytics interface {
	// KPIs returns the headline indicators against the same span a year earlier
	KPIs(ctx context.Context, q Query) (*KPIResult, error)

	// TimeSeries resamples closure net sales at the given granularity
	TimeSeries(ctx context.Context, q Query, g timeseries.Granularity) (*TimeSeriesResult, error)

	// Reconciliation audits till closures and suspicious lines
	Reconciliation(ctx context.Context, q Query) (*ReconciliationResult, error)

	// Segmentation ranks products and builds the Pareto view
	Segmentation(ctx context.Context, q Query, opts segmentation.Options) (*SegmentationResult, error)

	// Activity profiles idle time and hourly ticket density
	Activity(ctx context.Context, q Query) (*ActivityResult, error)

	// Filters lists the stores and product lines present in the snapshot
	Filters(ctx context.Context) (*Filters, error)
}

// Query selects the period and the store/line filters. Zero dates select the
// default month-to-date range; empty filters select everything.
type Query struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
	Store string     `json:"store,omitempty"`
	Line  string     `json:"line,omitempty"`
}

// Scope describes the resolved query every result was computed for.
type Scope struct {
	Range    period.Range          `json:"range"`
	Prior    period.Range          `json:"prior"`
	Store    string                `json:"store,omitempty"`
	Line     string                `json:"line,omitempty"`
	Datasets snapshot.Availability `json:"datasets"`
}

// KPIResult is the KPI panel
type KPIResult struct {
	Scope  Scope      `json:"scope"`
	Report kpi.Report `json:"report"`
}

// TimeSeriesResult is the sales trend view
type TimeSeriesResult struct {
	Scope  Scope              `json:"scope"`
	Series *timeseries.Result `json:"series"`
}

// ReconciliationResult is the cash audit view
type ReconciliationResult struct {
	Scope  Scope                  `json:"scope"`
	Report *reconciliation.Report `json:"report"`
}

// SegmentationResult is the product view
type SegmentationResult struct {
	Scope  Scope                `json:"scope"`
	Result *segmentation.Result `json:"result"`
}

// ActivityResult is the counter activity view
type ActivityResult struct {
	Scope   Scope             `json:"scope"`
	Profile *activity.Profile `json:"profile"`
}

// Filters are the selectable filter values
type Filters struct {
	Stores   []string              `json:"stores"`
	Lines    []string              `json:"lines"`
	MinDate  civil.Date            `json:"min_date"`
	MaxDate  civil.Date            `json:"max_date"`
	Datasets snapshot.Availability `json:"datasets"`
}
