package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/internal/analytics"
	"salesdash/internal/kpi"
	"salesdash/internal/normalize"
	"salesdash/internal/segmentation"
	"salesdash/internal/timeseries"
	"salesdash/pkg/services"
)

type fakeAnalytics struct {
	err       error
	lastQuery services.Query
	lastGran  timeseries.Granularity
	lastSeg   segmentation.Options
	panicKPIs bool
}

func (f *fakeAnalytics) KPIs(ctx context.Context, q services.Query) (*services.KPIResult, error) {
	if f.panicKPIs {
		panic("boom")
	}
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return &services.KPIResult{Report: kpi.Report{NetSales: kpi.Compare(decimal.NewFromInt(1500), decimal.NewFromInt(1200))}}, nil
}

func (f *fakeAnalytics) TimeSeries(ctx context.Context, q services.Query, g timeseries.Granularity) (*services.TimeSeriesResult, error) {
	f.lastQuery, f.lastGran = q, g
	return &services.TimeSeriesResult{}, f.err
}

func (f *fakeAnalytics) Reconciliation(ctx context.Context, q services.Query) (*services.ReconciliationResult, error) {
	f.lastQuery = q
	return &services.ReconciliationResult{}, f.err
}

func (f *fakeAnalytics) Segmentation(ctx context.Context, q services.Query, opts segmentation.Options) (*services.SegmentationResult, error) {
	f.lastQuery, f.lastSeg = q, opts
	return &services.SegmentationResult{}, f.err
}

func (f *fakeAnalytics) Activity(ctx context.Context, q services.Query) (*services.ActivityResult, error) {
	f.lastQuery = q
	return &services.ActivityResult{}, f.err
}

func (f *fakeAnalytics) Filters(ctx context.Context) (*services.Filters, error) {
	return &services.Filters{Stores: []string{"Centro"}}, f.err
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	srv := NewServer(&fakeAnalytics{}, Config{})
	rec := get(t, srv.Router(), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestKPIsParsesQuery(t *testing.T) {
	fake := &fakeAnalytics{}
	srv := NewServer(fake, Config{})

	rec := get(t, srv.Router(), "/api/kpis?start=2024-03-01&end=2024-03-31&store=Centro&line=OBRA")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	assert.Equal(t, services.Query{
		Start: civil.Date{Year: 2024, Month: time.March, Day: 1},
		End:   civil.Date{Year: 2024, Month: time.March, Day: 31},
		Store: "Centro",
		Line:  "OBRA",
	}, fake.lastQuery)

	var body struct {
		Report struct {
			NetSales struct {
				Value     string  `json:"value"`
				ChangePct float64 `json:"change_pct"`
			} `json:"net_sales"`
		} `json:"report"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "1500", body.Report.NetSales.Value)
	assert.InDelta(t, 25.0, body.Report.NetSales.ChangePct, 1e-9)
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := NewServer(&fakeAnalytics{}, Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestBadParams(t *testing.T) {
	srv := NewServer(&fakeAnalytics{}, Config{})

	tests := []struct {
		name string
		path string
	}{
		{"bad start", "/api/kpis?start=03/01/2024"},
		{"bad end", "/api/reconciliation?end=tomorrow"},
		{"bad granularity", "/api/timeseries?granularity=hour"},
		{"bad metric", "/api/segmentation?metric=margin"},
		{"bad top", "/api/segmentation?top=ten"},
		{"bad asc", "/api/segmentation?asc=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv.Router(), tt.path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, codeBadRequest, decodeError(t, rec).Code)
		})
	}
}

func TestSegmentationOptions(t *testing.T) {
	fake := &fakeAnalytics{}
	srv := NewServer(fake, Config{})

	rec := get(t, srv.Router(), "/api/segmentation?metric=units&top=5&asc=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, segmentation.Options{Metric: segmentation.ByUnits, TopN: 5, Ascending: true}, fake.lastSeg)

	rec = get(t, srv.Router(), "/api/timeseries?granularity=semana")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, timeseries.Week, fake.lastGran)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing export", normalize.WrapLoadError("Snapshot", "sales", normalize.ErrDatasetMissing), http.StatusNotFound, codeDatasetMissing},
		{"invalid query", analytics.ErrInvalidQuery, http.StatusBadRequest, codeBadRequest},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, codeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(&fakeAnalytics{err: tt.err}, Config{})
			rec := get(t, srv.Router(), "/api/activity")

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestPanicIsRecovered(t *testing.T) {
	srv := NewServer(&fakeAnalytics{panicKPIs: true}, Config{})
	rec := get(t, srv.Router(), "/api/kpis")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, codeInternal, decodeError(t, rec).Code)
}
