// Package snapshot keeps the normalized exports in memory and re-parses an
// export only when its source identity changes.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"salesdash/internal/logger"
	"salesdash/internal/normalize"
	"salesdash/internal/source"
)

const (
	datasetSales    = "sales"
	datasetInvoices = "invoices"
	datasetClosures = "closures"
)

// Sources groups the three exports. Invoices and Closures may be nil when a
// deployment does not produce them.
type Sources struct {
	Sales    source.Source
	Invoices source.Source
	Closures source.Source
}

// Availability reports which exports were present when the snapshot was taken.
type Availability struct {
	Sales    bool `json:"sales"`
	Invoices bool `json:"invoices"`
	Closures bool `json:"closures"`
}

// Snapshot is an immutable view over the latest normalized exports. Absent
// exports are nil.
type Snapshot struct {
	Sales    *normalize.Sales
	Invoices *normalize.Invoices
	Closures *normalize.Closures
	TakenAt  time.Time
}

// Availability reports which datasets are present.
func (s *Snapshot) Availability() Availability {
	return Availability{
		Sales:    s.Sales != nil,
		Invoices: s.Invoices != nil,
		Closures: s.Closures != nil,
	}
}

type entry struct {
	key   string
	value any
}

// Loader builds snapshots, caching each dataset under its source identity.
type Loader struct {
	sources Sources
	reader  *normalize.Reader

	mu    sync.Mutex
	cache map[string]entry
	group singleflight.Group

	log zerolog.Logger
}

// NewLoader creates a loader over the given sources.
func NewLoader(sources Sources, reader *normalize.Reader) *Loader {
	return &Loader{
		sources: sources,
		reader:  reader,
		cache:   make(map[string]entry),
		log:     logger.WithComponent("snapshot"),
	}
}

// Snapshot returns the current view of all exports. Only datasets whose
// identity changed since the previous call are parsed again.
func (l *Loader) Snapshot(ctx context.Context) (*Snapshot, error) {
	const op = "Snapshot"

	sales, err := load(ctx, l, datasetSales, l.sources.Sales, l.reader.ReadSales)
	if err != nil {
		l.forget(datasetSales)
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		// An unreadable sales export is reported like an absent one.
		return nil, fmt.Errorf("%s: %w: %w", op, normalize.ErrDatasetMissing, err)
	}
	invoices, err := load(ctx, l, datasetInvoices, l.sources.Invoices, l.reader.ReadInvoices)
	if err != nil {
		if invoices, err = degrade[normalize.Invoices](ctx, l, datasetInvoices, err); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	closures, err := load(ctx, l, datasetClosures, l.sources.Closures, l.reader.ReadClosures)
	if err != nil {
		if closures, err = degrade[normalize.Closures](ctx, l, datasetClosures, err); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &Snapshot{
		Sales:    sales,
		Invoices: invoices,
		Closures: closures,
		TakenAt:  time.Now(),
	}, nil
}

// degrade treats an optional export that failed to load as absent. Only a
// cancelled context still fails the snapshot.
func degrade[T any](ctx context.Context, l *Loader, name string, err error) (*T, error) {
	if ctx.Err() != nil {
		return nil, err
	}
	l.forget(name)
	l.log.Warn().Err(err).Str("dataset", name).Msg("Export unreadable, continuing without it")
	return nil, nil
}

func (l *Loader) cached(name, key string) (any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.cache[name]
	if !ok || e.key != key {
		return nil, false
	}
	return e.value, true
}

func (l *Loader) store(name, key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[name] = entry{key: key, value: value}
}

func (l *Loader) forget(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, name)
}

// load returns the parsed dataset for src, or nil when the export is absent.
func load[T any](ctx context.Context, l *Loader, name string, src source.Source, parse func(io.Reader) (*T, error)) (*T, error) {
	if src == nil {
		return nil, nil
	}

	id, err := src.Stat(ctx)
	if errors.Is(err, source.ErrNotFound) {
		l.forget(name)
		l.log.Warn().Str("dataset", name).Msg("Export not found")
		return nil, nil
	}
	if err != nil {
		return nil, normalize.WrapLoadError("Stat", name, err)
	}

	key := id.Key()
	if v, ok := l.cached(name, key); ok {
		l.log.Debug().Str("dataset", name).Str("key", key).Msg("Snapshot cache hit")
		return v.(*T), nil
	}

	v, err, shared := l.group.Do(name+"|"+key, func() (any, error) {
		rc, err := src.Open(ctx)
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		started := time.Now()
		parsed, err := parse(rc)
		if err != nil {
			return nil, err
		}
		l.store(name, key, parsed)
		l.log.Info().
			Str("dataset", name).
			Str("source", id.Name).
			Dur("took", time.Since(started)).
			Msg("Export loaded")
		return parsed, nil
	})
	if errors.Is(err, source.ErrNotFound) {
		l.forget(name)
		return nil, nil
	}
	if err != nil {
		return nil, normalize.WrapLoadError("Load", name, err)
	}
	if shared {
		l.log.Debug().Str("dataset", name).Msg("Joined in-flight load")
	}
	return v.(*T), nil
}
