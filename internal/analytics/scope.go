package analytics

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"

	"salesdash/internal/kpi"
	"salesdash/internal/period"
	"salesdash/internal/snapshot"
	"salesdash/pkg/models"
	"salesdash/pkg/services"
)

type scoped struct {
	meta    services.Scope
	current kpi.Scope
	prior   kpi.Scope
}

func lineDate(l *models.TransactionLine) civil.Date { return l.Date }
func closureDate(c *models.TillClosure) civil.Date  { return c.Date }
func invoiceDate(i *models.Invoice) civil.Date      { return i.Date }

func salesBounds(snap *snapshot.Snapshot) (first, last civil.Date) {
	return period.Bounds(snap.Sales.Lines, lineDate)
}

// scope resolves the query period against the sales data bounds and splits
// every dataset into current and year-ago scopes with the same filters.
func (s *Service) scope(ctx context.Context, q services.Query) (*scoped, error) {
	snap, err := s.sales(ctx)
	if err != nil {
		return nil, err
	}

	first, last := salesBounds(snap)
	today := period.Today(s.opts.Now(), s.opts.Location)
	rng, err := period.Resolve(q.Start, q.End, today, first, last)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	prior := rng.Prior()

	avail := snap.Availability()
	if !avail.Closures || !avail.Invoices {
		s.log.Debug().
			Bool("closures", avail.Closures).
			Bool("invoices", avail.Invoices).
			Msg("Optional exports missing, sections degrade to zero")
	}

	sc := &scoped{
		meta: services.Scope{
			Range:    rng,
			Prior:    prior,
			Store:    q.Store,
			Line:     q.Line,
			Datasets: avail,
		},
	}
	sc.current.Lines = filterLines(snap.Sales.Lines, rng, q)
	sc.prior.Lines = filterLines(snap.Sales.Lines, prior, q)

	if snap.Closures != nil {
		sc.current.Closures = filterClosures(snap.Closures.Rows, rng, q.Store)
		sc.prior.Closures = filterClosures(snap.Closures.Rows, prior, q.Store)
	}
	if snap.Invoices != nil {
		store := q.Store
		if !snap.Invoices.Features.Store {
			store = ""
		}
		sc.current.Invoices = filterInvoices(snap.Invoices.Rows, rng, store)
		sc.prior.Invoices = filterInvoices(snap.Invoices.Rows, prior, store)
	}
	return sc, nil
}

func filterLines(lines []models.TransactionLine, r period.Range, q services.Query) []models.TransactionLine {
	out := period.Filter(lines, r, lineDate)
	if q.Store == "" && q.Line == "" {
		return out
	}
	kept := out[:0]
	for _, l := range out {
		if q.Store != "" && l.Store != q.Store {
			continue
		}
		if q.Line != "" && l.Line != q.Line {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

func filterClosures(closures []models.TillClosure, r period.Range, store string) []models.TillClosure {
	out := period.Filter(closures, r, closureDate)
	if store == "" {
		return out
	}
	kept := out[:0]
	for _, c := range out {
		if c.Store == store {
			kept = append(kept, c)
		}
	}
	return kept
}

func filterInvoices(invoices []models.Invoice, r period.Range, store string) []models.Invoice {
	out := period.Filter(invoices, r, invoiceDate)
	if store == "" {
		return out
	}
	kept := out[:0]
	for _, inv := range out {
		if inv.Store == store {
			kept = append(kept, inv)
		}
	}
	return kept
}
