package normalize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"salesdash/internal/logger"
	"salesdash/pkg/models"
)

// Sales is a normalized sales export with its capability descriptor.
type Sales struct {
	Lines    []models.TransactionLine
	Features SalesFeatures
}

// Invoices is a normalized invoice export.
type Invoices struct {
	Rows     []models.Invoice
	Features InvoiceFeatures
}

// Closures is a normalized till-closure export.
type Closures struct {
	Rows     []models.TillClosure
	Features ClosureFeatures
}

// Reader decodes the three POS CSV exports
type Reader struct {
	layouts []string
	log     zerolog.Logger
}

// NewReader creates a reader. An empty layouts slice selects DefaultDateLayouts.
func NewReader(layouts []string) *Reader {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	return &Reader{
		layouts: layouts,
		log:     logger.WithComponent("normalize"),
	}
}

// ReadSales decodes the sales export
func (r *Reader) ReadSales(src io.Reader) (*Sales, error) {
	const op = "ReadSales"

	header, rows, err := readAll(src)
	if err != nil {
		return nil, WrapLoadError(op, "sales", err)
	}

	features := DetectSalesFeatures(header)
	lines := make([]models.TransactionLine, 0, len(rows))
	undated := 0
	for _, row := range rows {
		line := DeriveLine(header, features, row, r.layouts)
		if line.Date.IsZero() {
			undated++
		}
		lines = append(lines, line)
	}

	r.log.Info().
		Int("rows", len(lines)).
		Int("undated_rows", undated).
		Bool("movement_kind", features.MovementKind).
		Bool("computed_amount", features.ComputedAmount).
		Msg("Sales export normalized")

	return &Sales{Lines: lines, Features: features}, nil
}

// ReadInvoices decodes the invoice export
func (r *Reader) ReadInvoices(src io.Reader) (*Invoices, error) {
	const op = "ReadInvoices"

	header, rows, err := readAll(src)
	if err != nil {
		return nil, WrapLoadError(op, "invoices", err)
	}

	features := DetectInvoiceFeatures(header)
	invoices := make([]models.Invoice, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, DeriveInvoice(header, row, r.layouts))
	}

	r.log.Info().
		Int("rows", len(invoices)).
		Bool("store_column", features.Store).
		Msg("Invoice export normalized")

	return &Invoices{Rows: invoices, Features: features}, nil
}

// ReadClosures decodes the till-closure export
func (r *Reader) ReadClosures(src io.Reader) (*Closures, error) {
	const op = "ReadClosures"

	header, rows, err := readAll(src)
	if err != nil {
		return nil, WrapLoadError(op, "closures", err)
	}

	features := DetectClosureFeatures(header)
	closures := make([]models.TillClosure, 0, len(rows))
	for _, row := range rows {
		closures = append(closures, DeriveClosure(header, features, row, r.layouts))
	}

	r.log.Info().
		Int("rows", len(closures)).
		Bool("difference_column", features.Difference).
		Msg("Closure export normalized")

	return &Closures{Rows: closures, Features: features}, nil
}

// readAll reads the header and every data row, skipping blank lines.
func readAll(src io.Reader) (Header, [][]string, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Header{}, nil, ErrEmptyExport
	}
	if err != nil {
		return Header{}, nil, fmt.Errorf("read header: %w", err)
	}
	header := NewHeader(first)

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Header{}, nil, fmt.Errorf("read row: %w", err)
		}
		if isBlank(row) {
			continue
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
