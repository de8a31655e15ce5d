package normalize

import (
	"errors"
	"fmt"
)

var (
	// ErrDatasetMissing is returned when an export file does not exist at its
	// configured location. Callers surface it as "please regenerate the export"
	// rather than as a failure.
	ErrDatasetMissing = errors.New("dataset missing")

	// ErrEmptyExport is returned when an export has no header row.
	ErrEmptyExport = errors.New("export has no header row")
)

// LoadError wraps a failure to read or decode one export.
type LoadError struct {
	// Op is the operation that failed (e.g., "ReadSales").
	Op string

	// Dataset names the export (sales, invoices, closures).
	Dataset string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("normalize: %s %s failed: %v", e.Op, e.Dataset, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *LoadError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapLoadError wraps an error as a LoadError if it isn't already one.
func WrapLoadError(op, dataset string, err error) error {
	if err == nil {
		return nil
	}

	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return err
	}

	return &LoadError{Op: op, Dataset: dataset, Err: err}
}

// IsDatasetMissing reports whether err signals an absent export.
func IsDatasetMissing(err error) bool {
	return errors.Is(err, ErrDatasetMissing)
}
