package dataset

import (
	"errors"
	"fmt"
)

// ErrNonFinite marks a channel value that parsed as NaN or ±Inf.
var ErrNonFinite = errors.New("value is not finite")

// MissingInputError indicates that no file matched the data pattern.
type MissingInputError struct {
	Dir     string
	Pattern string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("no data files matching %q found in %s", e.Pattern, e.Dir)
}

// ParseError reports a malformed data row. Line is 1-based; Column is the
// 0-based field index, or -1 when the row shape itself is wrong.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column >= 0 {
		return fmt.Sprintf("line %d, field %d: %v", e.Line, e.Column+1, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyDatasetError indicates the input held no data rows.
type EmptyDatasetError struct {
	Path string
}

func (e *EmptyDatasetError) Error() string {
	if e.Path == "" {
		return "dataset is empty"
	}
	return fmt.Sprintf("dataset %s is empty", e.Path)
}

// LoadError wraps any failure that prevented a Dataset from being built.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
