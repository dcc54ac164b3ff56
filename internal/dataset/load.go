package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// Load opens path on fs and parses it into a Dataset. Any malformed row
// aborts the load; no partial Dataset is returned.
func Load(fs afero.Fs, path string) (*Dataset, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	samples, err := Parse(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	d, err := New(path, samples)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return d, nil
}

// Parse reads headerless six-column rows:
// timestamp,raw_adc,voltage,smoothed,baseline_diff,signal_strength.
func Parse(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var out []Sample
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{Line: pe.Line, Column: -1, Err: pe.Err}
			}
			return nil, fmt.Errorf("read row %d: %w", len(out)+1, err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) != FieldCount {
			return nil, &ParseError{Line: line, Column: -1, Err: fmt.Errorf("expected %d fields, got %d", FieldCount, len(rec))}
		}
		s, err := parseRecord(rec)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = line
			}
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parseRecord(rec []string) (Sample, error) {
	var s Sample
	ts, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil {
		return s, &ParseError{Column: 0, Err: fmt.Errorf("timestamp: %w", err)}
	}
	s.TimestampMs = ts
	dst := []*float64{&s.RawADC, &s.Voltage, &s.Smoothed, &s.BaselineDiff, &s.SignalStrength}
	for i, p := range dst {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return s, &ParseError{Column: i + 1, Err: fmt.Errorf("%s: %w", NumericColumns[i], err)}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return s, &ParseError{Column: i + 1, Err: fmt.Errorf("%s: %w", NumericColumns[i], ErrNonFinite)}
		}
		*p = v
	}
	return s, nil
}

// Write emits samples in the same headerless layout Parse accepts. Floats
// use the shortest representation that round-trips exactly.
func Write(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	rec := make([]string, FieldCount)
	for _, s := range samples {
		rec[0] = strconv.FormatInt(s.TimestampMs, 10)
		for i, c := range NumericColumns {
			rec[i+1] = strconv.FormatFloat(s.Value(c), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
