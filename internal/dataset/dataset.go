package dataset

import (
	"fmt"
	"math"
)

// Sample is one acquisition record as logged by the receiver.
type Sample struct {
	TimestampMs    int64   `yaml:"timestamp_ms"`
	RawADC         float64 `yaml:"raw_adc"`
	Voltage        float64 `yaml:"voltage"`
	Smoothed       float64 `yaml:"smoothed"`
	BaselineDiff   float64 `yaml:"baseline_diff"`
	SignalStrength float64 `yaml:"signal_strength"`
}

// Column identifies one of the numeric channels of a Sample.
type Column int

const (
	RawADC Column = iota
	Voltage
	Smoothed
	BaselineDiff
	SignalStrength
)

// NumericColumns lists the channels in file order (timestamp excluded).
var NumericColumns = []Column{RawADC, Voltage, Smoothed, BaselineDiff, SignalStrength}

// FieldCount is the number of fields in every data row.
const FieldCount = 6

func (c Column) String() string {
	switch c {
	case RawADC:
		return "raw_adc"
	case Voltage:
		return "voltage"
	case Smoothed:
		return "smoothed"
	case BaselineDiff:
		return "baseline_diff"
	case SignalStrength:
		return "signal_strength"
	default:
		return fmt.Sprintf("column(%d)", int(c))
	}
}

// Value returns the value of column c in s.
func (s Sample) Value(c Column) float64 {
	switch c {
	case RawADC:
		return s.RawADC
	case Voltage:
		return s.Voltage
	case Smoothed:
		return s.Smoothed
	case BaselineDiff:
		return s.BaselineDiff
	case SignalStrength:
		return s.SignalStrength
	}
	return 0
}

// Dataset is an ordered, read-only sequence of samples loaded from one file.
type Dataset struct {
	source  string
	samples []Sample
}

// New builds a Dataset from a copy of samples. An empty input is rejected,
// as is any NaN or infinite channel value.
func New(source string, samples []Sample) (*Dataset, error) {
	if len(samples) == 0 {
		return nil, &EmptyDatasetError{Path: source}
	}
	for i, s := range samples {
		for j, c := range NumericColumns {
			if v := s.Value(c); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ParseError{Line: i + 1, Column: j + 1, Err: fmt.Errorf("%s: %w", c, ErrNonFinite)}
			}
		}
	}
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	return &Dataset{source: source, samples: cp}, nil
}

// Source is the path the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.samples) }

// At returns row i.
func (d *Dataset) At(i int) Sample { return d.samples[i] }

// Samples returns a copy of all rows in acquisition order.
func (d *Dataset) Samples() []Sample {
	out := make([]Sample, len(d.samples))
	copy(out, d.samples)
	return out
}

// Column returns the values of channel c in row order.
func (d *Dataset) Column(c Column) []float64 {
	out := make([]float64, len(d.samples))
	for i, s := range d.samples {
		out[i] = s.Value(c)
	}
	return out
}

// Timestamps returns the timestamp column in milliseconds.
func (d *Dataset) Timestamps() []int64 {
	out := make([]int64, len(d.samples))
	for i, s := range d.samples {
		out[i] = s.TimestampMs
	}
	return out
}
