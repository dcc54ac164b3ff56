package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/radioscope-cli/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats summarizes one numeric channel.
type ColumnStats struct {
	Name   string  `yaml:"name"`
	Count  int     `yaml:"count"`
	Mean   float64 `yaml:"mean"`
	Std    float64 `yaml:"std"`
	Min    float64 `yaml:"min"`
	Q1     float64 `yaml:"q1"`
	Median float64 `yaml:"median"`
	Q3     float64 `yaml:"q3"`
	Max    float64 `yaml:"max"`
}

// Statistics is the descriptive summary of a Dataset.
type Statistics struct {
	Rows    int           `yaml:"rows"`
	Columns []ColumnStats `yaml:"columns"`
	// DurationSec is the span between first and last timestamp.
	DurationSec float64 `yaml:"duration_sec"`
	// SampleRate is Rows/DurationSec; NaN unless SampleRateDefined.
	SampleRate        float64 `yaml:"sample_rate_hz"`
	SampleRateDefined bool    `yaml:"sample_rate_defined"`
}

// DurationMinutes returns the observation span in minutes.
func (s Statistics) DurationMinutes() float64 { return s.DurationSec / 60 }

// Column returns the summary for the named channel.
func (s Statistics) Column(c dataset.Column) (ColumnStats, bool) {
	for _, cs := range s.Columns {
		if cs.Name == c.String() {
			return cs, true
		}
	}
	return ColumnStats{}, false
}

// Describe computes per-channel statistics and the observation span.
// Std is the sample standard deviation (n-1); it is NaN for a single row.
func Describe(d *dataset.Dataset) Statistics {
	st := Statistics{Rows: d.Len(), SampleRate: math.NaN()}
	for _, c := range dataset.NumericColumns {
		st.Columns = append(st.Columns, describeColumn(c.String(), d.Column(c)))
	}

	ts := d.Timestamps()
	if len(ts) > 0 {
		lo, hi := ts[0], ts[0]
		for _, t := range ts[1:] {
			if t < lo {
				lo = t
			}
			if t > hi {
				hi = t
			}
		}
		st.DurationSec = float64(hi-lo) / 1000.0
	}
	if st.DurationSec > 0 {
		st.SampleRate = float64(st.Rows) / st.DurationSec
		st.SampleRateDefined = true
	}
	return st
}

func describeColumn(name string, vals []float64) ColumnStats {
	cs := ColumnStats{Name: name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std, cs.Min, cs.Q1, cs.Median, cs.Q3, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}
	if len(vals) == 1 {
		cs.Mean, cs.Std = vals[0], math.NaN()
	} else {
		cs.Mean, cs.Std = stat.MeanStdDev(vals, nil)
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	cs.Min = floats.Min(sorted)
	cs.Max = floats.Max(sorted)
	cs.Q1 = quantile(sorted, 0.25)
	cs.Median = quantile(sorted, 0.5)
	cs.Q3 = quantile(sorted, 0.75)
	return cs
}

// quantile interpolates linearly between closest ranks at q*(n-1).
// sorted must be in ascending order.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
