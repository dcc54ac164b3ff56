// Package spectrum computes the windowed frequency decomposition of a single
// real-valued series and finds its dominant components.
package spectrum

import (
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultSampleRate is the receiver's fixed acquisition rate in Hz.
	DefaultSampleRate = 100.0
	// DefaultPeakFraction is the share of the largest magnitude a peak must exceed.
	DefaultPeakFraction = 0.1
)

// Options controls Analyze.
type Options struct {
	// SampleRate in Hz used for the frequency axis. Timestamps are not consulted.
	SampleRate float64
	// PeakFraction sets the peak height cutoff relative to the largest magnitude.
	PeakFraction float64
	// Transform defaults to GonumTransform.
	Transform Transform
}

// DefaultOptions returns the receiver defaults.
func DefaultOptions() Options {
	return Options{
		SampleRate:   DefaultSampleRate,
		PeakFraction: DefaultPeakFraction,
		Transform:    GonumTransform,
	}
}

// Spectrum holds the strictly positive frequency bins of a transform.
type Spectrum struct {
	SampleRate float64   `yaml:"sample_rate_hz"`
	N          int       `yaml:"n"`
	Freqs      []float64 `yaml:"-"`
	Magnitudes []float64 `yaml:"-"`
	// Peaks indexes into Freqs/Magnitudes in increasing frequency order.
	Peaks []int `yaml:"-"`
}

// Peak is a detected component.
type Peak struct {
	Index     int     `yaml:"index"`
	Freq      float64 `yaml:"freq_hz"`
	Magnitude float64 `yaml:"magnitude"`
}

// Analyze removes the mean from x, applies a Hann window, transforms it and
// keeps bins 1..(N-1)/2, i.e. every bin whose frequency i*fs/N is strictly
// positive. For even N the Nyquist bin maps to -fs/2 and is dropped.
func Analyze(x []float64, opt Options) Spectrum {
	if opt.SampleRate <= 0 {
		opt.SampleRate = DefaultSampleRate
	}
	if opt.PeakFraction <= 0 {
		opt.PeakFraction = DefaultPeakFraction
	}
	if opt.Transform == nil {
		opt.Transform = GonumTransform
	}
	n := len(x)
	sp := Spectrum{SampleRate: opt.SampleRate, N: n}
	kept := (n - 1) / 2
	if kept <= 0 {
		return sp
	}

	centered := make([]float64, n)
	// A constant series is exactly zero after DC removal; skip the mean so
	// rounding in the sum cannot leave residue.
	if floats.Min(x) != floats.Max(x) {
		copy(centered, x)
		floats.AddConst(-floats.Sum(x)/float64(n), centered)
		window.Hann(centered)
	}

	coeffs := opt.Transform(centered)
	sp.Freqs = make([]float64, kept)
	sp.Magnitudes = make([]float64, kept)
	step := opt.SampleRate / float64(n)
	for k := 0; k < kept; k++ {
		i := k + 1
		sp.Freqs[k] = float64(i) * step
		sp.Magnitudes[k] = cmplx.Abs(coeffs[i])
	}

	maxMag := floats.Max(sp.Magnitudes)
	if maxMag > 0 {
		sp.Peaks = FindPeaks(sp.Magnitudes, maxMag*opt.PeakFraction)
	}
	return sp
}

// BinWidth is the spacing between adjacent frequency bins in Hz.
func (s Spectrum) BinWidth() float64 {
	if s.N == 0 {
		return 0
	}
	return s.SampleRate / float64(s.N)
}

// Nyquist is half the sample rate.
func (s Spectrum) Nyquist() float64 { return s.SampleRate / 2 }

// PeakList returns all peaks in frequency order.
func (s Spectrum) PeakList() []Peak {
	out := make([]Peak, len(s.Peaks))
	for i, idx := range s.Peaks {
		out[i] = Peak{Index: idx, Freq: s.Freqs[idx], Magnitude: s.Magnitudes[idx]}
	}
	return out
}

// TopPeaks returns the first n peaks in frequency order.
func (s Spectrum) TopPeaks(n int) []Peak {
	all := s.PeakList()
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// Strongest returns up to n peaks ordered by descending magnitude.
func (s Spectrum) Strongest(n int) []Peak {
	all := s.PeakList()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Magnitude > all[j].Magnitude })
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// Dominant returns the peak with the largest magnitude.
func (s Spectrum) Dominant() (Peak, bool) {
	top := s.Strongest(1)
	if len(top) == 0 {
		return Peak{}, false
	}
	return top[0], true
}
