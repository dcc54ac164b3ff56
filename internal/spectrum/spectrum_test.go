package spectrum

import (
	"math"
	"math/cmplx"
	"reflect"
	"testing"
)

func sine(n int, freq, fs, amp, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + amp*math.Sin(2*math.Pi*freq*float64(i)/fs)
	}
	return out
}

func TestAnalyze_SinusoidPeak(t *testing.T) {
	cases := []struct {
		n    int
		freq float64
	}{
		{200, 5},
		{400, 7.3},
		{1000, 1.23},
		{257, 12.6},
		{512, 33},
	}
	for _, c := range cases {
		sp := Analyze(sine(c.n, c.freq, 100, 3, 40), DefaultOptions())
		dom, ok := sp.Dominant()
		if !ok {
			t.Fatalf("n=%d f=%.2f: no peak found", c.n, c.freq)
		}
		if d := math.Abs(dom.Freq - c.freq); d > sp.BinWidth() {
			t.Errorf("n=%d f=%.2f: dominant at %.3f Hz (bin width %.3f)", c.n, c.freq, dom.Freq, sp.BinWidth())
		}
	}
}

func TestAnalyze_ConstantInput(t *testing.T) {
	for _, v := range []float64{0, 0.1, 42.7, -3} {
		x := make([]float64, 300)
		for i := range x {
			x[i] = v
		}
		sp := Analyze(x, DefaultOptions())
		for i, m := range sp.Magnitudes {
			if m != 0 {
				t.Fatalf("value %v: magnitude[%d]=%g, want 0", v, i, m)
			}
		}
		if len(sp.Peaks) != 0 {
			t.Fatalf("value %v: peaks=%v, want none", v, sp.Peaks)
		}
	}
}

func TestAnalyze_BinLayout(t *testing.T) {
	cases := []struct {
		n    int
		kept int
	}{
		{0, 0}, {1, 0}, {2, 0}, {3, 1}, {4, 1}, {9, 4}, {10, 4}, {11, 5},
	}
	for _, c := range cases {
		x := make([]float64, c.n)
		for i := range x {
			x[i] = float64(i % 3)
		}
		sp := Analyze(x, DefaultOptions())
		if len(sp.Freqs) != c.kept || len(sp.Magnitudes) != c.kept {
			t.Fatalf("n=%d: kept %d bins, want %d", c.n, len(sp.Freqs), c.kept)
		}
		for i, f := range sp.Freqs {
			if f <= 0 || f >= sp.Nyquist() {
				t.Fatalf("n=%d: bin %d at %.3f Hz outside (0, nyquist)", c.n, i, f)
			}
			if want := float64(i+1) * 100 / float64(c.n); math.Abs(f-want) > 1e-12 {
				t.Fatalf("n=%d: bin %d at %.6f, want %.6f", c.n, i, f, want)
			}
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	x := sine(500, 3.3, 100, 1, 0)
	for i := range x {
		x[i] += 0.25 * math.Sin(float64(i)*0.91)
	}
	a := Analyze(x, DefaultOptions())
	b := Analyze(x, DefaultOptions())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Analyze is not deterministic")
	}
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	x := sine(128, 10, 100, 1, 5)
	orig := append([]float64(nil), x...)
	Analyze(x, DefaultOptions())
	if !reflect.DeepEqual(x, orig) {
		t.Fatalf("input modified")
	}
}

func TestTransforms_Agree(t *testing.T) {
	for _, n := range []int{8, 100, 257, 1024} {
		x := sine(n, 4.5, 100, 2, 0)
		for i := range x {
			x[i] += math.Cos(float64(i) * 0.37)
		}
		g := GonumTransform(x)
		d := DSPTransform(x)
		for i := 0; i <= n/2; i++ {
			diff := cmplx.Abs(g[i] - d[i])
			scale := math.Max(1, cmplx.Abs(g[i]))
			if diff/scale > 1e-9 {
				t.Fatalf("n=%d bin %d: gonum=%v go-dsp=%v", n, i, g[i], d[i])
			}
		}
	}
}

func TestAnalyze_BackendsProduceSamePeaks(t *testing.T) {
	x := sine(600, 6, 100, 1, 0)
	for i := range x {
		x[i] += 0.5 * math.Sin(2*math.Pi*2*float64(i)/100)
	}
	gopt := DefaultOptions()
	dopt := DefaultOptions()
	dopt.Transform = DSPTransform
	a := Analyze(x, gopt)
	b := Analyze(x, dopt)
	if !reflect.DeepEqual(a.Peaks, b.Peaks) {
		t.Fatalf("peaks differ: gonum=%v go-dsp=%v", a.Peaks, b.Peaks)
	}
}

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"", "gonum", "GODSP", "go-dsp"} {
		if _, err := ParseBackend(name); err != nil {
			t.Errorf("ParseBackend(%q): %v", name, err)
		}
	}
	if _, err := ParseBackend("fftw"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestFindPeaks(t *testing.T) {
	cases := []struct {
		name   string
		in     []float64
		height float64
		want   []int
	}{
		{"empty", nil, 0, nil},
		{"single", []float64{5}, 0, nil},
		{"boundary max", []float64{9, 1, 2, 1, 8}, 0, []int{2}},
		{"plateau", []float64{0, 3, 3, 0}, 0, nil},
		{"plateau then spike", []float64{0, 3, 3, 4, 0}, 0, []int{3}},
		{"below height", []float64{0, 1, 0, 5, 0}, 1, []int{3}},
		{"equal to height", []float64{0, 2, 0}, 2, nil},
		{"several", []float64{0, 2, 1, 3, 1, 4, 0}, 0.5, []int{1, 3, 5}},
	}
	for _, c := range cases {
		got := FindPeaks(c.in, c.height)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTopAndStrongest(t *testing.T) {
	sp := Spectrum{
		SampleRate: 100, N: 10,
		Freqs:      []float64{10, 20, 30, 40},
		Magnitudes: []float64{1, 5, 2, 7},
		Peaks:      []int{1, 3},
	}
	top := sp.TopPeaks(1)
	if len(top) != 1 || top[0].Freq != 20 {
		t.Fatalf("TopPeaks = %+v", top)
	}
	dom, ok := sp.Dominant()
	if !ok || dom.Freq != 40 || dom.Magnitude != 7 {
		t.Fatalf("Dominant = %+v", dom)
	}
	if sp.BinWidth() != 10 {
		t.Fatalf("BinWidth = %v", sp.BinWidth())
	}
}
