// Package render draws the analysis chart and the paginated text report.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/radioscope-cli/internal/dataset"
	"github.com/KaramelBytes/radioscope-cli/internal/spectrum"
	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

const (
	chartTitle = "Radio Telescope Data Analysis"

	// DefaultMaxFreqHz bounds the X axis of the spectrum panel.
	DefaultMaxFreqHz = 10.0
	// DefaultHistogramBins is the bin count of the signal strength histogram.
	DefaultHistogramBins = 50
)

// A4 portrait.
var (
	chartWidth  = vg.Length(8.27) * vg.Inch
	chartHeight = vg.Length(11.69) * vg.Inch
)

// Supported chart formats.
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ChartOptions controls Chart.
type ChartOptions struct {
	Format        string
	MaxFreqHz     float64
	HistogramBins int
}

// DefaultChartOptions renders a PDF with the receiver's usual panel ranges.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Format: FormatPDF, MaxFreqHz: DefaultMaxFreqHz, HistogramBins: DefaultHistogramBins}
}

// FormatFromPath derives the chart format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return ParseFormat(ext)
}

// ParseFormat validates a chart format name.
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(name)); f {
	case FormatPDF, FormatPNG, FormatSVG:
		return f, nil
	case "":
		return "", fmt.Errorf("chart format is empty (use %s|%s|%s)", FormatPDF, FormatPNG, FormatSVG)
	default:
		return "", fmt.Errorf("unsupported chart format %q (use %s|%s|%s)", name, FormatPDF, FormatPNG, FormatSVG)
	}
}

// Chart draws the seven-panel overview of d and sp to w: raw ADC across the
// top, then smoothed, baseline difference, signal strength, a histogram of
// signal strength, the spectrum with its peaks and a smoothed vs strength
// scatter.
func Chart(w io.Writer, d *dataset.Dataset, sp spectrum.Spectrum, opt ChartOptions) error {
	format, err := ParseFormat(opt.Format)
	if err != nil {
		return err
	}
	if opt.MaxFreqHz <= 0 {
		opt.MaxFreqHz = DefaultMaxFreqHz
	}
	if opt.HistogramBins <= 0 {
		opt.HistogramBins = DefaultHistogramBins
	}

	secs := elapsedSeconds(d.Timestamps())
	raw, err := seriesPlot("Raw ADC Values", "ADC Value", secs, d.Column(dataset.RawADC), colornames.Steelblue)
	if err != nil {
		return err
	}
	smoothed, err := seriesPlot("Smoothed Signal", "ADC Value", secs, d.Column(dataset.Smoothed), colornames.Forestgreen)
	if err != nil {
		return err
	}
	baseline, err := seriesPlot("Baseline Difference", "Difference", secs, d.Column(dataset.BaselineDiff), colornames.Darkorange)
	if err != nil {
		return err
	}
	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Samples = 2
	zero.Color = colornames.Black
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	baseline.Add(zero)
	strength, err := seriesPlot("Signal Strength", "Strength", secs, d.Column(dataset.SignalStrength), colornames.Crimson)
	if err != nil {
		return err
	}
	hist, err := histogramPlot(d.Column(dataset.SignalStrength), opt.HistogramBins)
	if err != nil {
		return err
	}
	freq, err := spectrumPlot(sp, opt.MaxFreqHz)
	if err != nil {
		return err
	}
	scatter, err := scatterPlot(d.Column(dataset.Smoothed), d.Column(dataset.SignalStrength))
	if err != nil {
		return err
	}

	cw, err := draw.NewFormattedCanvas(chartWidth, chartHeight, format)
	if err != nil {
		return &DependencyMissingError{Name: "canvas format " + format, Err: err}
	}
	c := draw.New(cw)

	titleHeight := vg.Points(36)
	drawTitle(draw.Crop(c, 0, 0, c.Rectangle.Size().Y-titleHeight, 0))

	body := draw.Crop(c, 0, 0, 0, -titleHeight)
	h := body.Rectangle.Size().Y
	top := draw.Crop(body, vg.Points(10), -vg.Points(10), h*3/4, 0)
	raw.Draw(top)

	grid := [][]*plot.Plot{
		{smoothed, baseline},
		{strength, hist},
		{freq, scatter},
	}
	tiles := draw.Tiles{
		Rows: 3, Cols: 2,
		PadX: vg.Points(24), PadY: vg.Points(24),
		PadLeft: vg.Points(10), PadRight: vg.Points(10),
		PadTop: vg.Points(18), PadBottom: vg.Points(10),
	}
	cells := plot.Align(grid, tiles, draw.Crop(body, 0, 0, 0, -h/4))
	for i := range grid {
		for j, p := range grid[i] {
			p.Draw(cells[i][j])
		}
	}

	if _, err := cw.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func drawTitle(c draw.Canvas) {
	sty := text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, vg.Points(16)),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
	c.FillText(sty, c.Center(), chartTitle)
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func seriesPlot(title, yLabel string, secs, ys []float64, c color.Color) (*plot.Plot, error) {
	p := newPlot(title, "Time (s)", yLabel)
	pts := finiteXYs(secs, ys)
	if len(pts) == 0 {
		return p, nil
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", title, err)
	}
	l.Color = c
	l.Width = vg.Points(0.8)
	p.Add(l)
	return p, nil
}

func histogramPlot(vals []float64, bins int) (*plot.Plot, error) {
	p := newPlot("Signal Strength Distribution", "Signal Strength", "Count")
	h, err := strengthHistogram(vals, bins)
	if err != nil {
		return nil, err
	}
	if h != nil {
		p.Add(h)
	}
	return p, nil
}

// strengthHistogram bins the finite values; it returns nil when there are none.
func strengthHistogram(vals []float64, bins int) (*plotter.Histogram, error) {
	var finite plotter.Values
	for _, v := range vals {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return nil, nil
	}
	h, err := plotter.NewHist(finite, bins)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	h.FillColor = colornames.Slateblue
	h.Color = colornames.Black
	// Histogram.Width is the bin width; the outline width lives on LineStyle.
	h.LineStyle.Width = vg.Points(0.3)
	return h, nil
}

func spectrumPlot(sp spectrum.Spectrum, maxHz float64) (*plot.Plot, error) {
	p := newPlot("Frequency Spectrum", "Frequency (Hz)", "Magnitude")

	var line, marks plotter.XYs
	for i, f := range sp.Freqs {
		if f <= maxHz && isFinite(sp.Magnitudes[i]) {
			line = append(line, plotter.XY{X: f, Y: sp.Magnitudes[i]})
		}
	}
	for _, pk := range sp.PeakList() {
		if pk.Freq <= maxHz && isFinite(pk.Magnitude) {
			marks = append(marks, plotter.XY{X: pk.Freq, Y: pk.Magnitude})
		}
	}
	if len(line) > 0 {
		l, err := plotter.NewLine(line)
		if err != nil {
			return nil, fmt.Errorf("spectrum: %w", err)
		}
		l.Color = colornames.Purple
		p.Add(l)
	}
	if len(marks) > 0 {
		s, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, fmt.Errorf("spectrum peaks: %w", err)
		}
		s.Shape = draw.CircleGlyph{}
		s.Color = colornames.Red
		s.Radius = vg.Points(3)
		p.Add(s)
	}
	// plot.Add widens the range to the data, so pin it again.
	p.X.Min, p.X.Max = 0, maxHz
	return p, nil
}

func scatterPlot(xs, ys []float64) (*plot.Plot, error) {
	p := newPlot("Smoothed vs Signal Strength", "Smoothed Value", "Signal Strength")
	pts := finiteXYs(xs, ys)
	if len(pts) == 0 {
		return p, nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	s.Shape = draw.CircleGlyph{}
	s.Color = color.NRGBA{R: 70, G: 130, B: 180, A: 128}
	s.Radius = vg.Points(1)
	p.Add(s)
	return p, nil
}

// elapsedSeconds converts millisecond timestamps to seconds since the first sample.
func elapsedSeconds(ts []int64) []float64 {
	out := make([]float64, len(ts))
	if len(ts) == 0 {
		return out
	}
	for i, t := range ts {
		out[i] = float64(t-ts[0]) / 1000.0
	}
	return out
}

func finiteXYs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if i >= len(ys) {
			break
		}
		if isFinite(xs[i]) && isFinite(ys[i]) {
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
	}
	return pts
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
