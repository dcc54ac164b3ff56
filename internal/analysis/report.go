package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/radioscope-cli/internal/spectrum"
)

const (
	reportRule     = 50
	maxEventLines  = 10
	maxPeakLines   = 5
	reportDateFmt  = "2006-01-02 15:04:05"
	undefinedValue = "undefined"
)

var recommendations = []string{
	"Point antenna at Sun during day for strong radio source",
	"Try observations at different times of day",
	"Look for periodic variations in signal strength",
	"Compare signal levels when pointing at different sky regions",
	"Record weather conditions and correlate with signal variations",
}

// Report bundles the results of one analysis run.
type Report struct {
	Source      string
	RunID       string
	GeneratedAt time.Time
	Stats       Statistics
	Detection   Detection
	Spectrum    spectrum.Spectrum
}

// Summary is the serializable form of a Report.
type Summary struct {
	Source      string          `yaml:"source"`
	RunID       string          `yaml:"run_id"`
	GeneratedAt time.Time       `yaml:"generated_at"`
	Statistics  Statistics      `yaml:"statistics"`
	Detection   DetectionView   `yaml:"detection"`
	Spectrum    SpectrumSummary `yaml:"spectrum"`
}

// DetectionView omits the event rows and reports "not applicable" values as nil.
type DetectionView struct {
	Factor    float64  `yaml:"factor"`
	Mean      float64  `yaml:"mean"`
	StdDev    float64  `yaml:"std_dev"`
	Threshold float64  `yaml:"threshold"`
	Count     int      `yaml:"count"`
	Max       *float64 `yaml:"max"`
	EventMean *float64 `yaml:"event_mean"`
}

// SpectrumSummary carries the frequency axis layout and detected peaks.
type SpectrumSummary struct {
	SampleRate float64         `yaml:"sample_rate_hz"`
	N          int             `yaml:"n"`
	Bins       int             `yaml:"bins"`
	BinWidth   float64         `yaml:"bin_width_hz"`
	Peaks      []spectrum.Peak `yaml:"peaks"`
}

// Summary converts the report into its serializable form.
func (r *Report) Summary() Summary {
	dv := DetectionView{
		Factor:    r.Detection.Factor,
		Mean:      r.Detection.Mean,
		StdDev:    r.Detection.StdDev,
		Threshold: r.Detection.Threshold,
		Count:     r.Detection.Count(),
	}
	if r.Detection.HasEvents() {
		mx, mean := r.Detection.Max, r.Detection.EventMean
		dv.Max, dv.EventMean = &mx, &mean
	}
	return Summary{
		Source:      r.Source,
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		Statistics:  r.Stats,
		Detection:   dv,
		Spectrum: SpectrumSummary{
			SampleRate: r.Spectrum.SampleRate,
			N:          r.Spectrum.N,
			Bins:       len(r.Spectrum.Freqs),
			BinWidth:   r.Spectrum.BinWidth(),
			Peaks:      r.Spectrum.PeakList(),
		},
	}
}

// Text renders the plain-text report.
func (r *Report) Text() string {
	var b strings.Builder
	rule := strings.Repeat("=", reportRule)
	b.WriteString("RADIO TELESCOPE DATA ANALYSIS REPORT\n")
	b.WriteString(rule + "\n\n")
	b.WriteString(fmt.Sprintf("Data File: %s\n", r.Source))
	b.WriteString(fmt.Sprintf("Analysis Date: %s\n", r.GeneratedAt.Format(reportDateFmt)))
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("Run ID: %s\n", r.RunID))
	}
	b.WriteString("\n")

	st := r.Stats
	b.WriteString(fmt.Sprintf("Observation Duration: %.1f seconds (%.1f minutes)\n", st.DurationSec, st.DurationMinutes()))
	b.WriteString(fmt.Sprintf("Total Data Points: %d\n", st.Rows))
	if st.SampleRateDefined {
		b.WriteString(fmt.Sprintf("Average Sample Rate: %.1f Hz\n\n", st.SampleRate))
	} else {
		b.WriteString(fmt.Sprintf("Average Sample Rate: %s (zero observation duration)\n\n", undefinedValue))
	}

	b.WriteString("SIGNAL STATISTICS:\n")
	b.WriteString(st.Table())
	b.WriteString("\n\n")

	det := r.Detection
	b.WriteString(fmt.Sprintf("SIGNAL DETECTION (%s-sigma threshold):\n", formatFactor(det.Factor)))
	b.WriteString(fmt.Sprintf("Detection Threshold: %.2f\n", det.Threshold))
	b.WriteString(fmt.Sprintf("Number of signal events: %d\n", det.Count()))
	if det.HasEvents() {
		b.WriteString(fmt.Sprintf("Strongest signal: %.2f\n", det.Max))
		b.WriteString(fmt.Sprintf("Average signal strength: %.2f\n", det.EventMean))
		b.WriteString("Signal Events:\n")
		for i, ev := range det.Events {
			if i == maxEventLines {
				b.WriteString(fmt.Sprintf("  ... %d more\n", det.Count()-maxEventLines))
				break
			}
			b.WriteString(fmt.Sprintf("  Time: %.1fs, Strength: %.2f\n", float64(ev.TimestampMs)/1000.0, ev.SignalStrength))
		}
	}
	b.WriteString("\n")

	sp := r.Spectrum
	b.WriteString("FREQUENCY ANALYSIS:\n")
	b.WriteString(fmt.Sprintf("Frequency range: 0 to %g Hz\n", sp.Nyquist()))
	b.WriteString(fmt.Sprintf("Resolution: %.4f Hz (%d bins)\n", sp.BinWidth(), len(sp.Freqs)))
	if peaks := sp.TopPeaks(maxPeakLines); len(peaks) > 0 {
		b.WriteString("Significant frequency components:\n")
		for _, p := range peaks {
			b.WriteString(fmt.Sprintf("  %.2f Hz: %.2f\n", p.Freq, p.Magnitude))
		}
	} else {
		b.WriteString("Significant frequency components: none\n")
	}
	b.WriteString("\n")

	b.WriteString("RECOMMENDATIONS:\n")
	for i, rec := range recommendations {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
	}
	return b.String()
}

// Table renders the per-column statistics as count/mean/std/min/quartiles/max rows.
func (s Statistics) Table() string {
	const minWidth = 12
	widths := make([]int, len(s.Columns))
	for i, c := range s.Columns {
		widths[i] = max(len(c.Name), minWidth)
	}
	rows := []struct {
		label string
		get   func(ColumnStats) float64
	}{
		{"count", func(c ColumnStats) float64 { return float64(c.Count) }},
		{"mean", func(c ColumnStats) float64 { return c.Mean }},
		{"std", func(c ColumnStats) float64 { return c.Std }},
		{"min", func(c ColumnStats) float64 { return c.Min }},
		{"25%", func(c ColumnStats) float64 { return c.Q1 }},
		{"50%", func(c ColumnStats) float64 { return c.Median }},
		{"75%", func(c ColumnStats) float64 { return c.Q3 }},
		{"max", func(c ColumnStats) float64 { return c.Max }},
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-6s", ""))
	for i, c := range s.Columns {
		b.WriteString(fmt.Sprintf("  %*s", widths[i], c.Name))
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("\n%-6s", row.label))
		for i, c := range s.Columns {
			b.WriteString(fmt.Sprintf("  %*s", widths[i], formatStat(row.get(c))))
		}
	}
	return b.String()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}

func formatFactor(k float64) string {
	if k == math.Trunc(k) {
		return fmt.Sprintf("%d", int64(k))
	}
	return fmt.Sprintf("%g", k)
}
