package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/radioscope-cli/internal/dataset"
	"github.com/KaramelBytes/radioscope-cli/internal/spectrum"
	"gopkg.in/yaml.v3"
)

func sampleReport(t *testing.T, vals []float64) *Report {
	t.Helper()
	d := mustDataset(t, strengthSamples(vals...))
	return &Report{
		Source:      "radio_data_clean_20240101.csv",
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC),
		Stats:       Describe(d),
		Detection:   Detect(d, DefaultThresholdFactor),
		Spectrum:    spectrum.Analyze(d.Column(dataset.SignalStrength), spectrum.DefaultOptions()),
	}
}

func TestReport_TextSections(t *testing.T) {
	r := sampleReport(t, noisyStrengths(300))
	out := r.Text()
	for _, want := range []string{
		"RADIO TELESCOPE DATA ANALYSIS REPORT",
		"Data File: radio_data_clean_20240101.csv",
		"Analysis Date: 2024-03-09 14:05:00",
		"Run ID: run-1",
		"Total Data Points: 300",
		"SIGNAL STATISTICS:",
		"signal_strength",
		"SIGNAL DETECTION (3-sigma threshold):",
		"Number of signal events: 2",
		"Strongest signal: 9.00",
		"FREQUENCY ANALYSIS:",
		"Frequency range: 0 to 50 Hz",
		"RECOMMENDATIONS:",
		"5. Record weather conditions",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestReport_UndefinedRateAndNoEvents(t *testing.T) {
	r := sampleReport(t, []float64{1})
	out := r.Text()
	if !strings.Contains(out, "Average Sample Rate: undefined") {
		t.Errorf("expected undefined sample rate:\n%s", out)
	}
	if strings.Contains(out, "Strongest signal") {
		t.Errorf("strongest signal printed without events")
	}
	if !strings.Contains(out, "Significant frequency components: none") {
		t.Errorf("expected no frequency components")
	}
}

func TestReport_TruncatesEventList(t *testing.T) {
	vals := make([]float64, 400)
	for i := 0; i < 15; i++ {
		vals[i*20] = 100
	}
	r := sampleReport(t, vals)
	if r.Detection.Count() != 15 {
		t.Fatalf("events = %d, want 15", r.Detection.Count())
	}
	out := r.Text()
	if got := strings.Count(out, "  Time: "); got != maxEventLines {
		t.Fatalf("printed %d events, want %d", got, maxEventLines)
	}
	if !strings.Contains(out, "... 5 more") {
		t.Fatalf("missing truncation marker")
	}
}

func TestStatisticsTable_Layout(t *testing.T) {
	st := Describe(mustDataset(t, rampSamples(4, 10)))
	lines := strings.Split(st.Table(), "\n")
	if len(lines) != 9 {
		t.Fatalf("table has %d lines, want 9", len(lines))
	}
	for i, label := range []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"} {
		if !strings.HasPrefix(lines[i+1], label) {
			t.Errorf("row %d = %q, want label %q", i+1, lines[i+1], label)
		}
		if len(lines[i+1]) != len(lines[0]) {
			t.Errorf("row %q not aligned with header", label)
		}
	}
}

func TestReport_SummaryYAML(t *testing.T) {
	r := sampleReport(t, noisyStrengths(300))
	raw, err := yaml.Marshal(r.Summary())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Summary
	if err := yaml.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.RunID != "run-1" || back.Statistics.Rows != 300 {
		t.Fatalf("summary header = %+v", back)
	}
	if back.Detection.Count != 2 || back.Detection.Max == nil || *back.Detection.Max != 9 {
		t.Fatalf("detection summary = %+v", back.Detection)
	}
	if len(back.Spectrum.Peaks) != len(r.Spectrum.Peaks) {
		t.Fatalf("peaks = %d, want %d", len(back.Spectrum.Peaks), len(r.Spectrum.Peaks))
	}

	empty := sampleReport(t, []float64{3, 3, 3}).Summary()
	if empty.Detection.Max != nil || empty.Detection.EventMean != nil {
		t.Fatalf("max/mean should be nil without events")
	}
}
