package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/radioscope-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/radioscope-cli/internal/config"
	"github.com/KaramelBytes/radioscope-cli/internal/dataset"
	"github.com/KaramelBytes/radioscope-cli/internal/render"
	"github.com/KaramelBytes/radioscope-cli/internal/spectrum"
	"github.com/KaramelBytes/radioscope-cli/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Output name prefixes; each gets _<YYYYMMDD_HHMMSS>.<ext> appended.
const (
	chartPrefix   = "radio_data_clean_analysis"
	reportPrefix  = "radio_data_clean_report"
	summaryPrefix = "radio_data_clean_summary"
)

var (
	anaDir          string
	anaPattern      string
	anaOutDir       string
	anaThreshold    float64
	anaSampleRate   float64
	anaPeakFraction float64
	anaBackend      string
	anaChartFormat  string
	anaSummary      bool
	anaPrint        bool
	anaQuiet        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze the newest cleaned data file (or the given one) and write chart and reports",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *currentConfig()
		f := cmd.Flags()
		if f.Changed("dir") {
			c.DataDir = anaDir
		}
		if f.Changed("pattern") {
			c.DataPattern = anaPattern
		}
		if f.Changed("out-dir") {
			c.OutputDir = anaOutDir
		}
		if f.Changed("threshold-factor") {
			c.ThresholdFactor = anaThreshold
		}
		if f.Changed("sample-rate") {
			c.SampleRateHz = anaSampleRate
		}
		if f.Changed("peak-fraction") {
			c.PeakFraction = anaPeakFraction
		}
		if f.Changed("fft-backend") {
			c.FFTBackend = anaBackend
		}
		if f.Changed("chart-format") {
			c.ChartFormat = anaChartFormat
		}
		if err := c.Validate(); err != nil {
			return err
		}

		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		runID := uuid.NewString()
		res, err := runAnalysis(appFs, &c, path, analysisRun{
			ID:      runID,
			Now:     time.Now(),
			Summary: anaSummary,
			Log:     logger.With(zap.String("run_id", runID)),
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if anaPrint {
			fmt.Fprintln(out, res.Report.Text())
		}
		if !anaQuiet {
			printAnalysisSummary(out, res)
		}
		return nil
	},
}

type analysisRun struct {
	ID      string
	Now     time.Time
	Summary bool
	Log     *zap.Logger
}

type analysisResult struct {
	Source      string
	Report      *analysis.Report
	ChartPath   string
	TextPath    string
	PDFPath     string
	SummaryPath string
}

// runAnalysis loads one dataset and writes every output for it. Nothing is
// written when loading or the rendering check fails.
func runAnalysis(fs afero.Fs, c *cfgpkg.Global, path string, run analysisRun) (*analysisResult, error) {
	log := run.Log
	if log == nil {
		log = zap.NewNop()
	}
	if err := render.Check(c.ChartFormat); err != nil {
		return nil, err
	}
	transform, err := spectrum.ParseBackend(c.FFTBackend)
	if err != nil {
		return nil, err
	}

	if path == "" {
		latest, err := dataset.Resolver{Fs: fs}.Latest(c.DataDir, c.DataPattern)
		if err != nil {
			return nil, err
		}
		path = latest
		log.Debug("resolved newest data file", zap.String("path", path), zap.String("pattern", c.DataPattern))
	}
	d, err := dataset.Load(fs, path)
	if err != nil {
		return nil, err
	}
	log.Info("loaded dataset", zap.String("path", path), zap.Int("rows", d.Len()))

	stats := analysis.Describe(d)
	det := analysis.Detect(d, c.ThresholdFactor)
	log.Info("signal detection",
		zap.Float64("threshold", det.Threshold),
		zap.Int("events", det.Count()))
	sp := spectrum.Analyze(d.Column(dataset.SignalStrength), spectrum.Options{
		SampleRate:   c.SampleRateHz,
		PeakFraction: c.PeakFraction,
		Transform:    transform,
	})
	log.Debug("spectrum computed",
		zap.Int("bins", len(sp.Freqs)),
		zap.Int("peaks", len(sp.Peaks)),
		zap.String("fft_backend", c.FFTBackend))

	rep := &analysis.Report{
		Source:      d.Source(),
		RunID:       run.ID,
		GeneratedAt: run.Now,
		Stats:       stats,
		Detection:   det,
		Spectrum:    sp,
	}

	if err := utils.EnsureDir(fs, c.OutputDir); err != nil {
		return nil, err
	}
	res := &analysisResult{Source: path, Report: rep}
	planned := func(prefix, ext string) string {
		return filepath.Join(c.OutputDir, utils.TimestampedName(prefix, run.Now, ext))
	}
	res.ChartPath = planned(chartPrefix, c.ChartFormat)
	res.TextPath = planned(reportPrefix, "txt")
	res.PDFPath = planned(reportPrefix, "pdf")
	outputs := []*string{&res.ChartPath, &res.TextPath, &res.PDFPath}
	if run.Summary {
		res.SummaryPath = planned(summaryPrefix, "yaml")
		outputs = append(outputs, &res.SummaryPath)
	}
	// One collision suffix covers every artifact of the run.
	names := make([]string, len(outputs))
	for i, p := range outputs {
		names[i] = *p
	}
	suffix, err := utils.UniqueSuffix(fs, names...)
	if err != nil {
		return nil, err
	}
	for _, p := range outputs {
		*p = utils.WithSuffix(*p, suffix)
	}
	if suffix != "" {
		log.Warn("outputs already exist for this second, using suffix", zap.String("suffix", suffix))
	}

	format, err := render.FormatFromPath(res.ChartPath)
	if err != nil {
		return nil, err
	}
	chartOpt := render.ChartOptions{Format: format, MaxFreqHz: c.SpectrumMaxHz, HistogramBins: c.HistogramBins}
	if err := utils.WriteWith(fs, res.ChartPath, func(w io.Writer) error {
		return render.Chart(w, d, sp, chartOpt)
	}); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	log.Info("chart written", zap.String("path", res.ChartPath))

	text := rep.Text()
	if err := utils.SafeWriteFile(fs, res.TextPath, []byte(text)); err != nil {
		return nil, err
	}
	if err := utils.WriteWith(fs, res.PDFPath, func(w io.Writer) error {
		return render.TextPDF(w, text, render.DefaultPageOptions())
	}); err != nil {
		return nil, fmt.Errorf("render pdf report: %w", err)
	}
	log.Info("reports written", zap.String("text", res.TextPath), zap.String("pdf", res.PDFPath))

	if run.Summary {
		b, err := yaml.Marshal(rep.Summary())
		if err != nil {
			return nil, fmt.Errorf("marshal summary: %w", err)
		}
		if err := utils.SafeWriteFile(fs, res.SummaryPath, b); err != nil {
			return nil, err
		}
		log.Info("summary written", zap.String("path", res.SummaryPath))
	}
	return res, nil
}

func printAnalysisSummary(w io.Writer, res *analysisResult) {
	st := res.Report.Stats
	fmt.Fprintf(w, "✓ Loaded %d data points from %s\n", st.Rows, res.Source)
	if st.SampleRateDefined {
		fmt.Fprintf(w, "  Duration: %.1f s, average sample rate %.1f Hz\n", st.DurationSec, st.SampleRate)
	} else {
		fmt.Fprintf(w, "  Duration: %.1f s, average sample rate undefined\n", st.DurationSec)
	}
	det := res.Report.Detection
	fmt.Fprintf(w, "  Signal events above %.2f: %d\n", det.Threshold, det.Count())
	if dom, ok := res.Report.Spectrum.Dominant(); ok {
		fmt.Fprintf(w, "  Dominant frequency: %.2f Hz\n", dom.Freq)
	}
	fmt.Fprintf(w, "✓ Wrote chart to %s\n", res.ChartPath)
	fmt.Fprintf(w, "✓ Wrote report to %s and %s\n", res.TextPath, res.PDFPath)
	if res.SummaryPath != "" {
		fmt.Fprintf(w, "✓ Wrote summary to %s\n", res.SummaryPath)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaDir, "dir", "", "directory searched for the newest data file (overrides config)")
	analyzeCmd.Flags().StringVar(&anaPattern, "pattern", "", "file name pattern of cleaned data files (overrides config)")
	analyzeCmd.Flags().StringVarP(&anaOutDir, "out-dir", "o", "", "directory for chart and reports (overrides config)")
	analyzeCmd.Flags().Float64Var(&anaThreshold, "threshold-factor", 0, "standard deviations above the mean for signal events (default 3)")
	analyzeCmd.Flags().Float64Var(&anaSampleRate, "sample-rate", 0, "acquisition rate in Hz used for the frequency axis (default 100)")
	analyzeCmd.Flags().Float64Var(&anaPeakFraction, "peak-fraction", 0, "minimum peak height as a fraction of the largest magnitude (default 0.1)")
	analyzeCmd.Flags().StringVar(&anaBackend, "fft-backend", "", "FFT implementation: gonum|godsp")
	analyzeCmd.Flags().StringVar(&anaChartFormat, "chart-format", "", "chart output format: pdf|png|svg")
	analyzeCmd.Flags().BoolVar(&anaSummary, "summary", false, "also write a YAML summary of the results")
	analyzeCmd.Flags().BoolVar(&anaPrint, "print", false, "print the text report to stdout")
	analyzeCmd.Flags().BoolVar(&anaQuiet, "quiet", false, "suppress status output")
}
