package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/radioscope-cli/internal/dataset"
	"github.com/KaramelBytes/radioscope-cli/internal/logging"
	"github.com/KaramelBytes/radioscope-cli/internal/render"
	"github.com/KaramelBytes/radioscope-cli/internal/spectrum"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is prepended to every key when read from the environment.
	EnvPrefix = "RADIOSCOPE"
	dirName   = ".radioscope"
	fileName  = "config.yaml"
)

// Global configuration structure.
type Global struct {
	DataDir     string `mapstructure:"data_dir" yaml:"data_dir"`
	DataPattern string `mapstructure:"data_pattern" yaml:"data_pattern"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`

	// Analysis
	SampleRateHz    float64 `mapstructure:"sample_rate_hz" yaml:"sample_rate_hz"`
	ThresholdFactor float64 `mapstructure:"threshold_factor" yaml:"threshold_factor"`
	PeakFraction    float64 `mapstructure:"peak_fraction" yaml:"peak_fraction"`
	FFTBackend      string  `mapstructure:"fft_backend" yaml:"fft_backend"`

	// Chart
	ChartFormat   string  `mapstructure:"chart_format" yaml:"chart_format"`
	SpectrumMaxHz float64 `mapstructure:"spectrum_max_hz" yaml:"spectrum_max_hz"`
	HistogramBins int     `mapstructure:"histogram_bins" yaml:"histogram_bins"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"data_dir", "data_pattern", "output_dir",
	"sample_rate_hz", "threshold_factor", "peak_fraction", "fft_backend",
	"chart_format", "spectrum_max_hz", "histogram_bins",
	"log_level", "log_format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", ".")
	v.SetDefault("data_pattern", dataset.DefaultPattern)
	v.SetDefault("output_dir", ".")
	v.SetDefault("sample_rate_hz", spectrum.DefaultSampleRate)
	v.SetDefault("threshold_factor", 3.0)
	v.SetDefault("peak_fraction", spectrum.DefaultPeakFraction)
	v.SetDefault("fft_backend", spectrum.BackendGonum)
	v.SetDefault("chart_format", render.FormatPDF)
	v.SetDefault("spectrum_max_hz", render.DefaultMaxFreqHz)
	v.SetDefault("histogram_bins", render.DefaultHistogramBins)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", logging.FormatText)
}

// Default returns the built-in configuration without consulting files or env.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// DefaultPath returns ~/.radioscope/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.radioscope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// A config file that does not exist yet is fine; a broken one is not.
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks ranges and enumerated values.
func (c *Global) Validate() error {
	if c.SampleRateHz <= 0 {
		return fmt.Errorf("invalid sample_rate_hz: %v (must be > 0)", c.SampleRateHz)
	}
	if c.ThresholdFactor < 0 {
		return fmt.Errorf("invalid threshold_factor: %v (must be >= 0)", c.ThresholdFactor)
	}
	if c.PeakFraction <= 0 || c.PeakFraction >= 1 {
		return fmt.Errorf("invalid peak_fraction: %v (must be in (0, 1))", c.PeakFraction)
	}
	if _, err := spectrum.ParseBackend(c.FFTBackend); err != nil {
		return err
	}
	if _, err := render.ParseFormat(c.ChartFormat); err != nil {
		return err
	}
	if c.SpectrumMaxHz <= 0 {
		return fmt.Errorf("invalid spectrum_max_hz: %v (must be > 0)", c.SpectrumMaxHz)
	}
	if c.HistogramBins <= 0 {
		return fmt.Errorf("invalid histogram_bins: %v (must be > 0)", c.HistogramBins)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return err
	}
	return nil
}

// Get returns the display value of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "data_dir":
		return c.DataDir, nil
	case "data_pattern":
		return c.DataPattern, nil
	case "output_dir":
		return c.OutputDir, nil
	case "sample_rate_hz":
		return formatFloat(c.SampleRateHz), nil
	case "threshold_factor":
		return formatFloat(c.ThresholdFactor), nil
	case "peak_fraction":
		return formatFloat(c.PeakFraction), nil
	case "fft_backend":
		return c.FFTBackend, nil
	case "chart_format":
		return c.ChartFormat, nil
	case "spectrum_max_hz":
		return formatFloat(c.SpectrumMaxHz), nil
	case "histogram_bins":
		return strconv.Itoa(c.HistogramBins), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Set parses val into key. The configuration is left unchanged on error.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "data_dir":
		next.DataDir = val
	case "data_pattern":
		if _, err := filepath.Match(val, ""); err != nil {
			return fmt.Errorf("invalid data_pattern %q: %w", val, err)
		}
		next.DataPattern = val
	case "output_dir":
		next.OutputDir = val
	case "sample_rate_hz", "threshold_factor", "peak_fraction", "spectrum_max_hz":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %v", key, val)
		}
		switch key {
		case "sample_rate_hz":
			next.SampleRateHz = f
		case "threshold_factor":
			next.ThresholdFactor = f
		case "peak_fraction":
			next.PeakFraction = f
		default:
			next.SpectrumMaxHz = f
		}
	case "fft_backend":
		next.FFTBackend = strings.ToLower(val)
	case "chart_format":
		next.ChartFormat = strings.ToLower(val)
	case "histogram_bins":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for histogram_bins: %v", val)
		}
		next.HistogramBins = i
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "log_format":
		next.LogFormat = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
