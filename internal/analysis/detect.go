package analysis

import (
	"github.com/KaramelBytes/radioscope-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// DefaultThresholdFactor is the number of standard deviations above the mean
// a sample must exceed to count as a signal event.
const DefaultThresholdFactor = 3.0

// Detection is the result of thresholding signal_strength.
type Detection struct {
	Factor    float64          `yaml:"factor"`
	Mean      float64          `yaml:"mean"`
	StdDev    float64          `yaml:"std_dev"`
	Threshold float64          `yaml:"threshold"`
	Events    []dataset.Sample `yaml:"events"`
	// Max and EventMean are only meaningful when HasEvents is true.
	Max       float64 `yaml:"max"`
	EventMean float64 `yaml:"event_mean"`
}

// Count returns the number of detected events.
func (d Detection) Count() int { return len(d.Events) }

// HasEvents reports whether any sample cleared the threshold.
func (d Detection) HasEvents() bool { return len(d.Events) > 0 }

// Detect flags samples whose signal_strength is strictly above
// mean + k*std, preserving acquisition order. std is the sample standard
// deviation, matching Describe; with fewer than two rows it is taken as 0.
func Detect(d *dataset.Dataset, k float64) Detection {
	vals := d.Column(dataset.SignalStrength)
	det := Detection{Factor: k}
	switch len(vals) {
	case 0:
		return det
	case 1:
		det.Mean = vals[0]
	default:
		det.Mean, det.StdDev = stat.MeanStdDev(vals, nil)
	}
	det.Threshold = det.Mean + k*det.StdDev

	var sum float64
	for i, v := range vals {
		if v <= det.Threshold {
			continue
		}
		s := d.At(i)
		if len(det.Events) == 0 || v > det.Max {
			det.Max = v
		}
		sum += v
		det.Events = append(det.Events, s)
	}
	if len(det.Events) > 0 {
		det.EventMean = sum / float64(len(det.Events))
	}
	return det
}
