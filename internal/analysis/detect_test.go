package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/radioscope-cli/internal/dataset"
)

func strengthSamples(vals ...float64) []dataset.Sample {
	out := make([]dataset.Sample, len(vals))
	for i, v := range vals {
		out[i] = dataset.Sample{TimestampMs: int64(i * 10), SignalStrength: v}
	}
	return out
}

func noisyStrengths(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = math.Sin(float64(i)*0.7) + 0.3*math.Cos(float64(i)*2.3)
	}
	vals[n/3] = 9
	vals[2*n/3] = 7
	return vals
}

func TestDetect_FindsSpikesInOrder(t *testing.T) {
	vals := noisyStrengths(300)
	det := Detect(mustDataset(t, strengthSamples(vals...)), DefaultThresholdFactor)
	if det.Count() != 2 {
		t.Fatalf("count = %d, want 2 (threshold %.3f)", det.Count(), det.Threshold)
	}
	if det.Events[0].SignalStrength != 9 || det.Events[1].SignalStrength != 7 {
		t.Fatalf("events out of order: %+v", det.Events)
	}
	if det.Events[0].TimestampMs >= det.Events[1].TimestampMs {
		t.Fatalf("timestamps not increasing")
	}
	if det.Max != 9 || det.EventMean != 8 {
		t.Fatalf("max=%v mean=%v", det.Max, det.EventMean)
	}
}

func TestDetect_ThresholdMonotonic(t *testing.T) {
	d := mustDataset(t, strengthSamples(noisyStrengths(500)...))
	prev := Detect(d, 0)
	for _, k := range []float64{0.5, 1, 2, 3, 4, 6} {
		cur := Detect(d, k)
		if cur.Threshold < cur.Mean {
			t.Fatalf("k=%v: threshold %v below mean %v", k, cur.Threshold, cur.Mean)
		}
		if cur.Threshold < prev.Threshold {
			t.Fatalf("k=%v: threshold decreased", k)
		}
		if cur.Count() > prev.Count() {
			t.Fatalf("k=%v: count increased %d -> %d", k, prev.Count(), cur.Count())
		}
		prev = cur
	}
}

func TestDetect_NoEvents(t *testing.T) {
	det := Detect(mustDataset(t, strengthSamples(4, 4, 4, 4)), DefaultThresholdFactor)
	if det.HasEvents() || det.Count() != 0 {
		t.Fatalf("constant input produced events: %+v", det.Events)
	}
	if det.Threshold != 4 || det.StdDev != 0 {
		t.Fatalf("threshold=%v std=%v", det.Threshold, det.StdDev)
	}
	if det.Max != 0 || det.EventMean != 0 {
		t.Fatalf("max/mean set without events")
	}
}

func TestDetect_SingleRow(t *testing.T) {
	det := Detect(mustDataset(t, strengthSamples(2.5)), DefaultThresholdFactor)
	if det.Mean != 2.5 || det.StdDev != 0 || det.Threshold != 2.5 || det.HasEvents() {
		t.Fatalf("single row detection = %+v", det)
	}
}

func TestDetect_Deterministic(t *testing.T) {
	d := mustDataset(t, strengthSamples(noisyStrengths(200)...))
	a, b := Detect(d, 2), Detect(d, 2)
	if a.Threshold != b.Threshold || a.Count() != b.Count() {
		t.Fatalf("non-deterministic detection")
	}
}

func TestDetect_NonFiniteStrengthIsRejectedBeforeDetection(t *testing.T) {
	in := "0,1,1,1,1,1\n10,1,1,1,1,2\n20,1,1,1,1,nan\n30,1,1,1,1,3\n"
	if _, err := dataset.Parse(strings.NewReader(in)); !errors.Is(err, dataset.ErrNonFinite) {
		t.Fatalf("parse: expected ErrNonFinite, got %v", err)
	}
	if _, err := dataset.New("test.csv", strengthSamples(1, 2, math.NaN(), 3)); !errors.Is(err, dataset.ErrNonFinite) {
		t.Fatalf("new: expected ErrNonFinite, got %v", err)
	}

	det := Detect(mustDataset(t, strengthSamples(1, 2, 3)), DefaultThresholdFactor)
	if math.IsNaN(det.Threshold) || det.HasEvents() {
		t.Fatalf("threshold=%v count=%d, want finite threshold and no events", det.Threshold, det.Count())
	}
}
