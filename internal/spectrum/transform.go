package spectrum

import (
	"fmt"
	"strings"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Transform computes the discrete Fourier transform of a real sequence.
// The result must hold at least the coefficients 0..len(seq)/2.
type Transform func(seq []float64) []complex128

// GonumTransform uses gonum's real FFT, which returns len(seq)/2+1 coefficients.
func GonumTransform(seq []float64) []complex128 {
	if len(seq) == 0 {
		return nil
	}
	return fourier.NewFFT(len(seq)).Coefficients(nil, seq)
}

// DSPTransform uses go-dsp, which returns the full len(seq) coefficients.
func DSPTransform(seq []float64) []complex128 {
	if len(seq) == 0 {
		return nil
	}
	return fft.FFTReal(seq)
}

// Backend names accepted by ParseBackend.
const (
	BackendGonum = "gonum"
	BackendDSP   = "godsp"
)

// ParseBackend maps a configured backend name to its Transform.
func ParseBackend(name string) (Transform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendGonum:
		return GonumTransform, nil
	case BackendDSP, "go-dsp":
		return DSPTransform, nil
	default:
		return nil, fmt.Errorf("unsupported fft backend %q (use %s|%s)", name, BackendGonum, BackendDSP)
	}
}
