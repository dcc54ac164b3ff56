package spectrum

// FindPeaks returns the indices of strict local maxima in mag whose value
// exceeds height. The first and last samples are never peaks, and a sample
// equal to either neighbour (a plateau) is not a peak.
func FindPeaks(mag []float64, height float64) []int {
	var peaks []int
	for i := 1; i < len(mag)-1; i++ {
		v := mag[i]
		if v > mag[i-1] && v > mag[i+1] && v > height {
			peaks = append(peaks, i)
		}
	}
	return peaks
}
