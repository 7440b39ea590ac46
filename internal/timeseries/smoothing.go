package timeseries

// MovingAverage applies a centered moving average with the given window size
// in samples. Windows are clipped at the signal boundaries, so edge samples
// average over fewer points rather than zero-padding. A window of 1 or less
// returns a copy of the input.
func MovingAverage(data []float64, window int) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	if window <= 1 {
		copy(out, data)
		return out
	}

	half := window / 2
	// Prefix sums keep this O(n) for the large force traces.
	prefix := make([]float64, n+1)
	for i, v := range data {
		prefix[i+1] = prefix[i] + v
	}

	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}
	return out
}
