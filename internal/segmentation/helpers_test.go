package segmentation

import (
	"testing"

	"github.com/jmontp/LocoHub-sub016/internal/timeseries"
)

// makeTable builds a table sampled at dt seconds with the given channels.
// All channels must share the same length.
func makeTable(t *testing.T, dt float64, channels map[string][]float64) *timeseries.Table {
	t.Helper()

	n := 0
	for _, c := range channels {
		n = len(c)
		break
	}
	timeCol := make([]float64, n)
	for i := range timeCol {
		timeCol[i] = float64(i) * dt
	}

	tbl, err := timeseries.NewTable(timeCol)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	for name, c := range channels {
		if err := tbl.AddChannel(name, c); err != nil {
			t.Fatalf("adding channel %q: %v", name, err)
		}
	}
	return tbl
}

// repeat builds a slice of n copies of v.
func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// ramp builds a linear ramp from a to b over n samples (inclusive of a,
// exclusive of b).
func ramp(a, b float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = a + (b-a)*float64(i)/float64(n)
	}
	return out
}

// concat joins signal pieces.
func concat(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// durationsOf extracts segment durations for comparisons.
func durationsOf(segs []Segment) []float64 {
	out := make([]float64, len(segs))
	for i, s := range segs {
		out[i] = s.Duration
	}
	return out
}
