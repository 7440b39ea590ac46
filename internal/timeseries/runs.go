package timeseries

// Run is a maximal contiguous block of true samples in a boolean signal.
// Both Start and End are inclusive sample indices.
type Run struct {
	Start int
	End   int
}

// Len returns the number of samples in the run.
func (r Run) Len() int {
	return r.End - r.Start + 1
}

// Runs finds all maximal contiguous true runs in mask. The mask is padded
// with false sentinels on both sides before taking the first difference, so
// runs touching either boundary are still detected. A +1 difference marks a
// run start; a -1 difference, shifted back one sample, marks the inclusive
// run end. An empty or all-false mask yields no runs.
func Runs(mask []bool) []Run {
	n := len(mask)
	if n == 0 {
		return nil
	}

	var runs []Run
	prev := false // leading sentinel
	start := -1
	for i := 0; i <= n; i++ {
		cur := false // trailing sentinel
		if i < n {
			cur = mask[i]
		}
		switch {
		case cur && !prev:
			start = i
		case !cur && prev:
			runs = append(runs, Run{Start: start, End: i - 1})
		}
		prev = cur
	}
	return runs
}
