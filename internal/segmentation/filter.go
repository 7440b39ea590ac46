package segmentation

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// adaptiveMinCandidates is the smallest population the IQR policy will
// operate on; below it the filter falls back to fixed bounds.
const adaptiveMinCandidates = 4

// iqrFenceFactor is the classic Tukey fence multiplier.
const iqrFenceFactor = 1.5

// FilterDurations returns the subset of candidates whose durations are
// plausible under the configured policy.
//
// Fixed-bound keeps durations in [MinDuration, MaxDuration]. The adaptive
// policy then computes Tukey fences from the surviving population's quartiles
// (Q1 - 1.5*IQR, Q3 + 1.5*IQR), clamps them to the absolute bounds, and
// repeats until a pass removes nothing. Running to that fixed point makes the
// filter idempotent: the output already satisfies the fences derived from
// itself, so re-filtering it changes nothing. Populations below four
// candidates use the fixed bounds alone.
//
// The filter only removes segments; it never edits them.
func FilterDurations(candidates []Segment, cfg FilterConfig) []Segment {
	if len(candidates) == 0 {
		return nil
	}

	kept := keepWithin(candidates, cfg.MinDuration, cfg.MaxDuration)
	if !cfg.Adaptive {
		return kept
	}

	for len(kept) >= adaptiveMinCandidates {
		lower, upper := tukeyFences(kept, cfg)
		next := keepWithin(kept, lower, upper)
		if len(next) == len(kept) {
			break
		}
		kept = next
	}
	return kept
}

// tukeyFences derives the adaptive bounds from the population's quartiles,
// clamped to the configured absolute floor and ceiling.
func tukeyFences(segs []Segment, cfg FilterConfig) (float64, float64) {
	durations := make([]float64, len(segs))
	for i, s := range segs {
		durations[i] = s.Duration
	}
	sort.Float64s(durations)

	q1 := stat.Quantile(0.25, stat.Empirical, durations, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, durations, nil)
	iqr := q3 - q1

	lower := cfg.MinDuration
	upper := cfg.MaxDuration
	if fence := q1 - iqrFenceFactor*iqr; fence > lower {
		lower = fence
	}
	if fence := q3 + iqrFenceFactor*iqr; fence < upper {
		upper = fence
	}
	return lower, upper
}

func keepWithin(segs []Segment, lower, upper float64) []Segment {
	kept := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.Duration >= lower && s.Duration <= upper {
			kept = append(kept, s)
		}
	}
	return kept
}
