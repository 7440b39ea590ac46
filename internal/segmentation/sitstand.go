package segmentation

import (
	"fmt"
	"math"

	"github.com/jmontp/LocoHub-sub016/internal/timeseries"
)

// SitStandSegmenter detects sit-to-stand and stand-to-sit transfers by
// combining a force-derived posture state with an optional joint-velocity
// motion state. Posture flips locate candidate transitions; the motion
// signal, when present, refines each window to the true movement onset and
// offset. Without velocity channels a coarser force-only heuristic bounds
// the window instead.
type SitStandSegmenter struct {
	cfg SitStandConfig
}

// NewSitStandSegmenter validates the configuration and returns a detector.
func NewSitStandSegmenter(cfg SitStandConfig) (*SitStandSegmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sit-stand config: %w", err)
	}
	return &SitStandSegmenter{cfg: cfg}, nil
}

// boundaryResolver maps a transition crossing to a [start, end] window,
// constrained to [lo, hi] so neighboring transitions never overlap.
type boundaryResolver func(crossing, lo, hi int) (int, int)

// Detect returns filtered transfer segments. Missing force channels yield no
// segments rather than an error.
func (s *SitStandSegmenter) Detect(tbl *timeseries.Table) ([]Segment, error) {
	if tbl == nil || tbl.Len() < 2 {
		return nil, nil
	}

	force, ok := tbl.SumChannels(s.cfg.LeftForceColumn, s.cfg.RightForceColumn)
	if !ok {
		return nil, nil
	}

	t := tbl.Time()
	n := tbl.Len()
	window := tbl.SamplesFor(s.cfg.SmoothingWindow)
	smoothed := timeseries.MovingAverage(force, window)

	states := ClassifyPosture(smoothed, s.cfg.StandingThresholdN, s.cfg.SittingThresholdN)
	transitions := findTransitions(states)
	if len(transitions) == 0 {
		return nil, nil
	}

	// Pick the boundary strategy once per call instead of checking data
	// availability inside the search loops.
	var resolve boundaryResolver
	if moving, ok := s.motionState(tbl); ok {
		resolve = s.motionResolver(tbl, moving)
	} else {
		resolve = s.forceResolver(tbl, smoothed)
	}

	var candidates []Segment
	for i, tr := range transitions {
		lo := 0
		if i > 0 {
			lo = transitions[i-1].index
		}
		hi := n - 1
		if i+1 < len(transitions) {
			hi = transitions[i+1].index
		}

		start, end := resolve(tr.index, lo, hi)

		// Optional trim of a known lead-in artifact.
		if s.cfg.StartTrimFraction > 0 {
			start += int(s.cfg.StartTrimFraction * float64(end-start))
		}

		// Windows narrower than the guard are noise regardless of
		// duration filtering.
		if end-start+1 < s.cfg.MinSegmentSamples {
			continue
		}

		candidates = append(candidates, Segment{
			Kind:       tr.kind,
			StartIndex: start,
			EndIndex:   end,
			StartTime:  t[start],
			EndTime:    t[end],
			Duration:   t[end] - t[start],
			MidTime:    t[tr.index],
		})
	}

	// Both transfer kinds are pooled into one population for the adaptive
	// bounds; splitting them changes accepted/rejected counts downstream.
	return FilterDurations(candidates, s.cfg.Filter), nil
}

// motionState builds the moving/stable classification from whichever
// configured joint-velocity channels the table carries: the maximum absolute
// velocity across joints, smoothed, compared against the velocity threshold.
// The second return is false when no velocity channel is present.
func (s *SitStandSegmenter) motionState(tbl *timeseries.Table) ([]bool, bool) {
	n := tbl.Len()
	var envelope []float64
	for _, name := range s.cfg.VelocityColumns {
		vel, ok := tbl.Channel(name)
		if !ok {
			continue
		}
		if envelope == nil {
			envelope = make([]float64, n)
		}
		for i, v := range vel {
			if a := math.Abs(v); a > envelope[i] {
				envelope[i] = a
			}
		}
	}
	if envelope == nil {
		return nil, false
	}

	smoothed := timeseries.MovingAverage(envelope, tbl.SamplesFor(s.cfg.SmoothingWindow))
	moving := make([]bool, n)
	for i, v := range smoothed {
		moving[i] = v > s.cfg.VelocityThreshold
	}
	return moving, true
}

// motionResolver refines transition windows using the motion state. The
// onset is the most recent sample before the crossing where velocity has
// stayed below threshold for at least half the minimum-stable window; the
// offset is found symmetrically forward. The relaxed half-window is a
// separate tunable from the force fallback's full window because the
// velocity envelope is the noisier signal. A fixed margin widens the window
// on both sides so the real movement is not clipped.
func (s *SitStandSegmenter) motionResolver(tbl *timeseries.Table, moving []bool) boundaryResolver {
	n := len(moving)
	halfWindow := tbl.SamplesFor(s.cfg.MinStableDuration / 2)
	margin := 0
	if s.cfg.Margin > 0 {
		margin = tbl.SamplesFor(s.cfg.Margin)
	}

	// stableEndingAt[i]: consecutive stable samples ending at i.
	// stableStartingAt[i]: consecutive stable samples starting at i.
	stableEndingAt := make([]int, n)
	stableStartingAt := make([]int, n)
	for i := 0; i < n; i++ {
		if !moving[i] {
			stableEndingAt[i] = 1
			if i > 0 {
				stableEndingAt[i] += stableEndingAt[i-1]
			}
		}
	}
	for i := n - 1; i >= 0; i-- {
		if !moving[i] {
			stableStartingAt[i] = 1
			if i < n-1 {
				stableStartingAt[i] += stableStartingAt[i+1]
			}
		}
	}

	return func(crossing, lo, hi int) (int, int) {
		onset := lo
		for i := crossing; i >= lo; i-- {
			if stableEndingAt[i] >= halfWindow {
				onset = i
				break
			}
		}
		offset := hi
		for i := crossing; i <= hi; i++ {
			if stableStartingAt[i] >= halfWindow {
				offset = i
				break
			}
		}

		start := onset - margin
		if start < lo {
			start = lo
		}
		end := offset + margin
		if end > hi {
			end = hi
		}
		return start, end
	}
}

// forceResolver is the fallback when no velocity data is available: each
// boundary is placed by walking outward from the crossing until a full
// minimum-stable window of the adjacent plateau's confident raw state has
// been observed, and anchoring the boundary at that window's outer edge.
// The backward walk requires the state being left (not the state at the
// crossing, which is already the arrived-at plateau); the forward walk
// requires the state being entered. Band samples count as transition, never
// as a carried state, so they contribute to neither side. The crossing is
// therefore strictly interior to the resolved window. Coarser than the
// motion search but still bounded by neighboring transitions.
func (s *SitStandSegmenter) forceResolver(tbl *timeseries.Table, force []float64) boundaryResolver {
	n := len(force)
	fullWindow := tbl.SamplesFor(s.cfg.MinStableDuration)

	raw := make([]PostureState, n)
	for i, f := range force {
		raw[i] = rawPosture(f, s.cfg.StandingThresholdN, s.cfg.SittingThresholdN)
	}

	// Run lengths of identical confident raw states, ending at / starting
	// at each sample. Transition samples reset the count.
	endingAt := make([]int, n)
	startingAt := make([]int, n)
	for i := 0; i < n; i++ {
		if raw[i] == PostureSitting || raw[i] == PostureStanding {
			endingAt[i] = 1
			if i > 0 && raw[i-1] == raw[i] {
				endingAt[i] += endingAt[i-1]
			}
		}
	}
	for i := n - 1; i >= 0; i-- {
		if raw[i] == PostureSitting || raw[i] == PostureStanding {
			startingAt[i] = 1
			if i < n-1 && raw[i+1] == raw[i] {
				startingAt[i] += startingAt[i+1]
			}
		}
	}

	return func(crossing, lo, hi int) (int, int) {
		arrived := raw[crossing]

		// Backward walk observes samples [i, i+window-1]; it stops at
		// the largest i where that whole span is one confident state
		// other than the arrived-at one.
		start := lo
		for i := crossing; i >= lo; i-- {
			if startingAt[i] >= fullWindow && raw[i] != arrived {
				start = i
				break
			}
		}
		// Forward walk observes samples [i-window+1, i] of the
		// arrived-at state.
		end := hi
		for i := crossing; i <= hi; i++ {
			if endingAt[i] >= fullWindow && raw[i] == arrived {
				end = i
				break
			}
		}
		return start, end
	}
}
