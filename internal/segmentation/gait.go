package segmentation

import (
	"fmt"
	"sort"

	"github.com/jmontp/LocoHub-sub016/internal/timeseries"
)

// Limb identifies one side in cross-limb operations.
type Limb string

const (
	LimbLeft  Limb = "left"
	LimbRight Limb = "right"

	// LimbUndetermined is the explicit "no clear first limb" outcome.
	// Callers must treat it as undetermined, never default to a side.
	LimbUndetermined Limb = "undetermined"
)

// GaitSegmenter detects heel-strike-to-heel-strike gait cycles from per-limb
// heel-strike percentage channels. The percentage cycles through the stance
// duty cycle and returns to zero at each heel strike.
type GaitSegmenter struct {
	cfg GaitConfig
}

// NewGaitSegmenter validates the configuration and returns a detector.
func NewGaitSegmenter(cfg GaitConfig) (*GaitSegmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("gait config: %w", err)
	}
	return &GaitSegmenter{cfg: cfg}, nil
}

// heelStrikes finds the sample indices where the heel-strike percentage
// signal returns to zero. The in-cycle mask (percentage > 0) is run through
// the edge finder and each run start is stepped back one sample so the
// returned index is the actual event sample.
func heelStrikes(sig []float64) []int {
	mask := make([]bool, len(sig))
	for i, v := range sig {
		mask[i] = v > 0
	}

	var strikes []int
	for _, run := range timeseries.Runs(mask) {
		if run.Start == 0 {
			// Trial begins mid-cycle; no event sample exists for it.
			continue
		}
		strikes = append(strikes, run.Start-1)
	}
	return strikes
}

// detectLimb segments one limb's heel-strike channel into cycles. Each pair
// of consecutive strikes within the configured window yields one cycle from
// the first strike through the sample before the next strike.
func (g *GaitSegmenter) detectLimb(tbl *timeseries.Table, column string) []Segment {
	sig, ok := tbl.Channel(column)
	if !ok || len(sig) < 2 {
		return nil
	}

	strikes := heelStrikes(sig)
	t := tbl.Time()

	var cycles []Segment
	for i := 0; i+1 < len(strikes); i++ {
		start := strikes[i]
		next := strikes[i+1]
		if t[next]-t[start] > g.cfg.MaxCycleDuration {
			continue
		}
		end := next - 1
		cycles = append(cycles, Segment{
			Kind:       KindGaitCycle,
			StartIndex: start,
			EndIndex:   end,
			StartTime:  t[start],
			EndTime:    t[end],
			Duration:   t[end] - t[start],
		})
	}
	return cycles
}

// Detect returns filtered gait cycles for all configured limbs. Missing or
// malformed heel-strike channels yield no segments for that limb rather than
// an error; partial datasets are expected in batch runs.
func (g *GaitSegmenter) Detect(tbl *timeseries.Table) ([]Segment, error) {
	if tbl == nil || tbl.Len() < 2 {
		return nil, nil
	}

	var candidates []Segment
	for _, column := range []string{g.cfg.LeftColumn, g.cfg.RightColumn} {
		if column == "" {
			continue
		}
		candidates = append(candidates, g.detectLimb(tbl, column)...)
	}

	// Left and right cycles interleave in time once merged.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].StartIndex < candidates[j].StartIndex
	})

	return FilterDurations(candidates, g.cfg.Filter), nil
}

// FirstLimb reports which limb strikes first within [windowStart, windowEnd]
// seconds. Ties and windows with no strike on either limb return
// LimbUndetermined.
func (g *GaitSegmenter) FirstLimb(tbl *timeseries.Table, windowStart, windowEnd float64) Limb {
	if tbl == nil || tbl.Len() < 2 {
		return LimbUndetermined
	}

	earliest := func(column string) (float64, bool) {
		sig, ok := tbl.Channel(column)
		if !ok {
			return 0, false
		}
		t := tbl.Time()
		for _, idx := range heelStrikes(sig) {
			if t[idx] >= windowStart && t[idx] <= windowEnd {
				return t[idx], true
			}
		}
		return 0, false
	}

	leftTime, leftOK := earliest(g.cfg.LeftColumn)
	rightTime, rightOK := earliest(g.cfg.RightColumn)

	switch {
	case leftOK && rightOK:
		if leftTime < rightTime {
			return LimbLeft
		}
		if rightTime < leftTime {
			return LimbRight
		}
		return LimbUndetermined
	case leftOK:
		return LimbLeft
	case rightOK:
		return LimbRight
	default:
		return LimbUndetermined
	}
}
