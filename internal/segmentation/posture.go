package segmentation

// PostureState is the coarse force-derived classification of body position.
type PostureState int

const (
	PostureUnknown PostureState = iota
	PostureSitting
	PostureStanding
	PostureTransition
)

func (p PostureState) String() string {
	switch p {
	case PostureSitting:
		return "sitting"
	case PostureStanding:
		return "standing"
	case PostureTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// ClassifyPosture runs a single forward pass over the smoothed total force,
// classifying each sample as standing above the upper threshold and sitting
// below the lower one. Samples inside the hysteresis band carry forward the
// previous confirmed state, which prevents chatter at the boundary. Before
// any confident classification the carried state is unknown and resolves to
// transition.
func ClassifyPosture(force []float64, standingThresholdN, sittingThresholdN float64) []PostureState {
	states := make([]PostureState, len(force))
	confirmed := PostureUnknown

	for i, f := range force {
		switch {
		case f > standingThresholdN:
			confirmed = PostureStanding
			states[i] = PostureStanding
		case f < sittingThresholdN:
			confirmed = PostureSitting
			states[i] = PostureSitting
		default:
			if confirmed == PostureUnknown {
				states[i] = PostureTransition
			} else {
				states[i] = confirmed
			}
		}
	}
	return states
}

// rawPosture classifies a single force sample without hysteresis carry-over.
// Band samples are transition. The force-only boundary search uses this so
// that samples inside the band never count as stable sitting or standing.
func rawPosture(f, standingThresholdN, sittingThresholdN float64) PostureState {
	switch {
	case f > standingThresholdN:
		return PostureStanding
	case f < sittingThresholdN:
		return PostureSitting
	default:
		return PostureTransition
	}
}

// postureTransition is one candidate posture flip at an exact crossing
// sample.
type postureTransition struct {
	index int
	kind  Kind
}

// findTransitions scans consecutive posture states for sitting->standing and
// standing->sitting flips.
func findTransitions(states []PostureState) []postureTransition {
	var out []postureTransition
	for i := 1; i < len(states); i++ {
		prev, cur := states[i-1], states[i]
		switch {
		case prev == PostureSitting && cur == PostureStanding:
			out = append(out, postureTransition{index: i, kind: KindSitToStand})
		case prev == PostureStanding && cur == PostureSitting:
			out = append(out, postureTransition{index: i, kind: KindStandToSit})
		}
	}
	return out
}
