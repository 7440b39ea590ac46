package segmentation

import (
	"fmt"

	"github.com/jmontp/LocoHub-sub016/internal/timeseries"
)

// StandingSegmenter detects cyclic jump/hop activity by finding flight
// phases in the summed bilateral vertical force and pairing consecutive
// landings into cycles.
type StandingSegmenter struct {
	cfg StandingConfig
}

// NewStandingSegmenter validates the configuration and returns a detector.
func NewStandingSegmenter(cfg StandingConfig) (*StandingSegmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("standing config: %w", err)
	}
	return &StandingSegmenter{cfg: cfg}, nil
}

// Detect returns filtered jump cycles. Each cycle runs from one landing to
// the next landing, provided the ground contact between the two flights is
// long enough to rule out double-bounce artifacts. Zero or one accepted
// flight phase yields zero cycles, not an error.
func (s *StandingSegmenter) Detect(tbl *timeseries.Table) ([]Segment, error) {
	if tbl == nil || tbl.Len() < 2 {
		return nil, nil
	}

	force, ok := tbl.SumChannels(s.cfg.LeftForceColumn, s.cfg.RightForceColumn)
	if !ok {
		return nil, nil
	}

	dt := tbl.Dt()
	t := tbl.Time()
	n := tbl.Len()

	smoothed := timeseries.MovingAverage(force, tbl.SamplesFor(s.cfg.SmoothingWindow))

	airborne := make([]bool, n)
	for i, f := range smoothed {
		airborne[i] = f < s.cfg.FlightThresholdN
	}

	// Short sub-threshold dips are noise, not real loss of contact.
	var flights []timeseries.Run
	for _, run := range timeseries.Runs(airborne) {
		if float64(run.Len())*dt >= s.cfg.MinFlightDuration {
			flights = append(flights, run)
		}
	}

	var candidates []Segment
	for i := 0; i+1 < len(flights); i++ {
		first, second := flights[i], flights[i+1]

		contact := t[second.Start] - t[first.End]
		if contact < s.cfg.MinContactDuration {
			continue
		}

		start := first.End + 1  // landing that opens the cycle
		end := second.End + 1   // landing that closes it
		if end > n-1 {
			// The closing flight never lands inside the recording.
			continue
		}

		candidates = append(candidates, Segment{
			Kind:           KindJumpCycle,
			StartIndex:     start,
			EndIndex:       end,
			StartTime:      t[start],
			EndTime:        t[end],
			Duration:       t[end] - t[start],
			FlightDuration: float64(second.Len()) * dt,
		})
	}

	return FilterDurations(candidates, s.cfg.Filter), nil
}
