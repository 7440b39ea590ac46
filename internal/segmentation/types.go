// Package segmentation turns continuous force and kinematic recordings into
// discrete, labeled movement segments using pluggable detection strategies.
// Supports gait cycles, cyclic standing actions (jumps/hops), and sit-stand
// transfers, with shared duration-based outlier filtering.
package segmentation

import (
	"github.com/jmontp/LocoHub-sub016/internal/timeseries"
)

// Kind identifies the movement archetype a segment belongs to.
type Kind string

const (
	KindGaitCycle  Kind = "gait_cycle"
	KindJumpCycle  Kind = "jump_cycle"
	KindSitToStand Kind = "sit_to_stand"
	KindStandToSit Kind = "stand_to_sit"
)

// Segment is one detected movement cycle or event. Indices are sample
// offsets into the source table; times are the timestamps at those offsets.
// Segments are immutable once returned: filtering removes segments, it never
// edits them.
type Segment struct {
	Kind       Kind    `json:"kind" msgpack:"kind"`
	StartIndex int     `json:"start_index" msgpack:"start_index"`
	EndIndex   int     `json:"end_index" msgpack:"end_index"`
	StartTime  float64 `json:"start_time" msgpack:"start_time"`
	EndTime    float64 `json:"end_time" msgpack:"end_time"`
	Duration   float64 `json:"duration" msgpack:"duration"`

	// FlightDuration is set for jump cycles only: the duration of the
	// flight phase that terminates the cycle.
	FlightDuration float64 `json:"flight_duration,omitempty" msgpack:"flight_duration,omitempty"`

	// MidTime is set for sit-stand transfers only: the timestamp of the
	// posture-state crossing inside the resolved window.
	MidTime float64 `json:"mid_time,omitempty" msgpack:"mid_time,omitempty"`
}

// Summary counts detected segments per kind.
type Summary map[Kind]int

// Summarize tallies segments by kind.
func Summarize(segments []Segment) Summary {
	s := make(Summary)
	for _, seg := range segments {
		s[seg.Kind]++
	}
	return s
}

// Segmenter is the common contract all archetype detectors implement.
// Detect runs one pass over the table and returns the filtered segment list.
// Missing or degenerate input yields an empty list, never an error; errors
// are reserved for invalid configuration discovered at construction time.
type Segmenter interface {
	Detect(tbl *timeseries.Table) ([]Segment, error)
}
