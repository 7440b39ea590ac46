package database

import "time"

// Trial is one segmented recording stored in the trial database.
type Trial struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Task       string    `json:"task"`
	Archetype  string    `json:"archetype"`
	SourceFile string    `json:"source_file"`
	SampleRate float64   `json:"sample_rate"`
	CreatedAt  time.Time `json:"created_at"`
}

// SegmentRecord is one stored segment row belonging to a trial.
type SegmentRecord struct {
	ID             int64   `json:"id"`
	TrialID        string  `json:"trial_id"`
	Kind           string  `json:"kind"`
	StartIndex     int     `json:"start_index"`
	EndIndex       int     `json:"end_index"`
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	Duration       float64 `json:"duration"`
	FlightDuration float64 `json:"flight_duration"`
	MidTime        float64 `json:"mid_time"`
}

// KindCount is one per-kind segment tally for a trial.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}
