package segmentation

import "fmt"

// FilterConfig bounds the duration-based outlier filter shared by all
// archetypes. MinDuration and MaxDuration are the absolute floor and ceiling
// in seconds; Adaptive enables the IQR policy on top of them.
type FilterConfig struct {
	MinDuration float64
	MaxDuration float64
	Adaptive    bool
}

func (c FilterConfig) validate() error {
	if c.MinDuration < 0 {
		return fmt.Errorf("min duration must be non-negative, got %.3f", c.MinDuration)
	}
	if c.MaxDuration <= c.MinDuration {
		return fmt.Errorf("max duration (%.3f) must exceed min duration (%.3f)", c.MaxDuration, c.MinDuration)
	}
	return nil
}

// GaitConfig parameterizes heel-strike-to-heel-strike gait cycle detection.
type GaitConfig struct {
	// LeftColumn and RightColumn name the per-limb heel-strike percentage
	// channels. A missing channel skips that limb.
	LeftColumn  string
	RightColumn string

	// MaxCycleDuration is the widest plausible stride time in seconds;
	// consecutive heel strikes further apart than this do not pair.
	MaxCycleDuration float64

	Filter FilterConfig
}

// DefaultGaitConfig returns detection parameters suitable for level walking.
func DefaultGaitConfig() GaitConfig {
	return GaitConfig{
		LeftColumn:       "hs_left",
		RightColumn:      "hs_right",
		MaxCycleDuration: 2.5,
		Filter: FilterConfig{
			MinDuration: 0.4,
			MaxDuration: 2.5,
			Adaptive:    true,
		},
	}
}

// Validate fails fast on parameter misuse.
func (c GaitConfig) Validate() error {
	if c.LeftColumn == "" && c.RightColumn == "" {
		return fmt.Errorf("at least one heel-strike column must be named")
	}
	if c.MaxCycleDuration <= 0 {
		return fmt.Errorf("max cycle duration must be positive, got %.3f", c.MaxCycleDuration)
	}
	if err := c.Filter.validate(); err != nil {
		return fmt.Errorf("gait filter: %w", err)
	}
	return nil
}

// StandingConfig parameterizes flight-phase detection for cyclic jump/hop
// activity on summed bilateral vertical force.
type StandingConfig struct {
	LeftForceColumn  string
	RightForceColumn string

	// FlightThresholdN marks a sample as airborne when smoothed total
	// force falls below it.
	FlightThresholdN float64

	// MinFlightDuration rejects sub-threshold dips shorter than this as
	// noise rather than real loss of contact.
	MinFlightDuration float64

	// MinContactDuration is the shortest ground-contact interval between
	// two flights that still counts as a distinct cycle; shorter contacts
	// are double-bounce artifacts.
	MinContactDuration float64

	// SmoothingWindow is the centered moving-average window in seconds.
	SmoothingWindow float64

	Filter FilterConfig
}

// DefaultStandingConfig returns detection parameters for countermovement
// jumps and hops.
func DefaultStandingConfig() StandingConfig {
	return StandingConfig{
		LeftForceColumn:    "force_left",
		RightForceColumn:   "force_right",
		FlightThresholdN:   50.0,
		MinFlightDuration:  0.1,
		MinContactDuration: 0.1,
		SmoothingWindow:    0.05,
		Filter: FilterConfig{
			MinDuration: 0.3,
			MaxDuration: 5.0,
			Adaptive:    true,
		},
	}
}

// Validate fails fast on parameter misuse.
func (c StandingConfig) Validate() error {
	if c.LeftForceColumn == "" || c.RightForceColumn == "" {
		return fmt.Errorf("both force columns must be named")
	}
	if c.FlightThresholdN <= 0 {
		return fmt.Errorf("flight threshold must be positive, got %.1f", c.FlightThresholdN)
	}
	if c.MinFlightDuration < 0 || c.MinContactDuration < 0 {
		return fmt.Errorf("flight/contact durations must be non-negative")
	}
	if c.SmoothingWindow < 0 {
		return fmt.Errorf("smoothing window must be non-negative, got %.3f", c.SmoothingWindow)
	}
	if err := c.Filter.validate(); err != nil {
		return fmt.Errorf("standing filter: %w", err)
	}
	return nil
}

// SitStandConfig parameterizes sit-to-stand / stand-to-sit transfer
// detection from force and (optionally) joint angular velocity.
type SitStandConfig struct {
	LeftForceColumn  string
	RightForceColumn string

	// VelocityColumns names the joint angular velocity channels used for
	// motion-state boundary refinement. Channels absent from the table are
	// ignored; when none are present the detector falls back to the
	// force-only heuristic.
	VelocityColumns []string

	// StandingThresholdN and SittingThresholdN bound the hysteresis band:
	// above the upper threshold the posture is standing, below the lower
	// it is sitting, and in between the previous confirmed state carries
	// forward.
	StandingThresholdN float64
	SittingThresholdN  float64

	// VelocityThreshold separates moving from stable in deg/s.
	VelocityThreshold float64

	// MinStableDuration is the stability window in seconds. The motion
	// search accepts half this window of sub-threshold velocity; the
	// force-only fallback requires the full window of a sustained posture
	// state. The asymmetry is intentional: velocity is the noisier signal.
	MinStableDuration float64

	// Margin widens each motion-resolved window by this many seconds on
	// both sides so the real movement is not clipped.
	Margin float64

	// SmoothingWindow is the centered moving-average window in seconds,
	// applied to both force and velocity envelopes.
	SmoothingWindow float64

	// StartTrimFraction removes this fraction of each segment's leading
	// edge, for protocols with a known lead-in artifact. Zero disables.
	StartTrimFraction float64

	// MinSegmentSamples discards resolved windows narrower than this many
	// samples as noise, regardless of duration filtering.
	MinSegmentSamples int

	Filter FilterConfig
}

// DefaultSitStandConfig returns detection parameters for five-times
// sit-to-stand style protocols.
func DefaultSitStandConfig() SitStandConfig {
	return SitStandConfig{
		LeftForceColumn:    "force_left",
		RightForceColumn:   "force_right",
		VelocityColumns:    []string{"knee_velocity_left", "knee_velocity_right", "hip_velocity_left", "hip_velocity_right"},
		StandingThresholdN: 600.0,
		SittingThresholdN:  400.0,
		VelocityThreshold:  15.0,
		MinStableDuration:  0.3,
		Margin:             0.1,
		SmoothingWindow:    0.05,
		StartTrimFraction:  0.0,
		MinSegmentSamples:  10,
		Filter: FilterConfig{
			MinDuration: 0.5,
			MaxDuration: 6.0,
			Adaptive:    true,
		},
	}
}

// Validate fails fast on parameter misuse.
func (c SitStandConfig) Validate() error {
	if c.LeftForceColumn == "" || c.RightForceColumn == "" {
		return fmt.Errorf("both force columns must be named")
	}
	if c.SittingThresholdN <= 0 {
		return fmt.Errorf("sitting threshold must be positive, got %.1f", c.SittingThresholdN)
	}
	if c.StandingThresholdN <= c.SittingThresholdN {
		return fmt.Errorf("standing threshold (%.1f) must exceed sitting threshold (%.1f)",
			c.StandingThresholdN, c.SittingThresholdN)
	}
	if c.VelocityThreshold <= 0 {
		return fmt.Errorf("velocity threshold must be positive, got %.1f", c.VelocityThreshold)
	}
	if c.MinStableDuration <= 0 {
		return fmt.Errorf("min stable duration must be positive, got %.3f", c.MinStableDuration)
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must be non-negative, got %.3f", c.Margin)
	}
	if c.StartTrimFraction < 0 || c.StartTrimFraction >= 1 {
		return fmt.Errorf("start trim fraction must be in [0,1), got %.3f", c.StartTrimFraction)
	}
	if c.MinSegmentSamples < 0 {
		return fmt.Errorf("min segment samples must be non-negative, got %d", c.MinSegmentSamples)
	}
	if err := c.Filter.validate(); err != nil {
		return fmt.Errorf("sit-stand filter: %w", err)
	}
	return nil
}
