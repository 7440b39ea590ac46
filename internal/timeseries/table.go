// Package timeseries provides the in-memory signal table consumed by the
// segmentation engine, plus the smoothing and edge-detection primitives
// shared by all detectors.
package timeseries

import (
	"fmt"
	"math"
)

// Table is a time-ordered collection of samples with named numeric channels.
// The time column is in seconds and must be strictly increasing with a
// uniform sampling interval. Tables are read-only to the detectors.
type Table struct {
	time     []float64
	channels map[string][]float64
	order    []string
}

// NewTable creates a Table over the given time column. The column must be
// strictly increasing and uniformly sampled; the interval is taken from the
// first two samples.
func NewTable(timeCol []float64) (*Table, error) {
	for i := 1; i < len(timeCol); i++ {
		if timeCol[i] <= timeCol[i-1] {
			return nil, fmt.Errorf("time column not strictly increasing at index %d (%.6f -> %.6f)",
				i, timeCol[i-1], timeCol[i])
		}
	}
	if len(timeCol) > 2 {
		dt := timeCol[1] - timeCol[0]
		tolerance := dt * 1e-6
		for i := 2; i < len(timeCol); i++ {
			if step := timeCol[i] - timeCol[i-1]; math.Abs(step-dt) > tolerance {
				return nil, fmt.Errorf("time column not uniformly sampled at index %d (step %.9f, expected %.9f)",
					i, step, dt)
			}
		}
	}
	return &Table{
		time:     timeCol,
		channels: make(map[string][]float64),
	}, nil
}

// AddChannel attaches a named channel. The channel must match the time
// column in length.
func (t *Table) AddChannel(name string, values []float64) error {
	if len(values) != len(t.time) {
		return fmt.Errorf("channel %q has %d samples, time column has %d", name, len(values), len(t.time))
	}
	if _, exists := t.channels[name]; exists {
		return fmt.Errorf("channel %q already present", name)
	}
	t.channels[name] = values
	t.order = append(t.order, name)
	return nil
}

// Len returns the number of samples.
func (t *Table) Len() int {
	return len(t.time)
}

// Time returns the time column.
func (t *Table) Time() []float64 {
	return t.time
}

// TimeAt returns the timestamp at sample index i.
func (t *Table) TimeAt(i int) float64 {
	return t.time[i]
}

// Channel returns the named channel, or false when it is absent.
func (t *Table) Channel(name string) ([]float64, bool) {
	c, ok := t.channels[name]
	return c, ok
}

// HasChannel reports whether the named channel is present.
func (t *Table) HasChannel(name string) bool {
	_, ok := t.channels[name]
	return ok
}

// ChannelNames returns channel names in insertion order.
func (t *Table) ChannelNames() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Dt returns the sampling interval in seconds. Tables with fewer than two
// samples have no defined interval and return 0.
func (t *Table) Dt() float64 {
	if len(t.time) < 2 {
		return 0
	}
	return t.time[1] - t.time[0]
}

// SamplesFor converts a duration in seconds to a sample count, rounding to
// the nearest sample and never returning less than 1.
func (t *Table) SamplesFor(seconds float64) int {
	dt := t.Dt()
	if dt <= 0 {
		return 1
	}
	n := int(math.Round(seconds / dt))
	if n < 1 {
		n = 1
	}
	return n
}

// SumChannels returns the elementwise sum of the named channels. The second
// return is false when any channel is missing.
func (t *Table) SumChannels(names ...string) ([]float64, bool) {
	sum := make([]float64, len(t.time))
	for _, name := range names {
		c, ok := t.channels[name]
		if !ok {
			return nil, false
		}
		for i, v := range c {
			sum[i] += v
		}
	}
	return sum, true
}
