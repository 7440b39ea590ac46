package segmentation

import (
	"math"
	"testing"
)

// heelStrikeSignal builds a heel-strike percentage channel of length n where
// the value is 0 at each strike index and climbs by one percent per sample
// in between. Samples before the first strike climb from 50 so the trial
// begins mid-cycle.
func heelStrikeSignal(n int, strikes []int) []float64 {
	sig := make([]float64, n)
	next := 50.0
	strikeSet := make(map[int]bool, len(strikes))
	for _, s := range strikes {
		strikeSet[s] = true
	}
	for i := 0; i < n; i++ {
		if strikeSet[i] {
			next = 0
		}
		sig[i] = next
		next++
	}
	return sig
}

func TestGaitDetectPairsConsecutiveStrikes(t *testing.T) {
	cfg := DefaultGaitConfig()
	cfg.RightColumn = ""
	seg, err := NewGaitSegmenter(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Strikes at 1.0 s, 2.0 s, and 3.0 s -> two cycles.
	tbl := makeTable(t, 0.01, map[string][]float64{
		"hs_left": heelStrikeSignal(400, []int{100, 200, 300}),
	})

	cycles, err := seg.Detect(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d", len(cycles))
	}

	if cycles[0].StartIndex != 100 || cycles[0].EndIndex != 199 {
		t.Errorf("cycle 0 spans [%d, %d], expected [100, 199]", cycles[0].StartIndex, cycles[0].EndIndex)
	}
	if cycles[1].StartIndex != 200 || cycles[1].EndIndex != 299 {
		t.Errorf("cycle 1 spans [%d, %d], expected [200, 299]", cycles[1].StartIndex, cycles[1].EndIndex)
	}

	for i, c := range cycles {
		if c.Kind != KindGaitCycle {
			t.Errorf("cycle %d kind = %s, expected %s", i, c.Kind, KindGaitCycle)
		}
		if math.Abs(c.Duration-0.99) > 1e-9 {
			t.Errorf("cycle %d duration = %.4f, expected 0.99", i, c.Duration)
		}
	}
}

func TestGaitCyclesDoNotOverlap(t *testing.T) {
	cfg := DefaultGaitConfig()
	cfg.RightColumn = ""
	seg, err := NewGaitSegmenter(cfg)
	if err != nil {
		t.Fatal(err)
	}

	tbl := makeTable(t, 0.01, map[string][]float64{
		"hs_left": heelStrikeSignal(700, []int{80, 185, 290, 400, 505, 610}),
	})

	cycles, err := seg.Detect(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) < 2 {
		t.Fatalf("expected multiple cycles, got %d", len(cycles))
	}
	for i := 0; i+1 < len(cycles); i++ {
		if cycles[i].EndIndex >= cycles[i+1].StartIndex {
			t.Errorf("cycle %d end %d overlaps cycle %d start %d",
				i, cycles[i].EndIndex, i+1, cycles[i+1].StartIndex)
		}
	}
}

func TestGaitRespectsMaxCycleDuration(t *testing.T) {
	cfg := DefaultGaitConfig()
	cfg.RightColumn = ""
	cfg.MaxCycleDuration = 0.5
	seg, err := NewGaitSegmenter(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Strikes a full second apart never pair under a 0.5 s window.
	tbl := makeTable(t, 0.01, map[string][]float64{
		"hs_left": heelStrikeSignal(400, []int{100, 200, 300}),
	})

	cycles, err := seg.Detect(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 0 {
		t.Errorf("expected 0 cycles, got %d", len(cycles))
	}
}

func TestGaitMissingChannelYieldsNoSegments(t *testing.T) {
	seg, err := NewGaitSegmenter(DefaultGaitConfig())
	if err != nil {
		t.Fatal(err)
	}

	// Table carries force but neither heel-strike channel.
	tbl := makeTable(t, 0.01, map[string][]float64{
		"force_left": repeat(700, 1000),
	})

	cycles, err := seg.Detect(tbl)
	if err != nil {
		t.Fatalf("missing channels must not error: %v", err)
	}
	if len(cycles) != 0 {
		t.Errorf("expected 0 cycles, got %d", len(cycles))
	}
}

func TestGaitConfigValidation(t *testing.T) {
	cfg := DefaultGaitConfig()
	cfg.LeftColumn = ""
	cfg.RightColumn = ""
	if _, err := NewGaitSegmenter(cfg); err == nil {
		t.Error("expected error for config with no columns")
	}

	cfg = DefaultGaitConfig()
	cfg.MaxCycleDuration = -1
	if _, err := NewGaitSegmenter(cfg); err == nil {
		t.Error("expected error for negative cycle duration")
	}

	cfg = DefaultGaitConfig()
	cfg.Filter.MinDuration = 2.0
	cfg.Filter.MaxDuration = 1.0
	if _, err := NewGaitSegmenter(cfg); err == nil {
		t.Error("expected error for inverted filter bounds")
	}
}

func TestFirstLimb(t *testing.T) {
	seg, err := NewGaitSegmenter(DefaultGaitConfig())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		leftStrikes  []int
		rightStrikes []int
		windowStart  float64
		windowEnd    float64
		expected     Limb
	}{
		{
			name:         "left strikes first",
			leftStrikes:  []int{100, 200},
			rightStrikes: []int{150, 250},
			windowStart:  0.5,
			windowEnd:    3.0,
			expected:     LimbLeft,
		},
		{
			name:         "right strikes first",
			leftStrikes:  []int{150, 250},
			rightStrikes: []int{100, 200},
			windowStart:  0.5,
			windowEnd:    3.0,
			expected:     LimbRight,
		},
		{
			name:         "simultaneous strikes are undetermined",
			leftStrikes:  []int{100},
			rightStrikes: []int{100},
			windowStart:  0.5,
			windowEnd:    3.0,
			expected:     LimbUndetermined,
		},
		{
			name:         "no strikes in window is undetermined",
			leftStrikes:  []int{100},
			rightStrikes: []int{150},
			windowStart:  2.0,
			windowEnd:    3.0,
			expected:     LimbUndetermined,
		},
		{
			name:         "only one limb has strikes",
			leftStrikes:  nil,
			rightStrikes: []int{100},
			windowStart:  0.5,
			windowEnd:    3.0,
			expected:     LimbRight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := makeTable(t, 0.01, map[string][]float64{
				"hs_left":  heelStrikeSignal(400, tt.leftStrikes),
				"hs_right": heelStrikeSignal(400, tt.rightStrikes),
			})
			if got := seg.FirstLimb(tbl, tt.windowStart, tt.windowEnd); got != tt.expected {
				t.Errorf("FirstLimb = %s, expected %s", got, tt.expected)
			}
		})
	}
}
