package crawl

import "testing"

func TestStuckDetector(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		stuck  bool
	}{
		{
			name:   "growing counts never stick",
			counts: []int{1, 2, 3, 4, 5, 6, 7, 8},
			stuck:  false,
		},
		{
			name:   "flat nonzero count sticks at threshold",
			counts: []int{5, 5, 5, 5},
			stuck:  true,
		},
		{
			name:   "flat below threshold",
			counts: []int{5, 5, 5},
			stuck:  false,
		},
		{
			name:   "zero counts never stick",
			counts: []int{0, 0, 0, 0, 0, 0},
			stuck:  false,
		},
		{
			name:   "change resets the counter",
			counts: []int{5, 5, 5, 6, 6, 6},
			stuck:  false,
		},
		{
			name:   "sticks after a reset",
			counts: []int{5, 5, 6, 6, 6, 6},
			stuck:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newStuckDetector(3)
			var stuck bool
			for _, c := range tt.counts {
				stuck = d.observe(c)
			}
			if stuck != tt.stuck {
				t.Errorf("observe(%v) final = %v, want %v", tt.counts, stuck, tt.stuck)
			}
		})
	}
}

func TestStuckDetectorFirstObservation(t *testing.T) {
	// The first poll sets the baseline; even a repeat of the initial
	// internal value must not count as unchanged.
	d := newStuckDetector(1)
	if d.observe(7) {
		t.Error("first observation reported stuck")
	}
	if !d.observe(7) {
		t.Error("second identical observation should report stuck at threshold 1")
	}
}
