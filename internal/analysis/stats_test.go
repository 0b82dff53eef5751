package analysis

import (
	"math"
	"testing"
)

func TestNewDescribe(t *testing.T) {
	d := NewDescribe([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	if d.Count != 8 {
		t.Errorf("Count = %d, want 8", d.Count)
	}
	if d.Mean != 5 {
		t.Errorf("Mean = %v, want 5", d.Mean)
	}
	if d.Min != 2 || d.Max != 9 {
		t.Errorf("Min/Max = %v/%v, want 2/9", d.Min, d.Max)
	}
	// Sample std of this set is sqrt(32/7).
	if want := math.Sqrt(32.0 / 7.0); math.Abs(d.Std-want) > 1e-12 {
		t.Errorf("Std = %v, want %v", d.Std, want)
	}
}

func TestDescribe_Empty(t *testing.T) {
	d := NewDescribe(nil)
	if d.Count != 0 {
		t.Errorf("Count = %d, want 0", d.Count)
	}
	if !math.IsNaN(d.Percentile(0.5)) {
		t.Errorf("Percentile on empty = %v, want NaN", d.Percentile(0.5))
	}
}

func TestDescribe_IgnoresNaN(t *testing.T) {
	d := NewDescribe([]float64{1, math.NaN(), 3})
	if d.Count != 2 {
		t.Errorf("Count = %d, want 2", d.Count)
	}
	if d.Mean != 2 {
		t.Errorf("Mean = %v, want 2", d.Mean)
	}
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	d := NewDescribe([]float64{10, 20, 30, 40})

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{0.5, 25},
		{1, 40},
		{0.25, 17.5},
		{0.9, 37},
	}
	for _, tt := range tests {
		if got := d.Percentile(tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestMedian_OddCount(t *testing.T) {
	d := NewDescribe([]float64{3, 1, 2})
	if got := d.Median(); got != 2 {
		t.Errorf("Median = %v, want 2", got)
	}
}
