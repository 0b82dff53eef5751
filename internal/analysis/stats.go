package analysis

import (
	"math"
	"sort"
)

// Describe holds descriptive statistics for a sample, in the shape of a
// pandas-style describe table.
type Describe struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64

	sorted []float64
}

// NewDescribe computes descriptive statistics over values. NaN values
// are ignored.
func NewDescribe(values []float64) Describe {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	sort.Float64s(clean)

	d := Describe{Count: len(clean), sorted: clean}
	if d.Count == 0 {
		return d
	}

	d.Min = clean[0]
	d.Max = clean[len(clean)-1]

	var sum float64
	for _, v := range clean {
		sum += v
	}
	d.Mean = sum / float64(d.Count)

	if d.Count > 1 {
		var ss float64
		for _, v := range clean {
			diff := v - d.Mean
			ss += diff * diff
		}
		// Sample standard deviation.
		d.Std = math.Sqrt(ss / float64(d.Count-1))
	}

	return d
}

// Percentile returns the p-th percentile (0 <= p <= 1) using linear
// interpolation between closest ranks. Returns NaN for an empty sample.
func (d Describe) Percentile(p float64) float64 {
	n := len(d.sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return d.sorted[0]
	}

	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return d.sorted[lo]
	}

	frac := rank - float64(lo)
	return d.sorted[lo] + frac*(d.sorted[hi]-d.sorted[lo])
}

// Median is the 50th percentile.
func (d Describe) Median() float64 {
	return d.Percentile(0.5)
}
