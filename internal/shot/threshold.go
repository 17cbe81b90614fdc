package shot

import (
	"fmt"
	"math"
)

const (
	// CutMultiplier scales the standard deviation in the cut threshold.
	CutMultiplier = 11
	// GradualMultiplier scales the mean in the gradual-transition threshold.
	GradualMultiplier = 2
)

// Stats summarizes a distance series.
type Stats struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
}

// Thresholds are derived once per run from Stats.
type Thresholds struct {
	Cut     float64 `json:"cut" yaml:"cut"`
	Gradual float64 `json:"gradual" yaml:"gradual"`
}

// Inverted reports whether the gradual threshold sits above the cut threshold.
// Detection still runs, but no moderate band exists.
func (t Thresholds) Inverted() bool {
	return t.Gradual > t.Cut
}

// ThresholdsFor derives the cut and gradual thresholds from s.
func ThresholdsFor(s Stats) Thresholds {
	return Thresholds{
		Cut:     s.Mean + CutMultiplier*s.StdDev,
		Gradual: GradualMultiplier * s.Mean,
	}
}

// Estimate computes the mean and population standard deviation of distances
// and the thresholds that follow from them.
func Estimate(distances []int) (Stats, Thresholds, error) {
	if len(distances) < 2 {
		return Stats{}, Thresholds{}, fmt.Errorf("%w: %d entries, need at least 2", ErrDegenerateSeries, len(distances))
	}

	n := float64(len(distances))

	var sum float64
	for _, d := range distances {
		sum += float64(d)
	}
	mean := sum / n

	var sq float64
	for _, d := range distances {
		diff := float64(d) - mean
		sq += diff * diff
	}

	stats := Stats{Mean: mean, StdDev: math.Sqrt(sq / n)}
	return stats, ThresholdsFor(stats), nil
}
