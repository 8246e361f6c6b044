package core

import "math"

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

// Interval represents a numeric range with bounds Min and Max, used to gate
// intersection roots and slab tests. Contains treats it as closed, Surrounds
// as open.
type Interval struct {
	Min, Max float64
}

// NewInterval creates an interval. Callers are expected to pass Min <= Max;
// an empty/degenerate interval (Min > Max) is allowed and simply contains
// nothing.
func NewInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

// Contains reports whether x lies in the closed interval [Min, Max].
func (i Interval) Contains(x float64) bool {
	return i.Min <= x && x <= i.Max
}

// Surrounds reports whether x lies in the open interval (Min, Max).
func (i Interval) Surrounds(x float64) bool {
	return i.Min < x && x < i.Max
}

// Size returns Max - Min.
func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// Expand returns the interval widened by delta in total: delta/2 on each side.
func (i Interval) Expand(delta float64) Interval {
	padding := delta / 2
	return Interval{Min: i.Min - padding, Max: i.Max + padding}
}

// Clamp clamps x into [Min, Max].
func (i Interval) Clamp(x float64) float64 {
	if x < i.Min {
		return i.Min
	}
	if x > i.Max {
		return i.Max
	}
	return x
}

// Universe is an interval containing every real number.
var Universe = Interval{Min: negInf, Max: posInf}

// Empty is an interval that contains nothing.
var Empty = Interval{Min: posInf, Max: negInf}
