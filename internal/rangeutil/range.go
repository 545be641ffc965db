// Package rangeutil implements spec.md §4.1 (C1): intervals over a
// fixed set of dimensions (retention time, m/z, intensity) with
// union/intersection/extension operations and the clamping invariants
// the rest of the core relies on.
//
// Grounded on the teacher's l2frames geometry helpers for the small,
// pure-function style (internal/lidar/l2frames/geometry.go), and on
// original_source/src/tests/class_tests/openms/source/DRange_test.cpp
// for the exact swap/clamp semantics used in the tests below (S1).
package rangeutil

import "math"

// Containment is the result of comparing two ranges on one axis.
type Containment int

const (
	Disjoint Containment = iota
	Intersects
	Inside
)

// Range1D is a closed interval [Min, Max] on a single dimension. The
// zero value is the degenerate range [0, 0].
type Range1D struct {
	Min, Max float64
}

// NewRange1D builds a Range1D, silently swapping min/max if given in
// reversed order so that Min <= Max always holds (spec.md §3, "Range
// invariants").
func NewRange1D(min, max float64) Range1D {
	if min > max {
		min, max = max, min
	}
	return Range1D{Min: min, Max: max}
}

// EmptyRange1D returns a range that has never been set: both bounds
// are the IEEE "unset" sentinel used throughout this package, +Inf for
// Min and -Inf for Max, so that Union with any real range yields that
// range.
func EmptyRange1D() Range1D {
	return Range1D{Min: math.Inf(1), Max: math.Inf(-1)}
}

// IsEmpty reports whether Min > Max, as for EmptyRange1D.
func (r Range1D) IsEmpty() bool {
	return r.Min > r.Max
}

// Center returns the midpoint of the range.
func (r Range1D) Center() float64 {
	return (r.Min + r.Max) / 2
}

// Span returns Max - Min.
func (r Range1D) Span() float64 {
	return r.Max - r.Min
}

// Encloses reports whether p lies within the closed interval
// [Min, Max] (spec.md §4.1, "inclusive half-open semantics" — in the
// 1-D case this degenerates to a plain closed interval).
func (r Range1D) Encloses(p float64) bool {
	return p >= r.Min && p <= r.Max
}

// PullIn clamps p into [Min, Max].
func (r Range1D) PullIn(p float64) float64 {
	if p < r.Min {
		return r.Min
	}
	if p > r.Max {
		return r.Max
	}
	return p
}

// Extend scales the range about its center by factor, which must be
// >= 0: the new span is (1+factor) times the old one. A factor of 1
// doubles the span; a factor of 0 leaves the range unchanged.
func (r Range1D) Extend(factor float64) (Range1D, error) {
	if factor < 0 {
		return r, errInvalidExtendFactor(factor)
	}
	c := r.Center()
	halfSpan := r.Span() / 2 * (1 + factor)
	return Range1D{Min: c - halfSpan, Max: c + halfSpan}, nil
}

// ExtendBy grows the range symmetrically by amount on each side. A
// negative amount shrinks the range; if the shrinkage would invert
// Min > Max, the result clamps to a degenerate single-point range at
// the center (spec.md §4.1).
func (r Range1D) ExtendBy(amount float64) Range1D {
	newMin, newMax := r.Min-amount, r.Max+amount
	if newMin > newMax {
		c := r.Center()
		return Range1D{Min: c, Max: c}
	}
	return Range1D{Min: newMin, Max: newMax}
}

// EnsureMinSpan grows the range symmetrically about its center to meet
// floor if its current span is below it; otherwise returns r
// unchanged.
func (r Range1D) EnsureMinSpan(floor float64) Range1D {
	if r.Span() >= floor {
		return r
	}
	c := r.Center()
	half := floor / 2
	return Range1D{Min: c - half, Max: c + half}
}

// United returns the per-dimension min/max envelope of r and other. If
// either range is empty (per IsEmpty), the other is returned
// unchanged.
func (r Range1D) United(other Range1D) Range1D {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Range1D{
		Min: math.Min(r.Min, other.Min),
		Max: math.Max(r.Max, other.Max),
	}
}

// Intersects classifies r relative to other on this single axis.
func (r Range1D) Intersects(other Range1D) Containment {
	if r.Max < other.Min || r.Min > other.Max {
		return Disjoint
	}
	if other.Min >= r.Min && other.Max <= r.Max {
		return Inside
	}
	return Intersects
}
