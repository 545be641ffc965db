package rangeutil

// RangeND is a fixed-dimensionality box, one Range1D per axis. Most
// core types use Dims()==2 (RT, m/z); chromatograms use Dims()==1
// (time).
type RangeND struct {
	axes []Range1D
}

// NewRangeND builds a RangeND from the given per-axis ranges.
func NewRangeND(axes ...Range1D) RangeND {
	cp := make([]Range1D, len(axes))
	copy(cp, axes)
	return RangeND{axes: cp}
}

// Dims returns the number of axes.
func (r RangeND) Dims() int { return len(r.axes) }

// Axis returns the Range1D for dimension i.
func (r RangeND) Axis(i int) Range1D { return r.axes[i] }

// SwapDimensions permutes the axes according to perm, a permutation of
// [0, Dims()). Used to reconcile RT/m/z axis ordering between a
// spectrum's native (m/z-major) layout and a 2D map's (RT-major)
// layout (spec.md §4.1).
func (r RangeND) SwapDimensions(perm []int) RangeND {
	out := make([]Range1D, len(perm))
	for i, p := range perm {
		out[i] = r.axes[p]
	}
	return RangeND{axes: out}
}

// Encloses reports whether every coordinate of point lies within its
// corresponding axis.
func (r RangeND) Encloses(point []float64) bool {
	if len(point) != len(r.axes) {
		return false
	}
	for i, p := range point {
		if !r.axes[i].Encloses(p) {
			return false
		}
	}
	return true
}

// PullIn clamps each coordinate of point into its axis.
func (r RangeND) PullIn(point []float64) []float64 {
	out := make([]float64, len(point))
	for i, p := range point {
		out[i] = r.axes[i].PullIn(p)
	}
	return out
}

// United returns the per-axis envelope of r and other. Panics if the
// dimensionalities differ — a programmer error, not a runtime
// condition callers are expected to recover from.
func (r RangeND) United(other RangeND) RangeND {
	if r.Dims() != other.Dims() {
		panic("rangeutil: United of ranges with different dimensionality")
	}
	out := make([]Range1D, r.Dims())
	for i := range out {
		out[i] = r.axes[i].United(other.axes[i])
	}
	return RangeND{axes: out}
}

// Intersects composes the per-axis Containment into the rule from
// spec.md §4.1: Disjoint iff any axis disjoint, Inside iff every axis
// inside, else Intersects.
func (r RangeND) Intersects(other RangeND) Containment {
	if r.Dims() != other.Dims() {
		panic("rangeutil: Intersects of ranges with different dimensionality")
	}
	allInside := true
	for i := range r.axes {
		switch r.axes[i].Intersects(other.axes[i]) {
		case Disjoint:
			return Disjoint
		case Intersects:
			allInside = false
		}
	}
	if allInside {
		return Inside
	}
	return Intersects
}

// Manager tracks the three ranges every spectrum/experiment-level
// container in spec.md §3 carries: retention time, m/z, and intensity.
// Updates are explicit (ExtendByPoint, Merge); queries between updates may be
// stale, a documented contract rather than a bug (spec.md §4.1).
type Manager struct {
	RT        Range1D
	MZ        Range1D
	Intensity Range1D
}

// NewManager returns a Manager with all three ranges empty.
func NewManager() *Manager {
	return &Manager{
		RT:        EmptyRange1D(),
		MZ:        EmptyRange1D(),
		Intensity: EmptyRange1D(),
	}
}

// Clear resets all three ranges to empty.
func (m *Manager) Clear() {
	m.RT = EmptyRange1D()
	m.MZ = EmptyRange1D()
	m.Intensity = EmptyRange1D()
}

// ExtendByPoint grows all three ranges (RT, m/z, intensity) by an observed point. It is
// the building block updateRanges() implementations call once per
// owned element.
func (m *Manager) ExtendByPoint(rt, mz, intensity float64) {
	m.RT = m.RT.United(NewRange1D(rt, rt))
	m.MZ = m.MZ.United(NewRange1D(mz, mz))
	m.Intensity = m.Intensity.United(NewRange1D(intensity, intensity))
}

// Merge folds another Manager's ranges into this one (used when a
// container's updateRanges() also needs to fold in the ranges of
// nested containers, e.g. an Experiment over its Spectra).
func (m *Manager) Merge(other *Manager) {
	m.RT = m.RT.United(other.RT)
	m.MZ = m.MZ.United(other.MZ)
	m.Intensity = m.Intensity.United(other.Intensity)
}
