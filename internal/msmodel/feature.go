package msmodel

import "sort"

// Point is a plain (RT, m/z) coordinate, the vertex type ConvexHull
// operates on (spec.md §3 Feature "convex hull in the RT/m/z plane").
type Point struct {
	RT float64
	MZ float64
}

// ConvexHull is the boundary of a Feature's footprint in the RT/m/z
// plane, stored with vertices in a fixed (counter-clockwise) order so
// repeated construction from the same point set is deterministic
// (spec.md §3 Feature: "convex hull... monotone vertex order").
type ConvexHull struct {
	Vertices []Point
}

// NewConvexHullFromPoints computes the convex hull of points using the
// monotone chain algorithm, producing vertices in counter-clockwise
// order starting from the lexicographically smallest point. Degenerate
// inputs (0, 1, or 2 distinct points) return a hull containing exactly
// those points.
func NewConvexHullFromPoints(points []Point) ConvexHull {
	pts := append([]Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].RT != pts[j].RT {
			return pts[i].RT < pts[j].RT
		}
		return pts[i].MZ < pts[j].MZ
	})
	pts = dedupPoints(pts)
	if len(pts) < 3 {
		return ConvexHull{Vertices: pts}
	}

	cross := func(o, a, b Point) float64 {
		return (a.RT-o.RT)*(b.MZ-o.MZ) - (a.MZ-o.MZ)*(b.RT-o.RT)
	}

	lower := make([]Point, 0, len(pts))
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	upper := make([]Point, 0, len(pts))
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return ConvexHull{Vertices: hull}
}

func dedupPoints(sorted []Point) []Point {
	out := sorted[:0:0]
	for i, p := range sorted {
		if i == 0 || p != sorted[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// Encloses reports whether p lies within or on the hull boundary: points
// on an edge are accepted directly, the rest go through the standard
// even-odd ray cast.
func (h ConvexHull) Encloses(p Point) bool {
	n := len(h.Vertices)
	if n < 3 {
		return false
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := h.Vertices[i], h.Vertices[j]
		cross := (vj.RT-vi.RT)*(p.MZ-vi.MZ) - (vj.MZ-vi.MZ)*(p.RT-vi.RT)
		if cross == 0 && (p.RT-vi.RT)*(p.RT-vj.RT) <= 0 && (p.MZ-vi.MZ)*(p.MZ-vj.MZ) <= 0 {
			return true
		}
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := h.Vertices[i], h.Vertices[j]
		if (vi.MZ > p.MZ) != (vj.MZ > p.MZ) {
			rtAtP := (vj.RT-vi.RT)*(p.MZ-vi.MZ)/(vj.MZ-vi.MZ) + vi.RT
			if p.RT < rtAtP {
				inside = !inside
			}
		}
	}
	return inside
}

// Feature is a detected chemical entity with position, charge, and
// quality estimates (spec.md §3).
type Feature struct {
	ID             uint64
	Position       Point
	Intensity      float64
	Charge         int
	OverallQuality float64
	// SubQualities holds one quality value per dimension (RT, m/z),
	// spec.md §3 "per-dimension sub-qualities".
	SubQualities []float64
	ConvexHulls  []ConvexHull
	Subordinates []*Feature
	PeptideIDs   []string
	Meta         MetaMap
}

// NewFeature returns an empty Feature with the given identifier.
func NewFeature(id uint64) *Feature {
	return &Feature{ID: id}
}

// AddConvexHull appends a hull computed from points.
func (f *Feature) AddConvexHull(points []Point) {
	f.ConvexHulls = append(f.ConvexHulls, NewConvexHullFromPoints(points))
}

// Clone returns a deep copy, including subordinate features.
func (f *Feature) Clone() *Feature {
	cp := *f
	cp.SubQualities = append([]float64(nil), f.SubQualities...)
	cp.PeptideIDs = append([]string(nil), f.PeptideIDs...)
	cp.Meta = f.Meta.Clone()
	if f.ConvexHulls != nil {
		cp.ConvexHulls = make([]ConvexHull, len(f.ConvexHulls))
		for i, h := range f.ConvexHulls {
			cp.ConvexHulls[i] = ConvexHull{Vertices: append([]Point(nil), h.Vertices...)}
		}
	}
	if f.Subordinates != nil {
		cp.Subordinates = make([]*Feature, len(f.Subordinates))
		for i, sub := range f.Subordinates {
			cp.Subordinates[i] = sub.Clone()
		}
	}
	return &cp
}
