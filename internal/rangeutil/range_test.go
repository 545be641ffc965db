package rangeutil_test

import (
	"math/rand"
	"testing"

	"github.com/openms-go/mscore/internal/rangeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: DRange construction swaps reversed min/max; PullIn clamps.
func TestS1RangeClampingAndPullIn(t *testing.T) {
	r := rangeutil.NewRangeND(
		rangeutil.NewRange1D(2, -2),
		rangeutil.NewRange1D(3, -3),
	)
	assert.Equal(t, -2.0, r.Axis(0).Min)
	assert.Equal(t, 2.0, r.Axis(0).Max)
	assert.Equal(t, -3.0, r.Axis(1).Min)
	assert.Equal(t, 3.0, r.Axis(1).Max)

	box := rangeutil.NewRangeND(
		rangeutil.NewRange1D(1, 3),
		rangeutil.NewRange1D(2, 4),
	)
	assert.Equal(t, []float64{1, 2}, box.PullIn([]float64{0, 0}))
	assert.Equal(t, []float64{3, 4}, box.PullIn([]float64{5, 5}))
}

func TestExtendRejectsNegativeFactor(t *testing.T) {
	r := rangeutil.NewRange1D(1, 2)
	_, err := r.Extend(-0.5)
	assert.Error(t, err)
}

func TestExtendByShrinkClampsToDegenerate(t *testing.T) {
	r := rangeutil.NewRange1D(0, 10)
	shrunk := r.ExtendBy(-10) // would invert to [10, 0]
	assert.Equal(t, shrunk.Min, shrunk.Max)
	assert.Equal(t, r.Center(), shrunk.Min)
}

func TestEnsureMinSpanGrowsSymmetrically(t *testing.T) {
	r := rangeutil.NewRange1D(5, 5) // span 0
	grown := r.EnsureMinSpan(4)
	assert.Equal(t, 4.0, grown.Span())
	assert.Equal(t, 5.0, grown.Center())
}

func TestSwapDimensions(t *testing.T) {
	rt := rangeutil.NewRange1D(0, 100)
	mz := rangeutil.NewRange1D(200, 800)
	r := rangeutil.NewRangeND(rt, mz)
	swapped := r.SwapDimensions([]int{1, 0})
	assert.Equal(t, mz, swapped.Axis(0))
	assert.Equal(t, rt, swapped.Axis(1))
}

// Property: r1.united(r2).encloses(p) iff r1.encloses(p) || r2.encloses(p).
func TestUnitedEnclosesProperty(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		r1 := rangeutil.NewRange1D(rnd.Float64()*100, rnd.Float64()*100+1)
		r2 := rangeutil.NewRange1D(rnd.Float64()*100, rnd.Float64()*100+1)
		u := r1.United(r2)
		p := rnd.Float64() * 200
		want := r1.Encloses(p) || r2.Encloses(p)
		got := u.Encloses(p)
		require.Equal(t, want, got, "r1=%+v r2=%+v p=%v", r1, r2, p)
	}
}

// Property: r.extend(a).encloses(r) for a >= 0, and center is preserved.
func TestExtendEnclosesOriginalProperty(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		r := rangeutil.NewRange1D(rnd.Float64()*100, rnd.Float64()*100+1)
		factor := rnd.Float64() * 5
		extended, err := r.Extend(factor)
		require.NoError(t, err)
		assert.True(t, extended.Encloses(r.Min))
		assert.True(t, extended.Encloses(r.Max))
		assert.InDelta(t, r.Center(), extended.Center(), 1e-9)
	}
}

func TestIntersectsComposite(t *testing.T) {
	outer := rangeutil.NewRangeND(rangeutil.NewRange1D(0, 100), rangeutil.NewRange1D(0, 100))
	inner := rangeutil.NewRangeND(rangeutil.NewRange1D(10, 20), rangeutil.NewRange1D(10, 20))
	disjoint := rangeutil.NewRangeND(rangeutil.NewRange1D(200, 300), rangeutil.NewRange1D(200, 300))
	partial := rangeutil.NewRangeND(rangeutil.NewRange1D(-10, 10), rangeutil.NewRange1D(0, 50))

	assert.Equal(t, rangeutil.Inside, outer.Intersects(inner))
	assert.Equal(t, rangeutil.Disjoint, outer.Intersects(disjoint))
	assert.Equal(t, rangeutil.Intersects, outer.Intersects(partial))
}

func TestManagerExtendByPointAndMerge(t *testing.T) {
	m := rangeutil.NewManager()
	m.ExtendByPoint(1.0, 100.0, 50.0)
	m.ExtendByPoint(5.0, 300.0, 10.0)
	assert.Equal(t, rangeutil.NewRange1D(1, 5), m.RT)
	assert.Equal(t, rangeutil.NewRange1D(100, 300), m.MZ)
	assert.Equal(t, rangeutil.NewRange1D(10, 50), m.Intensity)

	other := rangeutil.NewManager()
	other.ExtendByPoint(-2.0, 50.0, 5.0)
	m.Merge(other)
	assert.Equal(t, rangeutil.NewRange1D(-2, 5), m.RT)
	assert.Equal(t, rangeutil.NewRange1D(50, 300), m.MZ)
}
