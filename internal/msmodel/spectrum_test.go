package msmodel

import (
	"math/rand"
	"testing"

	"github.com/openms-go/mscore/internal/errs"
	"github.com/openms-go/mscore/internal/rangeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpectrumSortByPositionCoPermutesParallelArrays(t *testing.T) {
	s := NewSpectrum(1)
	s.Peaks = []Peak{{MZ: 300, Intensity: 3}, {MZ: 100, Intensity: 1}, {MZ: 200, Intensity: 2}}
	s.FloatArrays = map[string][]float64{"snr": {30, 10, 20}}
	s.StringArrays = map[string][]string{"label": {"c", "a", "b"}}

	s.SortByPosition()

	require.Equal(t, []Peak{{MZ: 100, Intensity: 1}, {MZ: 200, Intensity: 2}, {MZ: 300, Intensity: 3}}, s.Peaks)
	assert.Equal(t, []float64{10, 20, 30}, s.FloatArrays["snr"])
	assert.Equal(t, []string{"a", "b", "c"}, s.StringArrays["label"])
}

func TestSpectrumFindNearestTieBreaksTowardLowerIndex(t *testing.T) {
	// S2 boundary scenario: two peaks equidistant from the query point.
	s := NewSpectrum(1)
	s.Peaks = []Peak{{MZ: 100.0}, {MZ: 102.0}}
	idx, err := s.FindNearest(101.0)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestSpectrumFindNearestOnEmptyIsPrecondition(t *testing.T) {
	s := NewSpectrum(1)
	_, err := s.FindNearest(1.0)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Precondition))
}

func TestSpectrumMZRangeRequiresSorted(t *testing.T) {
	s := NewSpectrum(1)
	s.Peaks = []Peak{{MZ: 300}, {MZ: 100}, {MZ: 200}}
	_, _, err := s.MZRange(100, 200)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Precondition))

	s.SortByPosition()
	begin, end, err := s.MZRange(100, 200)
	require.NoError(t, err)
	assert.Equal(t, 0, begin)
	assert.Equal(t, 2, end)
}

func TestSpectrumClearTwoLevel(t *testing.T) {
	s := NewSpectrum(2)
	s.NativeID = "scan=1"
	s.RT = 12.5
	s.Peaks = []Peak{{MZ: 1, Intensity: 1}}
	s.Meta = s.Meta.Set("k", "v")

	s.Clear(false)
	assert.Empty(t, s.Peaks)
	assert.Equal(t, "scan=1", s.NativeID)
	assert.Equal(t, 12.5, s.RT)

	s.Clear(true)
	assert.Equal(t, "", s.NativeID)
	assert.Equal(t, 0.0, s.RT)
	assert.Nil(t, s.Meta)
}

func TestSpectrumCloneIsDeep(t *testing.T) {
	s := NewSpectrum(1)
	s.Peaks = []Peak{{MZ: 1, Intensity: 1}}
	s.FloatArrays = map[string][]float64{"a": {1, 2}}
	s.Meta = s.Meta.Set("k", "v")

	cp := s.Clone()
	cp.Peaks[0].MZ = 999
	cp.FloatArrays["a"][0] = 999
	cp.Meta = cp.Meta.Set("k", "changed")

	assert.Equal(t, 1.0, s.Peaks[0].MZ)
	assert.Equal(t, 1.0, s.FloatArrays["a"][0])
	v, _ := s.Meta.GetString("k")
	assert.Equal(t, "v", v)
}

func TestSpectrumUpdateRangesFoldsIntoManager(t *testing.T) {
	s := NewSpectrum(1)
	s.RT = 5.0
	s.Peaks = []Peak{{MZ: 100, Intensity: 10}, {MZ: 200, Intensity: 20}}
	mgr := rangeutil.NewManager()
	s.UpdateRanges(mgr)
	assert.True(t, mgr.RT.Encloses(5.0))
	assert.True(t, mgr.MZ.Encloses(100))
	assert.True(t, mgr.MZ.Encloses(200))
}

func TestSpectrumSortByPositionIdempotent(t *testing.T) {
	for iter := 0; iter < 200; iter++ {
		n := rand.Intn(20)
		s := NewSpectrum(1)
		for i := 0; i < n; i++ {
			s.Peaks = append(s.Peaks, Peak{MZ: rand.Float64() * 1000, Intensity: rand.Float64()})
		}
		s.SortByPosition()
		first := append([]Peak(nil), s.Peaks...)
		s.SortByPosition()
		assert.Equal(t, first, s.Peaks)
	}
}
