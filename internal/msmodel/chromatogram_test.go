package msmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromatogramSortByPositionCoPermutesParallelArrays(t *testing.T) {
	c := NewChromatogram()
	c.Peaks = []ChromatogramPeak{{Time: 30, Intensity: 3}, {Time: 10, Intensity: 1}, {Time: 20, Intensity: 2}}
	c.IntArrays = map[string][]int64{"flag": {3, 1, 2}}

	c.SortByPosition()

	require.Equal(t, []ChromatogramPeak{{Time: 10, Intensity: 1}, {Time: 20, Intensity: 2}, {Time: 30, Intensity: 3}}, c.Peaks)
	assert.Equal(t, []int64{1, 2, 3}, c.IntArrays["flag"])
}

func TestChromatogramSortByPositionNoopOnSmallInput(t *testing.T) {
	c := NewChromatogram()
	c.SortByPosition()
	assert.Empty(t, c.Peaks)

	c.Peaks = []ChromatogramPeak{{Time: 1, Intensity: 1}}
	c.SortByPosition()
	assert.Len(t, c.Peaks, 1)
}

func TestChromatogramCloneIsDeep(t *testing.T) {
	c := NewChromatogram()
	c.Peaks = []ChromatogramPeak{{Time: 1, Intensity: 1}}
	c.Meta = c.Meta.Set("k", "v")

	cp := c.Clone()
	cp.Peaks[0].Time = 999
	cp.Meta = cp.Meta.Set("k", "changed")

	assert.Equal(t, 1.0, c.Peaks[0].Time)
	v, _ := c.Meta.GetString("k")
	assert.Equal(t, "v", v)
}
