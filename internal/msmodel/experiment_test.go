package msmodel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperimentSortByPositionOrdersSpectraByRT(t *testing.T) {
	e := NewExperiment()
	s1 := NewSpectrum(1)
	s1.RT = 3.0
	s2 := NewSpectrum(1)
	s2.RT = 1.0
	s3 := NewSpectrum(1)
	s3.RT = 2.0
	e.AddSpectrum(s1)
	e.AddSpectrum(s2)
	e.AddSpectrum(s3)

	e.SortByPosition()

	require.Len(t, e.Spectra, 3)
	assert.Equal(t, 1.0, e.Spectra[0].RT)
	assert.Equal(t, 2.0, e.Spectra[1].RT)
	assert.Equal(t, 3.0, e.Spectra[2].RT)
}

func TestExperimentGetSet2DDataRoundTrip(t *testing.T) {
	e := NewExperiment()
	s1 := NewSpectrum(1)
	s1.RT = 1.0
	s1.Peaks = []Peak{{MZ: 100, Intensity: 10}, {MZ: 200, Intensity: 20}}
	s2 := NewSpectrum(1)
	s2.RT = 2.0
	s2.Peaks = []Peak{{MZ: 300, Intensity: 30}}
	ms2 := NewSpectrum(2)
	ms2.RT = 1.5
	ms2.Peaks = []Peak{{MZ: 999, Intensity: 99}}
	e.AddSpectrum(s1)
	e.AddSpectrum(ms2)
	e.AddSpectrum(s2)

	points := e.Get2DData()
	require.Len(t, points, 3)
	assert.Equal(t, Point2D{RT: 1.0, MZ: 100, Intensity: 10}, points[0])
	assert.Equal(t, Point2D{RT: 1.0, MZ: 200, Intensity: 20}, points[1])
	assert.Equal(t, Point2D{RT: 2.0, MZ: 300, Intensity: 30}, points[2])

	e2 := NewExperiment()
	e2.Set2DData(points)
	require.Len(t, e2.Spectra, 2)
	assert.Equal(t, 1.0, e2.Spectra[0].RT)
	assert.Len(t, e2.Spectra[0].Peaks, 2)
	assert.Equal(t, 2.0, e2.Spectra[1].RT)
	assert.Len(t, e2.Spectra[1].Peaks, 1)
}

func TestExperimentGetPrimaryMSRunPath(t *testing.T) {
	e := NewExperiment()
	e.Settings.SourceFiles = []SourceFile{{Path: "a.mzML"}, {Path: "b.mzML"}}
	assert.Equal(t, []string{"a.mzML", "b.mzML"}, e.GetPrimaryMSRunPath())

	e.Settings.PrimaryMSRunPathOverride = []string{"override.mzML"}
	assert.Equal(t, []string{"override.mzML"}, e.GetPrimaryMSRunPath())
}

func TestExperimentSpectraAtLevel(t *testing.T) {
	e := NewExperiment()
	e.AddSpectrum(NewSpectrum(1))
	e.AddSpectrum(NewSpectrum(2))
	e.AddSpectrum(NewSpectrum(1))

	assert.Len(t, e.SpectraAtLevel(1), 2)
	assert.Len(t, e.SpectraAtLevel(2), 1)
	assert.Len(t, e.SpectraAtLevel(3), 0)
}

func TestExperimentUpdateRangesCoversAllSpectra(t *testing.T) {
	e := NewExperiment()
	for i := 0; i < 50; i++ {
		s := NewSpectrum(1)
		s.RT = rand.Float64() * 100
		s.Peaks = []Peak{{MZ: rand.Float64() * 1000, Intensity: rand.Float64() * 1e6}}
		e.AddSpectrum(s)
	}
	e.UpdateRanges()
	mgr := e.Ranges()
	require.NotNil(t, mgr)
	for _, s := range e.Spectra {
		assert.True(t, mgr.RT.Encloses(s.RT))
		for _, p := range s.Peaks {
			assert.True(t, mgr.MZ.Encloses(p.MZ))
		}
	}
}
