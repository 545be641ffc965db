package isobaric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openms-go/mscore/internal/msmodel"
)

func TestFourPlexChannelTopology(t *testing.T) {
	m := FourPlex()
	require.Equal(t, 4, m.NumChannels())
	ch, ok := m.ChannelByName("115")
	require.True(t, ok)
	assert.Equal(t, "114", ch.MinusOne)
	assert.Equal(t, "116", ch.PlusOne)
	assert.Equal(t, "117", ch.PlusTwo)
	assert.Equal(t, "", ch.MinusTwo)
}

func TestEightPlexHandlesGapAtChannel120(t *testing.T) {
	m := EightPlex()
	ch, ok := m.ChannelByName("121")
	require.True(t, ok)
	assert.Equal(t, "119", ch.MinusOne)
	assert.Equal(t, "118", ch.MinusTwo)
	assert.Equal(t, "", ch.PlusOne)
	assert.Equal(t, "", ch.PlusTwo)
}

func TestBuildImpurityMatrixDiagonalIsRemainderFraction(t *testing.T) {
	m := FourPlex()
	a := BuildImpurityMatrix(m)
	// channel "117": corrections sum to 0.1+4.0+3.5+0.1 = 7.7, so the
	// diagonal entry is 1 - 0.077.
	assert.InDelta(t, 1.0-0.077, a.At(3, 3), 1e-9)
}

func TestBuildImpurityMatrixTMTSixPlexIsIdentity(t *testing.T) {
	m := TMTSixPlex()
	a := BuildImpurityMatrix(m)
	for i := 0; i < m.NumChannels(); i++ {
		for j := 0; j < m.NumChannels(); j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, a.At(i, j), 1e-12)
		}
	}
}

func TestCorrectIntensitiesRoundTripsThroughIdentity(t *testing.T) {
	m := TMTSixPlex()
	a := BuildImpurityMatrix(m)
	observed := []float64{100, 200, 300, 400, 500, 600}
	corrected, err := CorrectIntensities(a, observed)
	require.NoError(t, err)
	for i, v := range observed {
		assert.InDelta(t, v, corrected[i], 1e-6)
	}
}

func TestCorrectIntensitiesStaysNonNegative(t *testing.T) {
	m := FourPlex()
	a := BuildImpurityMatrix(m)
	// An observed vector skewed heavily toward one channel can make the
	// unconstrained solve go negative for its low-leakage neighbors;
	// NNLS must still return an all-non-negative vector.
	observed := []float64{0, 0, 0, 10000}
	corrected, err := CorrectIntensities(a, observed)
	require.NoError(t, err)
	for _, v := range corrected {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func buildChannelSpectrum(m Method, intensities map[string]float64) *msmodel.Spectrum {
	s := msmodel.NewSpectrum(2)
	s.NativeID = "scan=1"
	s.RT = 10.0
	s.Precursors = []msmodel.Precursor{{MZ: 500.0, Charge: 2}}
	for _, ch := range m.Channels {
		if intensity, ok := intensities[ch.Name]; ok {
			s.Peaks = append(s.Peaks, msmodel.Peak{MZ: ch.CenterMZ, Intensity: intensity})
		}
	}
	return s
}

func TestExtractChannelsFindsNearestPeakWithinTolerance(t *testing.T) {
	m := FourPlex()
	cfg := Config{Method: m, MZTolerance: DefaultMZTolerance}
	s := buildChannelSpectrum(m, map[string]float64{"114": 1000, "116": 500})
	obs := ExtractChannels(cfg, s)
	require.Len(t, obs, 4)
	assert.True(t, obs[0].Matched)
	assert.InDelta(t, 1000, obs[0].Intensity, 1e-9)
	assert.False(t, obs[1].Matched)
	assert.Equal(t, 0.0, obs[1].Intensity)
	assert.True(t, obs[2].Matched)
}

func TestResolveToleranceCapsTenPlexAndAbove(t *testing.T) {
	cfg := Config{Method: TenPlex(), MZTolerance: 0.01}
	assert.InDelta(t, maxTenPlexTolerance, cfg.ResolveTolerance(), 1e-12)

	cfg2 := Config{Method: FourPlex(), MZTolerance: 0.01}
	assert.InDelta(t, 0.01, cfg2.ResolveTolerance(), 1e-12)

	cfg3 := Config{Method: FourPlex()}
	assert.InDelta(t, DefaultMZTolerance, cfg3.ResolveTolerance(), 1e-12)
}

func buildExperiment(m Method, intensities map[string]float64) *msmodel.Experiment {
	exp := msmodel.NewExperiment()
	exp.AddSpectrum(buildChannelSpectrum(m, intensities))
	return exp
}

func TestQuantifyEmitsOneFeaturePerEligibleSpectrum(t *testing.T) {
	m := TMTSixPlex()
	exp := buildExperiment(m, map[string]float64{
		"126": 100, "127": 200, "128": 300, "129": 400, "130": 500, "131": 600,
	})
	cfg := Config{Method: m, MZTolerance: DefaultMZTolerance}
	cm, diag, err := Quantify(cfg, exp)
	require.NoError(t, err)
	require.Len(t, cm.Features, 1)
	assert.Equal(t, 1, diag.FeaturesEmitted)
	assert.Equal(t, 0, diag.FeaturesDroppedAllZero)

	feature := cm.Features[0]
	require.Len(t, feature.Handles, 6)
	assert.InDelta(t, 10.0, feature.Position.RT, 1e-9)
	assert.InDelta(t, 500.0, feature.Position.MZ, 1e-9)
	for i, h := range feature.Handles {
		assert.InDelta(t, float64(100*(i+1)), h.Intensity, 1e-6)
	}
}

func TestQuantifySkipsEmptyChannelSpectrum(t *testing.T) {
	m := TMTSixPlex()
	exp := buildExperiment(m, map[string]float64{})
	// spectrum has a precursor but no peaks at all -> IsEmpty() is true,
	// so no feature is emitted and it is not counted as a zero-drop.
	cfg := Config{Method: m}
	cm, diag, err := Quantify(cfg, exp)
	require.NoError(t, err)
	assert.Len(t, cm.Features, 0)
	assert.Equal(t, 0, diag.FeaturesEmitted)
	assert.Equal(t, 0, diag.FeaturesDroppedAllZero)
}

func TestQuantifyNormalizesByReferenceChannel(t *testing.T) {
	m := TMTSixPlex()
	exp := buildExperiment(m, map[string]float64{
		"126": 100, "127": 200, "128": 300, "129": 400, "130": 500, "131": 600,
	})
	cfg := Config{Method: m, ReferenceChannel: "126"}
	cm, _, err := Quantify(cfg, exp)
	require.NoError(t, err)
	require.Len(t, cm.Features, 1)
	assert.InDelta(t, 1.0, cm.Features[0].Handles[0].Intensity, 1e-6)
	assert.InDelta(t, 6.0, cm.Features[0].Handles[5].Intensity, 1e-6)
}

func TestQuantifyTracksMedianMZOffsetDiagnostic(t *testing.T) {
	m := TMTSixPlex()
	exp := msmodel.NewExperiment()
	s1 := buildChannelSpectrum(m, map[string]float64{"126": 100})
	s1.Peaks[0].MZ += 0.0005
	s2 := buildChannelSpectrum(m, map[string]float64{"126": 100})
	s2.NativeID = "scan=2"
	s2.Peaks[0].MZ += 0.0015
	exp.AddSpectrum(s1)
	exp.AddSpectrum(s2)

	cfg := Config{Method: m}
	_, diag, err := Quantify(cfg, exp)
	require.NoError(t, err)
	assert.InDelta(t, 0.001, diag.MedianMZOffset["126"], 1e-6)
}
