package mzml

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openms-go/mscore/internal/codec"
	"github.com/openms-go/mscore/internal/msmodel"
)

func buildExperiment() *msmodel.Experiment {
	e := msmodel.NewExperiment()

	s1 := msmodel.NewSpectrum(1)
	s1.NativeID = "scan=1"
	s1.RT = 12.5
	s1.Polarity = msmodel.PolarityPositive
	s1.Peaks = []msmodel.Peak{{MZ: 100.1, Intensity: 10}, {MZ: 200.2, Intensity: 20}}

	s2 := msmodel.NewSpectrum(2)
	s2.NativeID = "scan=2"
	s2.RT = 13.0
	s2.Polarity = msmodel.PolarityPositive
	s2.Peaks = []msmodel.Peak{{MZ: 150.5, Intensity: 5}}
	s2.Precursors = []msmodel.Precursor{{
		MZ:                   150.0,
		Charge:               2,
		IsolationWindowLower: 1.0,
		IsolationWindowUpper: 1.0,
		Activation:           msmodel.NewActivationSet(msmodel.HCD),
	}}

	e.AddSpectrum(s1)
	e.AddSpectrum(s2)

	c := msmodel.NewChromatogram()
	c.NativeID = "chrom=1"
	c.PrecursorMZ = 150.0
	c.Peaks = []msmodel.ChromatogramPeak{{Time: 1, Intensity: 100}, {Time: 2, Intensity: 200}}
	e.AddChromatogram(c)

	return e
}

func TestWriteReadRoundTrip(t *testing.T) {
	experiment := buildExperiment()

	var buf bytes.Buffer
	idx, err := Write(&buf, experiment, DefaultWriteOptions())
	require.NoError(t, err)
	require.Len(t, idx.SpectrumOffsets, 2)
	require.Len(t, idx.ChromatogramOffsets, 1)

	got, readIdx, err := Read(buf.Bytes())
	require.NoError(t, err)
	require.NotNil(t, readIdx)

	require.Len(t, got.Spectra, 2)
	assert.Equal(t, "scan=1", got.Spectra[0].NativeID)
	assert.Equal(t, 1, got.Spectra[0].MSLevel)
	assert.InDelta(t, 12.5, got.Spectra[0].RT, 1e-6)
	assert.Equal(t, msmodel.PolarityPositive, got.Spectra[0].Polarity)
	require.Len(t, got.Spectra[0].Peaks, 2)
	assert.InDelta(t, 100.1, got.Spectra[0].Peaks[0].MZ, 1e-4)
	assert.InDelta(t, 10, got.Spectra[0].Peaks[0].Intensity, 1e-2)

	require.Len(t, got.Spectra[1].Precursors, 1)
	assert.InDelta(t, 150.0, got.Spectra[1].Precursors[0].MZ, 1e-4)
	assert.Equal(t, 2, got.Spectra[1].Precursors[0].Charge)
	assert.True(t, got.Spectra[1].Precursors[0].Activation.Contains(msmodel.HCD))

	require.Len(t, got.Chromatograms, 1)
	assert.Equal(t, "chrom=1", got.Chromatograms[0].NativeID)
	assert.InDelta(t, 150.0, got.Chromatograms[0].PrecursorMZ, 1e-4)
	require.Len(t, got.Chromatograms[0].Peaks, 2)
	assert.InDelta(t, 1, got.Chromatograms[0].Peaks[0].Time, 1e-6)
}

func TestIndexLookupFindsEachNativeID(t *testing.T) {
	experiment := buildExperiment()
	var buf bytes.Buffer
	idx, err := Write(&buf, experiment, DefaultWriteOptions())
	require.NoError(t, err)

	off, ok := idx.Lookup("scan=2")
	require.True(t, ok)
	assert.Greater(t, off, int64(0))

	_, ok = idx.Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestIndexValidateDetectsCountMismatch(t *testing.T) {
	idx := &Index{SpectrumOffsets: []ArrayOffset{{IDRef: "a", Offset: 0}}}
	assert.Error(t, idx.Validate(2, 0))
	assert.NoError(t, idx.Validate(1, 0))
}

func TestWriteEmptyExperimentUsesDummyIndexEntry(t *testing.T) {
	experiment := msmodel.NewExperiment()
	var buf bytes.Buffer
	idx, err := Write(&buf, experiment, DefaultWriteOptions())
	require.NoError(t, err)
	assert.Empty(t, idx.SpectrumOffsets)
	assert.Contains(t, buf.String(), `name="dummy"`)
	assert.Contains(t, buf.String(), `>-1</offset>`)
}

func TestWriteWithoutIndexOmitsFooter(t *testing.T) {
	experiment := buildExperiment()
	opts := DefaultWriteOptions()
	opts.WriteIndex = false

	var buf bytes.Buffer
	_, err := Write(&buf, experiment, opts)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "indexListOffset")

	got, readIdx, err := Read(buf.Bytes())
	require.NoError(t, err)
	assert.Nil(t, readIdx)
	require.Len(t, got.Spectra, 2)
}

func TestDecodeSchemeMapsNumpressAccessions(t *testing.T) {
	scheme, ok := decodeScheme(accNumpressSlof)
	require.True(t, ok)
	assert.Equal(t, codec.NumericShortLoggedFloat, scheme)

	_, ok = decodeScheme("MS:0000000")
	assert.False(t, ok)
}

func TestPolarityFromCV(t *testing.T) {
	assert.Equal(t, msmodel.PolarityPositive, polarityFromCV("MS:1000130"))
	assert.Equal(t, msmodel.PolarityNegative, polarityFromCV("MS:1000129"))
	assert.Equal(t, msmodel.PolarityUnknown, polarityFromCV("MS:9999999"))
}
