package mzml

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnDiskExperimentLoadsMetadataWithoutDecodingPeaks(t *testing.T) {
	experiment := buildExperiment()
	var buf bytes.Buffer
	_, err := Write(&buf, experiment, DefaultWriteOptions())
	require.NoError(t, err)

	onDisk, err := OpenOnDisk(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 2, onDisk.SpectrumCount())
	require.Equal(t, 1, onDisk.ChromatogramCount())

	meta := onDisk.Metadata()
	require.Len(t, meta, 2)
	assert.Equal(t, "scan=1", meta[0].NativeID)
	assert.Equal(t, 1, meta[0].MSLevel)
	assert.InDelta(t, 12.5, meta[0].RT, 1e-6)
	assert.Equal(t, "scan=2", meta[1].NativeID)
	assert.Equal(t, 2, meta[1].MSLevel)
}

func TestOnDiskExperimentSpectrumDecodesLazilyAndCaches(t *testing.T) {
	experiment := buildExperiment()
	var buf bytes.Buffer
	_, err := Write(&buf, experiment, DefaultWriteOptions())
	require.NoError(t, err)

	onDisk, err := OpenOnDisk(buf.Bytes())
	require.NoError(t, err)

	s, err := onDisk.Spectrum("scan=2")
	require.NoError(t, err)
	require.Len(t, s.Peaks, 1)
	assert.InDelta(t, 150.5, s.Peaks[0].MZ, 1e-4)

	again, err := onDisk.Spectrum("scan=2")
	require.NoError(t, err)
	assert.Same(t, s, again)

	_, err = onDisk.Spectrum("does-not-exist")
	assert.Error(t, err)
}

func TestOnDiskExperimentSpectrumAtUsesDocumentOrder(t *testing.T) {
	experiment := buildExperiment()
	var buf bytes.Buffer
	_, err := Write(&buf, experiment, DefaultWriteOptions())
	require.NoError(t, err)

	onDisk, err := OpenOnDisk(buf.Bytes())
	require.NoError(t, err)

	s, err := onDisk.SpectrumAt(1)
	require.NoError(t, err)
	assert.Equal(t, "scan=2", s.NativeID)

	_, err = onDisk.SpectrumAt(5)
	assert.Error(t, err)
}

func TestOnDiskExperimentMaterializeProducesEquivalentExperiment(t *testing.T) {
	experiment := buildExperiment()
	var buf bytes.Buffer
	_, err := Write(&buf, experiment, DefaultWriteOptions())
	require.NoError(t, err)

	onDisk, err := OpenOnDisk(buf.Bytes())
	require.NoError(t, err)

	materialized, err := onDisk.Materialize()
	require.NoError(t, err)
	require.Len(t, materialized.Spectra, 2)
	require.Len(t, materialized.Chromatograms, 1)
	assert.Equal(t, "scan=1", materialized.Spectra[0].NativeID)
	assert.Equal(t, "scan=2", materialized.Spectra[1].NativeID)
	assert.Equal(t, "chrom=1", materialized.Chromatograms[0].NativeID)
}

func TestOnDiskExperimentChromatogramLookup(t *testing.T) {
	experiment := buildExperiment()
	var buf bytes.Buffer
	_, err := Write(&buf, experiment, DefaultWriteOptions())
	require.NoError(t, err)

	onDisk, err := OpenOnDisk(buf.Bytes())
	require.NoError(t, err)

	c, err := onDisk.Chromatogram("chrom=1")
	require.NoError(t, err)
	assert.InDelta(t, 150.0, c.PrecursorMZ, 1e-4)

	_, err = onDisk.Chromatogram("missing")
	assert.Error(t, err)
}
