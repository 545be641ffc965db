package mzml

import (
	"bytes"
	"fmt"

	"github.com/openms-go/mscore/internal/codec"
	"github.com/openms-go/mscore/internal/errs"
	"github.com/openms-go/mscore/internal/msmodel"
)

// ArrayEncoding pairs a binary array's precision with its codec
// pipeline, so callers can tune compression per named array (spec.md
// §4.6 supplement: per-array PrecisionHint).
type ArrayEncoding struct {
	Precision PrecisionHint
	Pipeline  codec.Pipeline
}

// WriteOptions controls the writer's per-array encoding choices and
// whether an index list is emitted (spec.md §4.6/§4.7).
type WriteOptions struct {
	WriteIndex   bool
	MZEncoding   ArrayEncoding
	IntEncoding  ArrayEncoding
	TimeEncoding ArrayEncoding
}

// DefaultWriteOptions returns the mzML-conventional defaults: m/z
// arrays at 64-bit, intensity and time arrays at 32-bit, no numeric
// compression, index written.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		WriteIndex:   true,
		MZEncoding:   ArrayEncoding{Precision: Precision64, Pipeline: codec.Pipeline{}},
		IntEncoding:  ArrayEncoding{Precision: Precision32, Pipeline: codec.Pipeline{}},
		TimeEncoding: ArrayEncoding{Precision: Precision32, Pipeline: codec.Pipeline{}},
	}
}

// Write serializes experiment as an mzML document into buf, wrapped in
// <indexedmzML> with an index list when opts.WriteIndex is set,
// tracking each spectrum/chromatogram's byte offset as it is written
// (spec.md §4.7: the index list is built incrementally during the
// write, since XML marshaling up front would not expose byte offsets).
func Write(buf *bytes.Buffer, experiment *msmodel.Experiment, opts WriteOptions) (*Index, error) {
	idx := &Index{}

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if opts.WriteIndex {
		buf.WriteString("<indexedmzML>\n")
	}
	buf.WriteString("<mzML>\n")
	buf.WriteString("\t<run>\n")

	buf.WriteString(fmt.Sprintf("\t\t<spectrumList count=\"%d\">\n", len(experiment.Spectra)))
	for i, s := range experiment.Spectra {
		offset := int64(buf.Len())
		id := s.NativeID
		if id == "" {
			id = fmt.Sprintf("scan=%d", i+1)
		}
		idx.SpectrumOffsets = append(idx.SpectrumOffsets, ArrayOffset{IDRef: id, Offset: offset})
		if err := writeSpectrum(buf, i, id, s, opts); err != nil {
			return nil, err
		}
	}
	buf.WriteString("\t\t</spectrumList>\n")

	buf.WriteString(fmt.Sprintf("\t\t<chromatogramList count=\"%d\">\n", len(experiment.Chromatograms)))
	for i, c := range experiment.Chromatograms {
		offset := int64(buf.Len())
		id := c.NativeID
		if id == "" {
			id = fmt.Sprintf("chrom=%d", i+1)
		}
		idx.ChromatogramOffsets = append(idx.ChromatogramOffsets, ArrayOffset{IDRef: id, Offset: offset})
		if err := writeChromatogram(buf, i, id, c, opts); err != nil {
			return nil, err
		}
	}
	buf.WriteString("\t\t</chromatogramList>\n")

	buf.WriteString("\t</run>\n")
	buf.WriteString("</mzML>")

	if opts.WriteIndex {
		writeFooter(buf, idx)
	}
	return idx, nil
}

func writeFooter(buf *bytes.Buffer, idx *Index) {
	indexLists := 0
	if len(idx.SpectrumOffsets) > 0 {
		indexLists++
	}
	if len(idx.ChromatogramOffsets) > 0 {
		indexLists++
	}

	idx.IndexListOffset = int64(buf.Len()) + 1 // account for the newline written next

	buf.WriteString("\n")
	fmt.Fprintf(buf, "  <indexList count=\"%d\">\n", indexLists)
	if len(idx.SpectrumOffsets) > 0 {
		buf.WriteString("    <index name=\"spectrum\">\n")
		for _, o := range idx.SpectrumOffsets {
			fmt.Fprintf(buf, "      <offset idRef=\"%s\">%d</offset>\n", o.IDRef, o.Offset)
		}
		buf.WriteString("    </index>\n")
	}
	if len(idx.ChromatogramOffsets) > 0 {
		buf.WriteString("    <index name=\"chromatogram\">\n")
		for _, o := range idx.ChromatogramOffsets {
			fmt.Fprintf(buf, "      <offset idRef=\"%s\">%d</offset>\n", o.IDRef, o.Offset)
		}
		buf.WriteString("    </index>\n")
	}
	if indexLists == 0 {
		// at least one index subelement and offset is required by the
		// schema even when the run is empty.
		buf.WriteString("    <index name=\"dummy\">\n")
		buf.WriteString("      <offset idRef=\"dummy\">-1</offset>\n")
		buf.WriteString("    </index>\n")
	}
	buf.WriteString("  </indexList>\n")
	fmt.Fprintf(buf, "  <indexListOffset>%d</indexListOffset>\n", idx.IndexListOffset)
	idx.FileChecksum = "0"
	fmt.Fprintf(buf, "<fileChecksum>%s</fileChecksum>\n", idx.FileChecksum)
	buf.WriteString("</indexedmzML>")
}

func writeSpectrum(buf *bytes.Buffer, index int, id string, s *msmodel.Spectrum, opts WriteOptions) error {
	fmt.Fprintf(buf, "\t\t\t<spectrum id=%q index=\"%d\" defaultArrayLength=\"%d\">\n", id, index, len(s.Peaks))
	fmt.Fprintf(buf, "\t\t\t\t<cvParam cvRef=\"MS\" accession=\"MS:1000511\" name=\"ms level\" value=\"%d\"/>\n", s.MSLevel)
	writePolarityCVParam(buf, s.Polarity)

	buf.WriteString("\t\t\t\t<scanList>\n\t\t\t\t\t<scan>\n")
	fmt.Fprintf(buf, "\t\t\t\t\t\t<cvParam cvRef=\"MS\" accession=\"MS:1000016\" name=\"scan start time\" value=\"%s\"/>\n", formatFloat(s.RT))
	buf.WriteString("\t\t\t\t\t</scan>\n\t\t\t\t</scanList>\n")

	if len(s.Precursors) > 0 {
		buf.WriteString("\t\t\t\t<precursorList>\n")
		for _, p := range s.Precursors {
			writePrecursor(buf, p)
		}
		buf.WriteString("\t\t\t\t</precursorList>\n")
	}

	mz := make([]float64, len(s.Peaks))
	intensity := make([]float64, len(s.Peaks))
	for i, p := range s.Peaks {
		mz[i] = p.MZ
		intensity[i] = p.Intensity
	}

	buf.WriteString("\t\t\t\t<binaryDataArrayList>\n")
	if err := writeArray(buf, accMZArray, "m/z array", mz, opts.MZEncoding); err != nil {
		return err
	}
	if err := writeArray(buf, accIntensityArr, "intensity array", intensity, opts.IntEncoding); err != nil {
		return err
	}
	for name, values := range s.FloatArrays {
		if err := writeArray(buf, "MS:1000786", name, values, opts.IntEncoding); err != nil {
			return err
		}
	}
	buf.WriteString("\t\t\t\t</binaryDataArrayList>\n")
	buf.WriteString("\t\t\t</spectrum>\n")
	return nil
}

func writeChromatogram(buf *bytes.Buffer, index int, id string, c *msmodel.Chromatogram, opts WriteOptions) error {
	fmt.Fprintf(buf, "\t\t\t<chromatogram id=%q index=\"%d\" defaultArrayLength=\"%d\">\n", id, index, len(c.Peaks))

	if c.PrecursorMZ != 0 {
		fmt.Fprintf(buf, "\t\t\t\t<cvParam cvRef=\"MS\" accession=\"%s\" name=\"precursor m/z\" value=\"%s\"/>\n", accChromPrecursorMZ, formatFloat(c.PrecursorMZ))
	}
	if c.ProductMZ != 0 {
		fmt.Fprintf(buf, "\t\t\t\t<cvParam cvRef=\"MS\" accession=\"%s\" name=\"product m/z\" value=\"%s\"/>\n", accChromProductMZ, formatFloat(c.ProductMZ))
	}

	time := make([]float64, len(c.Peaks))
	intensity := make([]float64, len(c.Peaks))
	for i, p := range c.Peaks {
		time[i] = p.Time
		intensity[i] = p.Intensity
	}

	buf.WriteString("\t\t\t\t<binaryDataArrayList>\n")
	if err := writeArray(buf, accTimeArray, "time array", time, opts.TimeEncoding); err != nil {
		return err
	}
	if err := writeArray(buf, accIntensityArr, "intensity array", intensity, opts.IntEncoding); err != nil {
		return err
	}
	buf.WriteString("\t\t\t\t</binaryDataArrayList>\n")
	buf.WriteString("\t\t\t</chromatogram>\n")
	return nil
}

func writePrecursor(buf *bytes.Buffer, p msmodel.Precursor) {
	buf.WriteString("\t\t\t\t\t<precursor>\n")
	lower, upper := p.IsolationWindow()
	fmt.Fprintf(buf, "\t\t\t\t\t\t<isolationWindow>\n\t\t\t\t\t\t\t<cvParam cvRef=\"MS\" accession=\"MS:1000827\" name=\"isolation window target m/z\" value=\"%s\"/>\n", formatFloat(p.MZ))
	fmt.Fprintf(buf, "\t\t\t\t\t\t\t<cvParam cvRef=\"MS\" accession=\"MS:1000828\" name=\"isolation window lower offset\" value=\"%s\"/>\n", formatFloat(p.MZ-lower))
	fmt.Fprintf(buf, "\t\t\t\t\t\t\t<cvParam cvRef=\"MS\" accession=\"MS:1000829\" name=\"isolation window upper offset\" value=\"%s\"/>\n", formatFloat(upper-p.MZ))
	buf.WriteString("\t\t\t\t\t\t</isolationWindow>\n")
	fmt.Fprintf(buf, "\t\t\t\t\t\t<selectedIonList>\n\t\t\t\t\t\t\t<selectedIon>\n\t\t\t\t\t\t\t\t<cvParam cvRef=\"MS\" accession=\"MS:1000744\" name=\"selected ion m/z\" value=\"%s\"/>\n", formatFloat(p.MZ))
	fmt.Fprintf(buf, "\t\t\t\t\t\t\t\t<cvParam cvRef=\"MS\" accession=\"MS:1000041\" name=\"charge state\" value=\"%d\"/>\n", p.Charge)
	buf.WriteString("\t\t\t\t\t\t\t</selectedIon>\n\t\t\t\t\t\t</selectedIonList>\n")
	buf.WriteString("\t\t\t\t\t\t<activation>\n")
	for m := range p.Activation {
		fmt.Fprintf(buf, "\t\t\t\t\t\t\t<cvParam cvRef=\"MS\" accession=\"MS:1000044\" name=\"dissociation method\" value=\"%s\"/>\n", string(m))
	}
	buf.WriteString("\t\t\t\t\t\t</activation>\n")
	buf.WriteString("\t\t\t\t\t</precursor>\n")
}

func writePolarityCVParam(buf *bytes.Buffer, p msmodel.Polarity) {
	switch p {
	case msmodel.PolarityPositive:
		buf.WriteString("\t\t\t\t<cvParam cvRef=\"MS\" accession=\"MS:1000130\" name=\"positive scan\"/>\n")
	case msmodel.PolarityNegative:
		buf.WriteString("\t\t\t\t<cvParam cvRef=\"MS\" accession=\"MS:1000129\" name=\"negative scan\"/>\n")
	}
}

func writeArray(buf *bytes.Buffer, accession, name string, values []float64, enc ArrayEncoding) error {
	text, err := enc.Pipeline.EncodeFloat64(values)
	if err != nil {
		return errs.Wrap(errs.IO, "encoding binary array "+name, err)
	}
	buf.WriteString("\t\t\t\t\t<binaryDataArray>\n")
	if enc.Precision == Precision64 {
		buf.WriteString("\t\t\t\t\t\t<cvParam cvRef=\"MS\" accession=\"" + accFloat64 + "\" name=\"64-bit float\"/>\n")
	} else {
		buf.WriteString("\t\t\t\t\t\t<cvParam cvRef=\"MS\" accession=\"" + accFloat32 + "\" name=\"32-bit float\"/>\n")
	}
	cv := compressionCVParam(enc.Pipeline.Zlib, enc.Pipeline.Numeric)
	fmt.Fprintf(buf, "\t\t\t\t\t\t<cvParam cvRef=\"%s\" accession=\"%s\" name=%q/>\n", cv.CVRef, cv.Accession, cv.Name)
	fmt.Fprintf(buf, "\t\t\t\t\t\t<cvParam cvRef=\"MS\" accession=\"%s\" name=%q value=%q/>\n", accession, name, name)
	fmt.Fprintf(buf, "\t\t\t\t\t\t<binary>%s</binary>\n", text)
	buf.WriteString("\t\t\t\t\t</binaryDataArray>\n")
	return nil
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
