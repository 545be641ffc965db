package mzml

import (
	"fmt"

	"github.com/openms-go/mscore/internal/codec"
	"github.com/openms-go/mscore/internal/errs"
	"github.com/openms-go/mscore/internal/msmodel"
)

// arrayMeta is what a <binaryDataArray>'s own cvParam list tells the
// reader about how to decode its <binary> payload.
type arrayMeta struct {
	precision PrecisionHint
	scheme    codec.NumericScheme
	zlib      bool
	role      string // "mz", "intensity", "time", "other" for a named array, or "" if no role cvParam
}

// Read parses an mzML document (bare <mzML> or <indexedmzML>) into an
// Experiment. The index list, if present, is returned alongside but is
// not required for this eager parse; OpenOnDisk in ondisk.go is the
// lazy-decoding counterpart, and it does not consult the index either.
func Read(data []byte) (*msmodel.Experiment, *Index, error) {
	doc, idx, err := decodeDocument(data)
	if err != nil {
		return nil, nil, err
	}

	experiment := msmodel.NewExperiment()
	for i, xs := range doc.Run.SpectrumList.Spectra {
		s, err := decodeSpectrum(i, xs)
		if err != nil {
			return nil, nil, err
		}
		experiment.AddSpectrum(s)
	}
	for i, xc := range doc.Run.ChromatogramList.Chromatograms {
		c, err := decodeChromatogram(i, xc)
		if err != nil {
			return nil, nil, err
		}
		experiment.AddChromatogram(c)
	}
	return experiment, idx, nil
}

// decodeDocument unmarshals either an indexedmzML or a bare mzML root
// element, trying indexedmzML first since it is the common on-disk
// form (spec.md §4.7).
func decodeDocument(data []byte) (*xmlMzML, *Index, error) {
	var indexed xmlIndexedMzML
	if err := newXMLDecoder(data).Decode(&indexed); err == nil && indexed.XMLName.Local == "indexedmzML" {
		idx := decodeIndex(indexed.IndexList, indexed.IndexListOffset, indexed.FileChecksum)
		return &indexed.MzML, idx, nil
	}

	var bare xmlMzML
	if err := newXMLDecoder(data).Decode(&bare); err != nil {
		return nil, nil, errs.Wrap(errs.Parse, "decoding mzML document", err)
	}
	return &bare, nil, nil
}

func decodeIndex(list xmlIndexList, listOffset int64, checksum string) *Index {
	idx := &Index{IndexListOffset: listOffset, FileChecksum: checksum}
	for _, entry := range list.Indexes {
		offsets := make([]ArrayOffset, 0, len(entry.Offsets))
		for _, o := range entry.Offsets {
			offsets = append(offsets, ArrayOffset{IDRef: o.IDRef, Offset: o.Value})
		}
		switch entry.Name {
		case "spectrum":
			idx.SpectrumOffsets = offsets
		case "chromatogram":
			idx.ChromatogramOffsets = offsets
		}
	}
	return idx
}

func decodeSpectrum(index int, xs xmlSpectrum) (*msmodel.Spectrum, error) {
	s := msmodel.NewSpectrum(0)
	s.NativeID = xs.ID

	for _, cv := range xs.CVParams {
		switch cv.Accession {
		case "MS:1000511": // ms level
			s.MSLevel = mustAtoi(cv.Value)
		case "MS:1000130", "MS:1000129":
			s.Polarity = polarityFromCV(cv.Accession)
		case "MS:1000804": // zoom scan
			s.ZoomScan = true
		}
	}

	for _, scan := range xs.ScanList {
		for _, cv := range scan.CVParams {
			if cv.Accession == "MS:1000016" { // scan start time
				s.RT = mustAtof(cv.Value)
			}
		}
	}

	for _, xp := range xs.PrecursorList {
		s.Precursors = append(s.Precursors, decodePrecursor(xp))
	}

	arrays, err := decodeBinaryArrays(xs.BinaryDataArrayList, xs.DefaultArrayLength)
	if err != nil {
		return nil, errs.Wrap(errs.Parse, fmt.Sprintf("spectrum %q (index %d)", xs.ID, index), err)
	}
	applySpectrumArrays(s, arrays)
	return s, nil
}

func decodePrecursor(xp xmlPrecursor) msmodel.Precursor {
	p := msmodel.Precursor{Activation: msmodel.ActivationSet{}}
	var targetMZ, lowerOffset, upperOffset float64
	for _, cv := range xp.IsolationWindow.CVParams {
		switch cv.Accession {
		case "MS:1000827":
			targetMZ = mustAtof(cv.Value)
		case "MS:1000828":
			lowerOffset = mustAtof(cv.Value)
		case "MS:1000829":
			upperOffset = mustAtof(cv.Value)
		}
	}
	p.MZ = targetMZ
	p.IsolationWindowLower = lowerOffset
	p.IsolationWindowUpper = upperOffset

	for _, ion := range xp.SelectedIonList.SelectedIon {
		for _, cv := range ion.CVParams {
			switch cv.Accession {
			case "MS:1000744":
				if p.MZ == 0 {
					p.MZ = mustAtof(cv.Value)
				}
			case "MS:1000041":
				p.Charge = mustAtoi(cv.Value)
			}
		}
	}

	for _, cv := range xp.Activation.CVParams {
		if cv.Accession == "MS:1000044" && cv.Value != "" {
			p.Activation[msmodel.ActivationMethod(cv.Value)] = struct{}{}
		}
		if method, ok := activationMethodFromCV(cv.Accession); ok {
			p.Activation[method] = struct{}{}
		}
	}
	return p
}

func activationMethodFromCV(accession string) (msmodel.ActivationMethod, bool) {
	switch accession {
	case "MS:1000133":
		return msmodel.CID, true
	case "MS:1000422":
		return msmodel.HCD, true
	case "MS:1000598":
		return msmodel.ETD, true
	case "MS:1000135":
		return msmodel.PSD, true
	}
	return "", false
}

func decodeChromatogram(index int, xc xmlChromatogram) (*msmodel.Chromatogram, error) {
	c := msmodel.NewChromatogram()
	c.NativeID = xc.ID
	for _, cv := range xc.CVParams {
		switch cv.Accession {
		case accChromPrecursorMZ:
			c.PrecursorMZ = mustAtof(cv.Value)
		case accChromProductMZ:
			c.ProductMZ = mustAtof(cv.Value)
		}
	}

	arrays, err := decodeBinaryArrays(xc.BinaryDataArrayList, xc.DefaultArrayLength)
	if err != nil {
		return nil, errs.Wrap(errs.Parse, fmt.Sprintf("chromatogram %q (index %d)", xc.ID, index), err)
	}
	applyChromatogramArrays(c, arrays)
	return c, nil
}

// decodedArray is one binary array decoded to float64 plus the role
// its cvParams declared, so the caller can route it to Peaks, a named
// parallel array, or a chromatogram's time axis.
type decodedArray struct {
	role   string
	name   string
	values []float64
}

func decodeBinaryArrays(list []xmlBinaryDataArray, defaultLength int) ([]decodedArray, error) {
	out := make([]decodedArray, 0, len(list))
	for _, xb := range list {
		meta := arrayMeta{precision: Precision64}
		name := ""
		for _, cv := range xb.CVParams {
			switch cv.Accession {
			case accFloat64:
				meta.precision = Precision64
			case accFloat32:
				meta.precision = Precision32
			case accZlib:
				meta.zlib = true
			case accNoCompression:
				meta.zlib = false
			case accMZArray:
				meta.role = "mz"
			case accIntensityArr:
				meta.role = "intensity"
			case accTimeArray:
				meta.role = "time"
			case "MS:1000786":
				meta.role = "other"
				name = cv.Value
				if name == "" {
					name = cv.Name
				}
			default:
				if scheme, ok := decodeScheme(cv.Accession); ok {
					meta.scheme = scheme
				}
			}
		}

		pipeline, err := codec.NewPipeline(meta.scheme, meta.zlib)
		if err != nil {
			return nil, err
		}
		values, err := pipeline.DecodeFloat64(xb.Binary, defaultLength)
		if err != nil {
			return nil, errs.Wrap(errs.Parse, "decoding binary array", err)
		}
		out = append(out, decodedArray{role: meta.role, name: name, values: values})
	}
	return out, nil
}

func applySpectrumArrays(s *msmodel.Spectrum, arrays []decodedArray) {
	var mz, intensity []float64
	for _, a := range arrays {
		switch a.role {
		case "mz":
			mz = a.values
		case "intensity":
			intensity = a.values
		default:
			if s.FloatArrays == nil {
				s.FloatArrays = map[string][]float64{}
			}
			s.FloatArrays[a.name] = a.values
		}
	}
	n := len(mz)
	if len(intensity) > n {
		n = len(intensity)
	}
	s.Peaks = make([]msmodel.Peak, n)
	for i := range s.Peaks {
		p := msmodel.Peak{}
		if i < len(mz) {
			p.MZ = mz[i]
		}
		if i < len(intensity) {
			p.Intensity = intensity[i]
		}
		s.Peaks[i] = p
	}
}

func applyChromatogramArrays(c *msmodel.Chromatogram, arrays []decodedArray) {
	var t, intensity []float64
	for _, a := range arrays {
		switch a.role {
		case "time":
			t = a.values
		case "intensity":
			intensity = a.values
		default:
			if c.FloatArrays == nil {
				c.FloatArrays = map[string][]float64{}
			}
			c.FloatArrays[a.name] = a.values
		}
	}
	n := len(t)
	if len(intensity) > n {
		n = len(intensity)
	}
	c.Peaks = make([]msmodel.ChromatogramPeak, n)
	for i := range c.Peaks {
		p := msmodel.ChromatogramPeak{}
		if i < len(t) {
			p.Time = t[i]
		}
		if i < len(intensity) {
			p.Intensity = intensity[i]
		}
		c.Peaks[i] = p
	}
}
