// Package mzml streams the mzML data model to and from XML (spec.md
// §4.6), including the index list a random-access reader uses to seek
// directly to a spectrum or chromatogram by native id.
package mzml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"golang.org/x/net/html/charset"

	"github.com/openms-go/mscore/internal/codec"
	"github.com/openms-go/mscore/internal/errs"
	"github.com/openms-go/mscore/internal/msmodel"
)

// PrecisionHint selects the on-wire float width for one binary array.
// mzML defaults m/z arrays to 64-bit and intensity arrays to 32-bit
// (spec.md §4.6 supplement from original_source's BinaryData precision
// field), but any array may be hinted independently.
type PrecisionHint int

const (
	Precision64 PrecisionHint = iota
	Precision32
)

// accessions used to identify compression/precision/array-role CV
// terms, taken directly from MzMLHandlerHelper.C's
// handleBinaryDataArrayCVParam.
const (
	accFloat64       = "MS:1000523"
	accFloat32       = "MS:1000521"
	accInt32         = "MS:1000519"
	accInt64         = "MS:1000522"
	accZlib          = "MS:1000574"
	accNoCompression = "MS:1000576"
	accNumpressLin   = "MS:1002312"
	accNumpressPic   = "MS:1002313"
	accNumpressSlof  = "MS:1002314"
	accMZArray       = "MS:1000514"
	accIntensityArr  = "MS:1000515"
	accTimeArray     = "MS:1000595"

	// chromatogram-level precursor/product m/z, distinct accessions
	// since a chromatogram's flat cvParam list (unlike a spectrum's
	// nested <precursor>) has no structural element to disambiguate
	// "isolation window target m/z" by role.
	accChromPrecursorMZ = "MS:1000827"
	accChromProductMZ   = "MS:1000827.product"
)

// ArrayOffset is one <offset idRef="..."> entry of an index list,
// pointing at a spectrum or chromatogram's byte position in the file.
type ArrayOffset struct {
	IDRef  string
	Offset int64
}

// Index is the parsed <indexList>, letting a random-access reader seek
// straight to an element without a full-file scan (spec.md §4.7).
type Index struct {
	SpectrumOffsets     []ArrayOffset
	ChromatogramOffsets []ArrayOffset
	IndexListOffset     int64
	FileChecksum        string
}

func decodeScheme(accession string) (codec.NumericScheme, bool) {
	switch accession {
	case accNumpressLin:
		return codec.NumericLinearPrediction, true
	case accNumpressPic:
		return codec.NumericPic, true
	case accNumpressSlof:
		return codec.NumericShortLoggedFloat, true
	}
	return codec.NumericNone, false
}

func compressionCVParam(useZlib bool, scheme codec.NumericScheme) xmlCVParam {
	switch scheme {
	case codec.NumericLinearPrediction:
		return xmlCVParam{CVRef: "MS", Accession: accNumpressLin, Name: "MS-Numpress linear prediction compression"}
	case codec.NumericPic:
		return xmlCVParam{CVRef: "MS", Accession: accNumpressPic, Name: "MS-Numpress positive integer compression"}
	case codec.NumericShortLoggedFloat:
		return xmlCVParam{CVRef: "MS", Accession: accNumpressSlof, Name: "MS-Numpress short logged float compression"}
	}
	if useZlib {
		return xmlCVParam{CVRef: "MS", Accession: accZlib, Name: "zlib compression"}
	}
	return xmlCVParam{CVRef: "MS", Accession: accNoCompression, Name: "no compression"}
}

// newXMLDecoder returns a decoder that handles non-UTF-8 mzML files via
// golang.org/x/net/html/charset, the same charset-detection library
// every XML-adjacent repo in the retrieval pack reaches for instead of
// assuming UTF-8.
func newXMLDecoder(data []byte) *xml.Decoder {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	return d
}

func mustAtoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func mustAtof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func polarityFromCV(accession string) msmodel.Polarity {
	switch accession {
	case "MS:1000130":
		return msmodel.PolarityPositive
	case "MS:1000129":
		return msmodel.PolarityNegative
	default:
		return msmodel.PolarityUnknown
	}
}

func unknownElementErr(tag string) error {
	return errs.New(errs.UnknownElement, fmt.Sprintf("mzML: unrecognized element %q", tag))
}
