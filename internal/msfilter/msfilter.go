// Package msfilter implements spec.md §4.8 (C8): unary predicates over
// a Spectrum, each constructible with a reverse flag so the same
// predicate object drives both "keep-if" and "remove-if" erase-remove
// passes over a Spectra slice.
package msfilter

import (
	"github.com/openms-go/mscore/internal/msmodel"
)

// Predicate tests a spectrum, honoring its own reverse setting.
type Predicate interface {
	Test(s *msmodel.Spectrum) bool
}

// Apply filters spectra in place, keeping only those for which p.Test
// reports true, the erase-remove pass every predicate is built to
// drive (spec.md §4.8, S6).
func Apply(spectra []*msmodel.Spectrum, p Predicate) []*msmodel.Spectrum {
	out := spectra[:0]
	for _, s := range spectra {
		if p.Test(s) {
			out = append(out, s)
		}
	}
	return out
}

func negate(reverse, result bool) bool {
	if reverse {
		return !result
	}
	return result
}

// InRTRange keeps spectra whose RT lies in the closed interval
// [Min, Max].
type InRTRange struct {
	Min, Max float64
	Reverse  bool
}

// NewInRTRange builds the predicate.
func NewInRTRange(min, max float64, reverse bool) InRTRange {
	return InRTRange{Min: min, Max: max, Reverse: reverse}
}

func (p InRTRange) Test(s *msmodel.Spectrum) bool {
	return negate(p.Reverse, s.RT >= p.Min && s.RT <= p.Max)
}

// InMzRange keeps spectra that have at least one peak whose m/z lies
// in the closed interval [Min, Max].
type InMzRange struct {
	Min, Max float64
	Reverse  bool
}

func NewInMzRange(min, max float64, reverse bool) InMzRange {
	return InMzRange{Min: min, Max: max, Reverse: reverse}
}

func (p InMzRange) Test(s *msmodel.Spectrum) bool {
	for _, peak := range s.Peaks {
		if peak.MZ >= p.Min && peak.MZ <= p.Max {
			return negate(p.Reverse, true)
		}
	}
	return negate(p.Reverse, false)
}

// InIntensityRange keeps spectra that have at least one peak whose
// intensity lies in the closed interval [Min, Max].
type InIntensityRange struct {
	Min, Max float64
	Reverse  bool
}

func NewInIntensityRange(min, max float64, reverse bool) InIntensityRange {
	return InIntensityRange{Min: min, Max: max, Reverse: reverse}
}

func (p InIntensityRange) Test(s *msmodel.Spectrum) bool {
	for _, peak := range s.Peaks {
		if peak.Intensity >= p.Min && peak.Intensity <= p.Max {
			return negate(p.Reverse, true)
		}
	}
	return negate(p.Reverse, false)
}

// InMSLevelRange keeps spectra whose MS level is one of Levels.
type InMSLevelRange struct {
	Levels  map[int]struct{}
	Reverse bool
}

func NewInMSLevelRange(reverse bool, levels ...int) InMSLevelRange {
	set := make(map[int]struct{}, len(levels))
	for _, l := range levels {
		set[l] = struct{}{}
	}
	return InMSLevelRange{Levels: set, Reverse: reverse}
}

func (p InMSLevelRange) Test(s *msmodel.Spectrum) bool {
	_, ok := p.Levels[s.MSLevel]
	return negate(p.Reverse, ok)
}

// HasScanMode keeps spectra whose InstrumentSettings.ScanMode equals Mode.
type HasScanMode struct {
	Mode    string
	Reverse bool
}

func NewHasScanMode(mode string, reverse bool) HasScanMode {
	return HasScanMode{Mode: mode, Reverse: reverse}
}

func (p HasScanMode) Test(s *msmodel.Spectrum) bool {
	return negate(p.Reverse, s.InstrumentSettings.ScanMode == p.Mode)
}

// HasScanPolarity keeps spectra with the given Polarity.
type HasScanPolarity struct {
	Polarity msmodel.Polarity
	Reverse  bool
}

func NewHasScanPolarity(polarity msmodel.Polarity, reverse bool) HasScanPolarity {
	return HasScanPolarity{Polarity: polarity, Reverse: reverse}
}

func (p HasScanPolarity) Test(s *msmodel.Spectrum) bool {
	return negate(p.Reverse, s.Polarity == p.Polarity)
}

// IsZoomSpectrum keeps spectra flagged as a zoom scan.
type IsZoomSpectrum struct {
	Reverse bool
}

func NewIsZoomSpectrum(reverse bool) IsZoomSpectrum {
	return IsZoomSpectrum{Reverse: reverse}
}

func (p IsZoomSpectrum) Test(s *msmodel.Spectrum) bool {
	return negate(p.Reverse, s.ZoomScan)
}

// IsEmptySpectrum keeps spectra with zero peaks.
type IsEmptySpectrum struct {
	Reverse bool
}

func NewIsEmptySpectrum(reverse bool) IsEmptySpectrum {
	return IsEmptySpectrum{Reverse: reverse}
}

func (p IsEmptySpectrum) Test(s *msmodel.Spectrum) bool {
	return negate(p.Reverse, s.IsEmpty())
}

// HasActivationMethod keeps spectra where some precursor's activation
// set intersects Methods (spec.md §4.8).
type HasActivationMethod struct {
	Methods msmodel.ActivationSet
	Reverse bool
}

func NewHasActivationMethod(reverse bool, methods ...msmodel.ActivationMethod) HasActivationMethod {
	return HasActivationMethod{Methods: msmodel.NewActivationSet(methods...), Reverse: reverse}
}

func (p HasActivationMethod) Test(s *msmodel.Spectrum) bool {
	return negate(p.Reverse, s.ActiveMethods().Intersects(p.Methods))
}

// HasPrecursorCharge keeps spectra where any precursor's charge is a
// member of Charges.
type HasPrecursorCharge struct {
	Charges map[int]struct{}
	Reverse bool
}

func NewHasPrecursorCharge(reverse bool, charges ...int) HasPrecursorCharge {
	set := make(map[int]struct{}, len(charges))
	for _, c := range charges {
		set[c] = struct{}{}
	}
	return HasPrecursorCharge{Charges: set, Reverse: reverse}
}

func (p HasPrecursorCharge) Test(s *msmodel.Spectrum) bool {
	for _, pr := range s.Precursors {
		if _, ok := p.Charges[pr.Charge]; ok {
			return negate(p.Reverse, true)
		}
	}
	return negate(p.Reverse, false)
}

// InPrecursorMZRange rejects a spectrum if any precursor's m/z falls
// outside [Min, Max] (spec.md §4.8: "reject spectrum if any precursor
// falls outside" — unlike InMzRange's "any peak matches" semantics,
// this one requires every precursor to be inside).
type InPrecursorMZRange struct {
	Min, Max float64
	Reverse  bool
}

func NewInPrecursorMZRange(min, max float64, reverse bool) InPrecursorMZRange {
	return InPrecursorMZRange{Min: min, Max: max, Reverse: reverse}
}

func (p InPrecursorMZRange) Test(s *msmodel.Spectrum) bool {
	for _, pr := range s.Precursors {
		if pr.MZ < p.Min || pr.MZ > p.Max {
			return negate(p.Reverse, false)
		}
	}
	return negate(p.Reverse, true)
}

// IsInIsolationWindow keeps spectra where some precursor's isolation
// window encloses any of Targets (spec.md §4.8).
type IsInIsolationWindow struct {
	Targets []float64
	Reverse bool
}

func NewIsInIsolationWindow(reverse bool, targets ...float64) IsInIsolationWindow {
	return IsInIsolationWindow{Targets: targets, Reverse: reverse}
}

func (p IsInIsolationWindow) Test(s *msmodel.Spectrum) bool {
	for _, pr := range s.Precursors {
		for _, target := range p.Targets {
			if pr.Encloses(target) {
				return negate(p.Reverse, true)
			}
		}
	}
	return negate(p.Reverse, false)
}

// HasMetaValue keeps spectra whose metadata map has Name set.
type HasMetaValue struct {
	Name    string
	Reverse bool
}

func NewHasMetaValue(name string, reverse bool) HasMetaValue {
	return HasMetaValue{Name: name, Reverse: reverse}
}

func (p HasMetaValue) Test(s *msmodel.Spectrum) bool {
	return negate(p.Reverse, s.Meta.Has(p.Name))
}
