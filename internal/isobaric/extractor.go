package isobaric

import (
	"sort"

	"github.com/openms-go/mscore/internal/msmodel"
)

// Config controls channel extraction and correction, the tunables
// spec.md §4.9 names: the labeling method, an optional activation-
// method/isolation-window-width filter on which MSn spectrum supplies
// reporter intensities, the per-channel m/z tolerance, and an optional
// reference channel for post-correction normalization.
type Config struct {
	Method Method

	// RequireActivation, if non-empty, restricts channel-supplying
	// spectra to those whose precursor activation set intersects it.
	RequireActivation msmodel.ActivationSet

	// MaxIsolationWindowWidth, if > 0, rejects a candidate spectrum
	// whose precursor isolation window is wider than this (Th).
	MaxIsolationWindowWidth float64

	// MZTolerance is the per-channel peak-matching tolerance in Th.
	// spec.md §4.9: default ~0.002 Th, minimum permitted 0.0001 Th,
	// 10-plex capped at 0.003 Th to avoid reaching into a sibling
	// C/N channel about 6 mDa away.
	MZTolerance float64

	// ReferenceChannel, if non-empty, names the channel every other
	// channel's corrected intensity is divided by before output.
	ReferenceChannel string
}

// DefaultMZTolerance is spec.md §4.9's design default.
const DefaultMZTolerance = 0.002

// MinMZTolerance is spec.md §4.9's documented floor.
const MinMZTolerance = 0.0001

// maxTenPlexTolerance keeps a channel lookup from reaching into a
// sibling N/C channel roughly 6 mDa away in 10-plex and denser methods.
const maxTenPlexTolerance = 0.003

// ResolveTolerance returns cfg.MZTolerance clamped into its permitted
// range, applying the tighter 10-plex-and-above cap when the method has
// at least 10 channels.
func (cfg Config) ResolveTolerance() float64 {
	tol := cfg.MZTolerance
	if tol <= 0 {
		tol = DefaultMZTolerance
	}
	if tol < MinMZTolerance {
		tol = MinMZTolerance
	}
	if cfg.Method.NumChannels() >= 10 && tol > maxTenPlexTolerance {
		tol = maxTenPlexTolerance
	}
	return tol
}

// ChannelObservation is one channel's raw extracted signal from a
// single spectrum, before impurity correction.
type ChannelObservation struct {
	ChannelID  int
	Name       string
	Intensity  float64
	ObservedMZ float64 // 0 if nothing matched within tolerance
	ExpectedMZ float64
	Matched    bool
}

// deepestMSnLevel returns the highest MS level at or below 3 present
// anywhere in exp, or 2 when no spectrum is MS2 or MS3 (spec.md §4.9:
// "deepest MSn level present, prefer MS3 else MS2"). It scans the
// whole experiment, since the data model does not carry explicit
// parent/child scan links.
func deepestMSnLevel(exp *msmodel.Experiment) int {
	best := 0
	for _, s := range exp.Spectra {
		lvl := s.MSLevel
		if lvl > 3 {
			lvl = 0 // ignore MS4+ ; reporter ions live in MS2/MS3
		}
		if lvl > best {
			best = lvl
		}
	}
	if best < 2 {
		return 2
	}
	return best
}

// eligible reports whether s is a candidate channel-supplying spectrum
// under cfg's activation/isolation-window filters.
func (cfg Config) eligible(s *msmodel.Spectrum) bool {
	if len(cfg.RequireActivation) > 0 && !s.ActiveMethods().Intersects(cfg.RequireActivation) {
		return false
	}
	if cfg.MaxIsolationWindowWidth > 0 {
		for _, p := range s.Precursors {
			width := p.IsolationWindowLower + p.IsolationWindowUpper
			if width > cfg.MaxIsolationWindowWidth {
				return false
			}
		}
	}
	return true
}

// ExtractChannels finds, for each of cfg.Method's channels, the peak in
// s nearest its expected center m/z within cfg's tolerance (spec.md
// §4.9: "per-channel nearest-peak-within-tolerance lookup"; zero
// intensity recorded if nothing within tolerance).
func ExtractChannels(cfg Config, s *msmodel.Spectrum) []ChannelObservation {
	tol := cfg.ResolveTolerance()
	out := make([]ChannelObservation, cfg.Method.NumChannels())
	for i, ch := range cfg.Method.Channels {
		obs := ChannelObservation{ChannelID: ch.ID, Name: ch.Name, ExpectedMZ: ch.CenterMZ}
		bestIdx := -1
		bestDist := tol
		for pi, p := range s.Peaks {
			d := p.MZ - ch.CenterMZ
			if d < 0 {
				d = -d
			}
			if d <= bestDist {
				bestDist = d
				bestIdx = pi
			}
		}
		if bestIdx >= 0 {
			obs.Intensity = s.Peaks[bestIdx].Intensity
			obs.ObservedMZ = s.Peaks[bestIdx].MZ
			obs.Matched = true
		}
		out[i] = obs
	}
	return out
}

// SelectChannelSpectrum picks the spectrum that should supply reporter
// intensities for the MSn event anchored at precursorSpectrum. When the
// experiment's deepest level is above precursorSpectrum's, it returns
// the eligible spectrum at that level whose precursor m/z distance plus
// RT distance to precursorSpectrum is smallest; no distance limit is
// applied. Otherwise, or when no such spectrum is eligible, it falls
// back to precursorSpectrum itself if that is eligible, else nil.
// Most mzML exports attach reporter ions directly to the MS2 spectrum,
// which this resolves to when no independent MS3 scan is found.
func SelectChannelSpectrum(cfg Config, exp *msmodel.Experiment, precursorSpectrum *msmodel.Spectrum) *msmodel.Spectrum {
	deepest := deepestMSnLevel(exp)
	if deepest <= precursorSpectrum.MSLevel {
		if cfg.eligible(precursorSpectrum) {
			return precursorSpectrum
		}
		return nil
	}
	var best *msmodel.Spectrum
	bestDist := -1.0
	for _, cand := range exp.Spectra {
		if cand.MSLevel != deepest || !cfg.eligible(cand) {
			continue
		}
		for _, p := range cand.Precursors {
			d := p.MZ - precursorMZ(precursorSpectrum)
			if d < 0 {
				d = -d
			}
			rt := cand.RT - precursorSpectrum.RT
			if rt < 0 {
				rt = -rt
			}
			total := d + rt
			if bestDist < 0 || total < bestDist {
				bestDist = total
				best = cand
			}
		}
	}
	if best != nil {
		return best
	}
	if cfg.eligible(precursorSpectrum) {
		return precursorSpectrum
	}
	return nil
}

func precursorMZ(s *msmodel.Spectrum) float64 {
	if len(s.Precursors) == 0 {
		return 0
	}
	return s.Precursors[0].MZ
}

// sortSpectraByNativeID gives a deterministic scan order for building
// features, independent of however the caller assembled exp.Spectra.
func sortSpectraByNativeID(spectra []*msmodel.Spectrum) []*msmodel.Spectrum {
	out := append([]*msmodel.Spectrum(nil), spectra...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].NativeID < out[j].NativeID })
	return out
}
