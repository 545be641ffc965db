package isobaric

import (
	"sort"

	"github.com/openms-go/mscore/internal/msmodel"
)

// Diagnostics reports per-channel quality signals from a Quantify run.
// spec.md §4.9 mentions per-channel median observed-vs-expected m/z
// offset as a diagnostic; this rewrite returns it as a struct rather
// than a log line so callers can consume it programmatically (spec.md
// §6's "programmatic APIs only" rule for interfaces).
type Diagnostics struct {
	// MedianMZOffset maps channel name to the median (observed -
	// expected) m/z across every spectrum where that channel matched a
	// peak within tolerance.
	MedianMZOffset map[string]float64

	// SpectraConsidered is the number of MSn spectra examined as
	// channel-extraction candidates.
	SpectraConsidered int

	// FeaturesEmitted is the number of ConsensusFeatures produced.
	FeaturesEmitted int

	// FeaturesDroppedAllZero is the number of candidate spectra whose
	// channels were all zero intensity and were therefore dropped
	// (spec.md §4.9: "all-zero-intensity features are dropped unless
	// spectrum itself is empty").
	FeaturesDroppedAllZero int
}

// Quantify extracts, corrects, and assembles reporter-ion channels from
// every eligible MSn spectrum in exp into a ConsensusMap (spec.md
// §4.9).
func Quantify(cfg Config, exp *msmodel.Experiment) (*msmodel.ConsensusMap, Diagnostics, error) {
	impurity := BuildImpurityMatrix(cfg.Method)
	cm := msmodel.NewConsensusMap()
	cm.ExperimentTyp = msmodel.ExperimentLabeled
	for i, ch := range cfg.Method.Channels {
		cm.ColumnHeaders[i] = msmodel.ColumnHeader{Label: ch.Name, UniqueID: uint64(i)}
	}

	offsets := make(map[string][]float64, cfg.Method.NumChannels())
	diag := Diagnostics{MedianMZOffset: make(map[string]float64, cfg.Method.NumChannels())}

	candidates := precursorCandidates(exp)
	for _, precursorSpec := range sortSpectraByNativeID(candidates) {
		channelSpec := SelectChannelSpectrum(cfg, exp, precursorSpec)
		if channelSpec == nil {
			continue
		}
		diag.SpectraConsidered++

		if channelSpec.IsEmpty() {
			continue
		}

		observations := ExtractChannels(cfg, channelSpec)
		raw := make([]float64, len(observations))
		allZero := true
		for i, obs := range observations {
			raw[i] = obs.Intensity
			if obs.Intensity != 0 {
				allZero = false
			}
			if obs.Matched {
				offsets[obs.Name] = append(offsets[obs.Name], obs.ObservedMZ-obs.ExpectedMZ)
			}
		}
		if allZero {
			diag.FeaturesDroppedAllZero++
			continue
		}

		corrected, err := CorrectIntensities(impurity, raw)
		if err != nil {
			return nil, Diagnostics{}, err
		}
		if cfg.ReferenceChannel != "" {
			normalizeByReference(cfg, corrected)
		}

		feature := msmodel.ConsensusFeature{
			ID: uint64(len(cm.Features) + 1),
			Position: msmodel.Point{
				RT: precursorSpec.RT,
				MZ: precursorMZ(precursorSpec),
			},
			Charge: precursorCharge(precursorSpec),
		}
		for i := range cfg.Method.Channels {
			feature.AddHandle(msmodel.FeatureHandle{
				MapIndex:  i,
				FeatureID: feature.ID,
				Position:  feature.Position,
				Intensity: corrected[i],
				Charge:    feature.Charge,
			})
		}
		cm.Features = append(cm.Features, feature)
		diag.FeaturesEmitted++
	}

	for name, samples := range offsets {
		diag.MedianMZOffset[name] = median(samples)
	}
	return cm, diag, nil
}

// precursorCandidates selects the spectra that anchor a would-be
// ConsensusFeature: every spectrum carrying at least one precursor
// (spec.md §4.9 channel extraction starts from an MSn precursor event).
func precursorCandidates(exp *msmodel.Experiment) []*msmodel.Spectrum {
	var out []*msmodel.Spectrum
	for _, s := range exp.Spectra {
		if len(s.Precursors) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func precursorCharge(s *msmodel.Spectrum) int {
	if len(s.Precursors) == 0 {
		return 0
	}
	return s.Precursors[0].Charge
}

// normalizeByReference divides every channel's corrected intensity by
// the reference channel's, spec.md §4.9's optional reference-channel
// normalization. A zero reference intensity leaves values unchanged
// rather than dividing by zero.
func normalizeByReference(cfg Config, corrected []float64) {
	ch, ok := cfg.Method.ChannelByName(cfg.ReferenceChannel)
	if !ok {
		return
	}
	ref := corrected[ch.ID]
	if ref == 0 {
		return
	}
	for i := range corrected {
		corrected[i] /= ref
	}
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
