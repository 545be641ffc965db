// Package deconv implements spec.md §4.10 (C10): the spectral
// deconvolution core for top-down mass spectrometry — log-m/z binning,
// universal-pattern convolution across candidate charges, harmonic
// suppression, isotope-cosine scoring against an averagine model, peak
// group assembly, overlap removal, and target/decoy tagging.
package deconv

import "github.com/openms-go/mscore/internal/msmodel"

// protonMass is the mass added per charge when converting between
// neutral monoisotopic mass and observed m/z (M = mz*z - z*protonMass).
const protonMass = 1.00727646677

// isoDaDistance is the nominal mass spacing between adjacent
// isotopologues, spec.md §4.10's design constant for overlap removal.
const isoDaDistance = 1.00235

// Config holds one spectrum's deconvolution parameters (spec.md §4.10:
// "Configuration supplies: allowed charge range, mass range, per-level
// mass tolerance, per-level isotope-cosine threshold, per-level SNR
// threshold, per-level q-value threshold, optional target/exclusion
// mass lists").
type Config struct {
	MinCharge, MaxCharge int
	MinMass, MaxMass     float64

	TolerancePPM     float64
	MinIsotopeCosine float64
	MinSNR           float64
	MaxQValue        float64

	// BinsPerLogUnit controls the resolution of the log-mass bins the
	// universal-pattern convolution scores (spec.md §4.10 step 1's
	// "bin_multiplier"); higher values give finer bins at
	// proportionally higher memory cost. A bin spans a relative width
	// of 1/BinsPerLogUnit, so the default 100000 gives 10 ppm bins.
	BinsPerLogUnit float64

	TargetMasses    []float64
	ExcludedMasses  []float64
	TargetDecoyType msmodel.TargetDecoyType

	// MaxIsotopeIndex bounds how many isotopologues above the
	// monoisotopic peak are searched for (spec.md §4.10 step 5).
	MaxIsotopeIndex int
}

// DefaultConfig returns parameters suited to a typical top-down MS1
// scan: charges 1-60, masses up to 100 kDa, 10 ppm tolerance, 0.7
// isotope-cosine threshold — the same order-of-magnitude defaults
// SpectralDeconvolution.h's updateMembers_ derives from its Param
// block.
func DefaultConfig() Config {
	return Config{
		MinCharge:        1,
		MaxCharge:        60,
		MinMass:          50,
		MaxMass:          100000,
		TolerancePPM:     10,
		MinIsotopeCosine: 0.7,
		MinSNR:           1.0,
		MaxQValue:        1.0,
		BinsPerLogUnit:   100000,
		TargetDecoyType:  msmodel.TargetDecoyTarget,
		MaxIsotopeIndex:  20,
	}
}

// minIsoSize is the minimum isotopologue count a peak group must carry
// to be reported (SpectralDeconvolution.h's min_iso_size).
const minIsoSize = 2
