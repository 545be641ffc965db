package deconv

import "github.com/openms-go/mscore/internal/msmodel"

// chargeDummyProtonShift is the per-peak m/z shift a charge dummy run
// applies, expressed directly in proton masses so that every peak is
// reinterpreted as if it carried one extra proton (SpectralDeconvolution.h's
// "charge dummy": a PeakGroup that would only make sense under an
// incorrect charge assignment).
const chargeDummyProtonShift = protonMass

// distortSpectrumForDecoy returns a copy of spec with its peaks
// perturbed according to decoyType, so replaying the pipeline over the
// result produces dummy PeakGroups instead of real ones (spec.md §4.10
// step 8: "for charge-dummy/noise-dummy/isotope-dummy runs, replay the
// same pipeline with distorted inputs and label the results
// accordingly"). A target run returns spec unchanged.
func distortSpectrumForDecoy(spec *msmodel.Spectrum, decoyType msmodel.TargetDecoyType) *msmodel.Spectrum {
	switch decoyType {
	case msmodel.TargetDecoyChargeDummy:
		return distortChargeDummy(spec)
	case msmodel.TargetDecoyNoiseDummy:
		return distortNoiseDummy(spec)
	case msmodel.TargetDecoyIsotopeDummy:
		return distortIsotopeDummy(spec)
	default:
		return spec
	}
}

func cloneSpectrumPeaks(spec *msmodel.Spectrum) *msmodel.Spectrum {
	out := *spec
	out.Peaks = append([]msmodel.Peak(nil), spec.Peaks...)
	return &out
}

// distortChargeDummy shifts every peak's m/z by one proton mass, so a
// peak that truly belongs to a charge-z ion is deconvolved as though it
// belonged to a different ion entirely. Any PeakGroup the pipeline then
// recovers is, by construction, an artifact of the wrong charge
// assumption rather than a real species.
func distortChargeDummy(spec *msmodel.Spectrum) *msmodel.Spectrum {
	out := cloneSpectrumPeaks(spec)
	for i := range out.Peaks {
		out.Peaks[i].MZ += chargeDummyProtonShift
	}
	return out
}

// distortNoiseDummy keeps every peak's m/z in place but redistributes
// intensities among peaks (a fixed rotation of the intensity array),
// destroying whatever isotope-envelope shape the real peaks carried
// while preserving the spectrum's overall intensity profile and peak
// density. Isotope-cosine scoring against the averagine model should
// no longer favor any particular mass, so surviving PeakGroups reflect
// the noise floor rather than a real signal.
func distortNoiseDummy(spec *msmodel.Spectrum) *msmodel.Spectrum {
	out := cloneSpectrumPeaks(spec)
	n := len(out.Peaks)
	if n < 2 {
		return out
	}
	shift := n/2 + 1
	intensities := make([]float64, n)
	for i, p := range out.Peaks {
		intensities[i] = p.Intensity
	}
	for i := range out.Peaks {
		out.Peaks[i].Intensity = intensities[(i+shift)%n]
	}
	return out
}

// distortIsotopeDummy swaps each peak's intensity with its immediate
// neighbor's, breaking the monotonic-decay shape a real averagine
// isotope envelope follows while leaving every peak's m/z (and thus
// any mass a caller might recover) untouched. This isolates the
// isotope-cosine step specifically: a PeakGroup that still scores well
// here would have done so regardless of envelope shape.
func distortIsotopeDummy(spec *msmodel.Spectrum) *msmodel.Spectrum {
	out := cloneSpectrumPeaks(spec)
	for i := 0; i+1 < len(out.Peaks); i += 2 {
		out.Peaks[i].Intensity, out.Peaks[i+1].Intensity = out.Peaks[i+1].Intensity, out.Peaks[i].Intensity
	}
	return out
}
