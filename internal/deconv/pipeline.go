package deconv

import (
	"math"
	"sort"

	"github.com/openms-go/mscore/internal/errs"
	"github.com/openms-go/mscore/internal/msmodel"
)

// candidateThresholdFraction keeps only mass bins scoring at least this
// fraction of the strongest bin before the expensive isotope-collection
// step runs (spec.md §4.10 step 4: "candidate filtering").
const candidateThresholdFraction = 0.01

// minSupportCharges is the minimum number of distinct charges whose
// universal-pattern contribution must land in a mass bin for it to be
// considered (SpectralDeconvolution.h's min_support_peak_count_).
const minSupportCharges = 2

// Deconvolve runs the full spectral deconvolution pipeline over one
// spectrum (spec.md §4.10), returning PeakGroups sorted by ascending
// monoisotopic mass.
func Deconvolve(spec *msmodel.Spectrum, cfg Config) ([]*msmodel.PeakGroup, error) {
	if cfg.MinCharge < 1 || cfg.MaxCharge < cfg.MinCharge {
		return nil, errs.New(errs.Precondition, "deconv: invalid charge range")
	}
	if len(spec.Peaks) == 0 {
		return nil, nil
	}

	runSpec := distortSpectrumForDecoy(spec, cfg.TargetDecoyType)
	groups := deconvolveOnce(runSpec, cfg, cfg.TargetDecoyType)
	groups = removeOverlappingPeakGroups(groups, isoDaDistance)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].MonoisotopicMass < groups[j].MonoisotopicMass })
	return groups, nil
}

// deconvolveOnce runs steps 1-6 of the pipeline once, tagging every
// resulting PeakGroup with decoyType (spec.md §4.10 step 8: target runs
// tag TargetDecoyTarget directly; dummy runs are produced by calling
// this with a distorted spectrum and a dummy TargetDecoyType).
func deconvolveOnce(spec *msmodel.Spectrum, cfg Config, decoyType msmodel.TargetDecoyType) []*msmodel.PeakGroup {
	minMass := cfg.MinMass
	if minMass <= 0 {
		minMass = 1
	}
	maxMass := cfg.MaxMass
	if maxMass <= minMass {
		return nil
	}

	massBinner := newLogBin(minMass, cfg.BinsPerLogUnit)
	numBins := massBinner.bin(maxMass) + 2
	if numBins < 1 {
		return nil
	}

	massScore, massSupport := convolveUniversalPattern(spec.Peaks, cfg.MinCharge, cfg.MaxCharge, massBinner, numBins)
	suppressHarmonics(massScore, spec.Peaks, cfg.MinCharge, cfg.MaxCharge, massBinner)

	maxScore := 0.0
	for _, s := range massScore {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		return nil
	}
	threshold := maxScore * candidateThresholdFraction

	var groups []*msmodel.PeakGroup
	for massBin, score := range massScore {
		if score < threshold {
			continue
		}
		charges := distinctCharges(massSupport[massBin])
		if len(charges) < minSupportCharges {
			continue
		}
		candidateMass := massBinner.value(massBin)
		if candidateMass < cfg.MinMass || candidateMass > cfg.MaxMass {
			continue
		}
		if !massAllowed(candidateMass, cfg) {
			continue
		}

		g := buildPeakGroup(spec, candidateMass, charges, cfg, decoyType)
		if g != nil {
			groups = append(groups, g)
		}
	}
	return groups
}

func distinctCharges(charges []int) []int {
	seen := make(map[int]struct{}, len(charges))
	out := make([]int, 0, len(charges))
	for _, c := range charges {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}

func massAllowed(mass float64, cfg Config) bool {
	for _, excluded := range cfg.ExcludedMasses {
		if math.Abs(mass-excluded) < 0.5 {
			return false
		}
	}
	if len(cfg.TargetMasses) == 0 {
		return true
	}
	for _, target := range cfg.TargetMasses {
		if math.Abs(mass-target) < 0.5 {
			return true
		}
	}
	return false
}

// buildPeakGroup performs spec.md §4.10 steps 5-6 for one candidate
// mass: isotope collection per charge, combined isotope-cosine scoring
// against the averagine model, and peak-group assembly.
func buildPeakGroup(spec *msmodel.Spectrum, candidateMass float64, charges []int, cfg Config, decoyType msmodel.TargetDecoyType) *msmodel.PeakGroup {
	maxIso := cfg.MaxIsotopeIndex
	if maxIso < minIsoSize {
		maxIso = minIsoSize
	}
	combined := make([]float64, maxIso)
	var seeds []msmodel.FeatureSeed
	perChargeCosine := make(map[int]float64, len(charges))

	for _, z := range charges {
		if z < cfg.MinCharge || z > cfg.MaxCharge {
			continue
		}
		perIso := make([]float64, maxIso)
		tol := candidateMass * cfg.TolerancePPM * 1e-6
		for k := 0; k < maxIso; k++ {
			expectedMZ := (candidateMass + float64(k)*isoDaDistance + float64(z)*protonMass) / float64(z)
			_, mz, intensity, ok := nearestPeak(spec.Peaks, expectedMZ, tol)
			if ok {
				perIso[k] = intensity
				seeds = append(seeds, msmodel.FeatureSeed{MZ: mz, Intensity: intensity, Charge: z, IsotopeIndex: k})
			}
		}
		theoretical := averagineDistribution(candidateMass, maxIso)
		cos, _ := bestIsotopeOffsetCosine(perIso, theoretical, 0, minIsoSize)
		perChargeCosine[z] = cos
		for k := range combined {
			combined[k] += perIso[k]
		}
	}

	if len(seeds) == 0 {
		return nil
	}

	theoretical := averagineDistribution(candidateMass, maxIso)
	window := 2
	cos, offset := bestIsotopeOffsetCosine(combined, theoretical, window, minIsoSize)
	if cos < cfg.MinIsotopeCosine {
		return nil
	}

	nonZeroCount := 0
	for _, v := range combined {
		if v > 0 {
			nonZeroCount++
		}
	}
	if nonZeroCount < minIsoSize {
		return nil
	}

	bestCharge, bestChargeCos := 0, -1.0
	for z, c := range perChargeCosine {
		if c > bestChargeCos {
			bestChargeCos = c
			bestCharge = z
		}
	}

	g := msmodel.NewPeakGroup(bestCharge)
	g.Seeds = seeds
	g.MonoisotopicMass = candidateMass + float64(offset)*isoDaDistance
	g.IsotopeCosine = cos
	g.ChargeCosine = bestChargeCos
	g.SNR = estimateSNR(spec.Peaks, seeds)
	g.TargetDecoy = decoyType
	if len(seeds) > 0 {
		g.RepresentativeMZ = seeds[0].MZ
	}
	g.RepresentativeRT = spec.RT
	return g
}

// nearestPeak returns the index, m/z, and intensity of the peak
// nearest target within tol (Th), or ok=false if none is close enough.
func nearestPeak(peaks []msmodel.Peak, target, tol float64) (idx int, mz, intensity float64, ok bool) {
	best := -1
	bestDist := tol
	for i, p := range peaks {
		d := math.Abs(p.MZ - target)
		if d <= bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return 0, 0, 0, false
	}
	return best, peaks[best].MZ, peaks[best].Intensity, true
}

// estimateSNR approximates a peak group's signal-to-noise ratio as its
// total matched intensity over the median intensity of all peaks in
// the spectrum, matched ones included (a simple noise-floor proxy; spec.md §4.10 step
// 6 names "SNR from the signal-to-noise estimator" without specifying
// one).
func estimateSNR(peaks []msmodel.Peak, seeds []msmodel.FeatureSeed) float64 {
	if len(peaks) == 0 {
		return 0
	}
	intensities := make([]float64, len(peaks))
	for i, p := range peaks {
		intensities[i] = p.Intensity
	}
	sort.Float64s(intensities)
	noiseFloor := intensities[len(intensities)/2]
	if noiseFloor == 0 {
		noiseFloor = 1
	}
	var signal float64
	for _, s := range seeds {
		signal += s.Intensity
	}
	return signal / noiseFloor
}

// removeOverlappingPeakGroups resolves masses that are integer Dalton
// shifts of one another (spec.md §4.10 step 7), keeping the
// higher-scoring mass and dropping the lower one from groups in place.
func removeOverlappingPeakGroups(groups []*msmodel.PeakGroup, tol float64) []*msmodel.PeakGroup {
	sort.Slice(groups, func(i, j int) bool { return groups[i].MonoisotopicMass < groups[j].MonoisotopicMass })
	keep := make([]bool, len(groups))
	for i := range groups {
		keep[i] = true
	}
	for i := 0; i < len(groups); i++ {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < len(groups); j++ {
			if !keep[j] {
				continue
			}
			diff := groups[j].MonoisotopicMass - groups[i].MonoisotopicMass
			if diff > 3*isoDaDistance+tol {
				break
			}
			nearestK := math.Round(diff / isoDaDistance)
			if nearestK < 1 {
				continue
			}
			if math.Abs(diff-nearestK*isoDaDistance) <= tol {
				if groups[j].IsotopeCosine > groups[i].IsotopeCosine {
					keep[i] = false
					break
				}
				keep[j] = false
			}
		}
	}
	out := groups[:0]
	for i, g := range groups {
		if keep[i] {
			out = append(out, g)
		}
	}
	return out
}
