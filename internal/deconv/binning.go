package deconv

import (
	"math"

	"github.com/openms-go/mscore/internal/msmodel"
)

// logBin maps a positive value onto an integer bin via its logarithm:
// bin = (log(value) - log(minValue)) * multiplier — spec.md §4.10 step
// 1's "transform each peak's m/z to log(m/z), then into an integer bin
// ... multiplier". The same construction bins the mass domain too,
// since both axes share the property that equal ratios span equal bin
// widths.
type logBin struct {
	minLog     float64
	multiplier float64
}

func newLogBin(minValue, multiplier float64) logBin {
	return logBin{minLog: math.Log(minValue), multiplier: multiplier}
}

func (b logBin) bin(value float64) int {
	return int((math.Log(value) - b.minLog) * b.multiplier)
}

func (b logBin) value(bin int) float64 {
	return math.Exp(float64(bin)/b.multiplier + b.minLog)
}

// impliedMass returns the neutral monoisotopic-candidate mass a peak
// at mz would imply if it were the charge-z monoisotopic ion
// (M = mz*z - z*protonMass).
func impliedMass(mz float64, z int) float64 {
	return mz*float64(z) - float64(z)*protonMass
}

// convolveUniversalPattern computes, for every mass bin, the summed
// peak intensity that charge-z hypotheses across all candidate charges
// imply lands there (spec.md §4.10 step 2: "convolution of the mz-bin
// intensity vector against the universal pattern yields a mass-bin
// intensity score"). Each peak is tested against every candidate
// charge directly via impliedMass rather than through a fixed
// per-charge bin shift, which keeps the result exact regardless of how
// large the charge-dependent proton-mass term is relative to the
// candidate mass.
func convolveUniversalPattern(peaks []msmodel.Peak, minCharge, maxCharge int, massBinner logBin, numBins int) (massScore []float64, massSupport [][]int) {
	massScore = make([]float64, numBins)
	massSupport = make([][]int, numBins)
	for _, p := range peaks {
		if p.Intensity == 0 {
			continue
		}
		for z := minCharge; z <= maxCharge; z++ {
			mass := impliedMass(p.MZ, z)
			if mass <= 0 {
				continue
			}
			bin := massBinner.bin(mass)
			if bin < 0 || bin >= numBins {
				continue
			}
			massScore[bin] += p.Intensity
			massSupport[bin] = append(massSupport[bin], z)
		}
	}
	return massScore, massSupport
}

// harmonicScore computes the same convolution for a harmonic multiple
// of each candidate charge (spec.md §4.10 step 3: "for suspected
// harmonic charges (e.g. z/2, z/3), compute mass-bin scores via a
// separate harmonic-offset matrix"). harmonicFactor 2 tests the z/2
// harmonic family (i.e. treating a true charge-2z peak as if it were
// charge z), harmonicFactor 3 tests z/3.
func harmonicScore(peaks []msmodel.Peak, minCharge, maxCharge, harmonicFactor int, massBinner logBin, numBins int) []float64 {
	out := make([]float64, numBins)
	for _, p := range peaks {
		if p.Intensity == 0 {
			continue
		}
		for z := minCharge; z <= maxCharge; z++ {
			harmonicZ := z * harmonicFactor
			mass := impliedMass(p.MZ, harmonicZ)
			if mass <= 0 {
				continue
			}
			bin := massBinner.bin(mass)
			if bin < 0 || bin >= numBins {
				continue
			}
			out[bin] += p.Intensity
		}
	}
	return out
}

// suppressHarmonics zeroes mass bins where a harmonic family's score
// dominates the direct score (spec.md §4.10 step 3: "subtract when the
// harmonic score dominates"), checking the z/2 and z/3 families.
func suppressHarmonics(massScore []float64, peaks []msmodel.Peak, minCharge, maxCharge int, massBinner logBin) {
	numBins := len(massScore)
	for _, factor := range []int{2, 3} {
		h := harmonicScore(peaks, minCharge, maxCharge, factor, massBinner, numBins)
		for i := range massScore {
			if h[i] > massScore[i] {
				massScore[i] = 0
			}
		}
	}
}
