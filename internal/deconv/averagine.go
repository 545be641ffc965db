package deconv

import "math"

// averagineLambda approximates the mean number of additional neutrons
// (relative to the monoisotopic peak) in a peptide-averagine isotope
// envelope of the given neutral mass — the standard mass/1800 rule of
// thumb PrecalculatedAveragine's table is built to reproduce without
// needing the full elemental-composition model.
func averagineLambda(mass float64) float64 {
	lambda := mass / 1800.0
	if lambda < 0.01 {
		lambda = 0.01
	}
	return lambda
}

// averagineDistribution returns the normalized theoretical isotope
// envelope (a Poisson approximation of the averagine pattern) for a
// neutral mass, one intensity fraction per isotope index 0..n-1
// (spec.md §4.10 step 5: "averagine theoretical distribution
// (precomputed once per mass via a coarse isotope-pattern
// generator)").
func averagineDistribution(mass float64, n int) []float64 {
	lambda := averagineLambda(mass)
	out := make([]float64, n)
	// Poisson pmf computed iteratively: p(0) = e^-lambda, p(k) = p(k-1)*lambda/k.
	p := math.Exp(-lambda)
	sum := 0.0
	for k := 0; k < n; k++ {
		out[k] = p
		sum += p
		p *= lambda / float64(k+1)
	}
	if sum > 0 {
		for k := range out {
			out[k] /= sum
		}
	}
	return out
}

// cosineSimilarity computes the cosine between observed per-isotope
// intensities (starting at a_start, ending at a_end exclusive) and the
// theoretical distribution b, shifted by offset isotope indices
// (spec.md §4.10 step 5's getCosine: "offset: element index offset
// between a and b"). Returns 0 if fewer than minIsoLen observed
// isotopes are non-zero.
func cosineSimilarity(a []float64, aStart, aEnd int, b []float64, offset int, minIsoLen int) float64 {
	if aEnd > len(a) {
		aEnd = len(a)
	}
	if aStart < 0 {
		aStart = 0
	}
	nonZero := 0
	var dot, normA, normB float64
	for i := aStart; i < aEnd; i++ {
		bi := i + offset
		var bv float64
		if bi >= 0 && bi < len(b) {
			bv = b[bi]
		}
		av := a[i]
		if av != 0 {
			nonZero++
		}
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if nonZero < minIsoLen || normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// bestIsotopeOffsetCosine tries every offset in [-window, window] and
// returns the best cosine score and the offset that achieved it
// (spec.md §4.10 step 5: "try several integer isotope-index shifts and
// pick the best alignment").
func bestIsotopeOffsetCosine(observed []float64, theoretical []float64, window int, minIsoLen int) (bestCos float64, bestOffset int) {
	for offset := -window; offset <= window; offset++ {
		c := cosineSimilarity(observed, 0, len(observed), theoretical, offset, minIsoLen)
		if c > bestCos {
			bestCos = c
			bestOffset = offset
		}
	}
	return bestCos, bestOffset
}
