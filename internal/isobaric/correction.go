package isobaric

import (
	"gonum.org/v1/gonum/mat"

	"github.com/openms-go/mscore/internal/errs"
)

// nnlsTolerance is the KKT convergence tolerance for the active-set
// loop, and the threshold below which a solved value is treated as
// zero rather than a small negative float.
const nnlsTolerance = 1e-10

// BuildImpurityMatrix assembles the isotope-impurity matrix A such that
// observed = A * true, following ItraqConstants.C's
// translateIsotopeMatrix(): the diagonal holds each channel's own
// undistorted fraction (1 minus the sum of its four correction
// percentages), and the off-diagonal entries in column i distribute
// channel i's leakage into its -2/-1/+1/+2 list neighbors.
func BuildImpurityMatrix(m Method) *mat.Dense {
	n := m.NumChannels()
	a := mat.NewDense(n, n, nil)
	for i, ch := range m.Channels {
		corr := m.Corrections[ch.Name]
		sum := corr[0] + corr[1] + corr[2] + corr[3]
		a.Set(i, i, 1.0-sum/100.0)
		if ch.MinusTwo != "" {
			if j, ok := m.indexOf(ch.MinusTwo); ok {
				a.Set(j, i, corr[0]/100.0)
			}
		}
		if ch.MinusOne != "" {
			if j, ok := m.indexOf(ch.MinusOne); ok {
				a.Set(j, i, corr[1]/100.0)
			}
		}
		if ch.PlusOne != "" {
			if j, ok := m.indexOf(ch.PlusOne); ok {
				a.Set(j, i, corr[2]/100.0)
			}
		}
		if ch.PlusTwo != "" {
			if j, ok := m.indexOf(ch.PlusTwo); ok {
				a.Set(j, i, corr[3]/100.0)
			}
		}
	}
	return a
}

func (m Method) indexOf(name string) (int, bool) {
	for i, c := range m.Channels {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// CorrectIntensities solves A x = b for the true per-channel
// intensities, trying the unconstrained matrix solution first (spec.md
// §4.9: "candidate matrix-inverse solution tried first if
// non-negative") and falling back to non-negative least squares when
// that solution has any negative component.
func CorrectIntensities(a *mat.Dense, observed []float64) ([]float64, error) {
	n := len(observed)
	b := mat.NewVecDense(n, observed)

	var candidate mat.VecDense
	if err := candidate.SolveVec(a, b); err == nil {
		x := make([]float64, n)
		ok := true
		for i := 0; i < n; i++ {
			v := candidate.AtVec(i)
			if v < -nnlsTolerance {
				ok = false
				break
			}
			x[i] = v
		}
		if ok {
			clampNonNegative(x)
			return x, nil
		}
	}

	x, err := nnls(a, observed, 1000)
	if err != nil {
		return nil, errs.Wrap(errs.Postcondition, "isobaric impurity correction did not converge", err)
	}
	return x, nil
}

func clampNonNegative(x []float64) {
	for i, v := range x {
		if v < 0 {
			x[i] = 0
		}
	}
}

// nnls is the classic Lawson-Hanson active-set algorithm: it grows a
// "passive" set of columns allowed to take a positive value, solving
// the unconstrained least-squares problem restricted to those columns
// and retreating any column that would go negative back to the
// "active" (zero) set, until the KKT optimality conditions are met.
func nnls(a *mat.Dense, b []float64, maxIter int) ([]float64, error) {
	_, n := a.Dims()
	x := make([]float64, n)
	passive := make([]bool, n)

	residual := func(x []float64) *mat.VecDense {
		ax := mat.NewVecDense(len(b), nil)
		ax.MulVec(a, mat.NewVecDense(n, x))
		r := mat.NewVecDense(len(b), nil)
		r.SubVec(mat.NewVecDense(len(b), b), ax)
		return r
	}

	gradient := func(x []float64) *mat.VecDense {
		r := residual(x)
		g := mat.NewVecDense(n, nil)
		g.MulVec(a.T(), r)
		return g
	}

	for iter := 0; iter < maxIter; iter++ {
		w := gradient(x)

		best := -1
		bestW := nnlsTolerance
		for j := 0; j < n; j++ {
			if passive[j] {
				continue
			}
			if wj := w.AtVec(j); wj > bestW {
				bestW = wj
				best = j
			}
		}
		if best == -1 {
			return x, nil
		}
		passive[best] = true

		for {
			cols := passiveColumns(passive)
			sub := subMatrix(a, cols)
			var s mat.VecDense
			if err := s.SolveVec(sub, mat.NewVecDense(len(b), b)); err != nil {
				passive[best] = false
				return x, nil
			}

			negative := false
			for i := range cols {
				if s.AtVec(i) <= nnlsTolerance {
					negative = true
					break
				}
			}
			if !negative {
				next := make([]float64, n)
				for i, c := range cols {
					next[c] = s.AtVec(i)
				}
				x = next
				break
			}

			alpha := 1.0
			for i, c := range cols {
				si := s.AtVec(i)
				if si <= 0 {
					denom := x[c] - si
					if denom > 0 {
						if ratio := x[c] / denom; ratio < alpha {
							alpha = ratio
						}
					}
				}
			}
			for i, c := range cols {
				x[c] = x[c] + alpha*(s.AtVec(i)-x[c])
				if x[c] < nnlsTolerance {
					x[c] = 0
					passive[c] = false
				}
			}
		}
	}
	return x, nil
}

func passiveColumns(passive []bool) []int {
	var cols []int
	for i, p := range passive {
		if p {
			cols = append(cols, i)
		}
	}
	return cols
}

// subMatrix returns the m x len(cols) matrix formed by a's selected
// columns, the restriction the active-set loop solves at each step.
func subMatrix(a *mat.Dense, cols []int) *mat.Dense {
	rows, _ := a.Dims()
	sub := mat.NewDense(rows, len(cols), nil)
	for j, c := range cols {
		col := mat.Col(nil, c, a)
		sub.SetCol(j, col)
	}
	return sub
}
