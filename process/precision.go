package process

import (
	"gonum.org/v1/gonum/mat"
)

// rwAnchor is a weak precision added to the first random walk state. The
// pure first-difference precision has a free level and is singular; the
// anchor keeps it factorizable without visibly shrinking the states.
const rwAnchor = 1e-6

// unitPrecision returns the n x n precision of the latent process at unit
// innovation variance. The AR(1) form is tridiagonal with stationary ends.
func unitPrecision(n int, typ Type, rho float64) *mat.SymDense {
	q := mat.NewSymDense(n, nil)
	switch typ {
	case TypeIID:
		for i := 0; i < n; i++ {
			q.SetSym(i, i, 1.0)
		}
	case TypeRandomWalk:
		for i := 0; i < n; i++ {
			d := 2.0
			if i == 0 || i == n-1 {
				d = 1.0
			}
			q.SetSym(i, i, d)
			if i > 0 {
				q.SetSym(i-1, i, -1.0)
			}
		}
		q.SetSym(0, 0, q.At(0, 0)+rwAnchor)
	case TypeAR1:
		for i := 0; i < n; i++ {
			d := 1.0 + rho*rho
			if i == 0 || i == n-1 {
				d = 1.0
			}
			q.SetSym(i, i, d)
			if i > 0 {
				q.SetSym(i-1, i, -rho)
			}
		}
	}
	return q
}
