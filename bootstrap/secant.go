package bootstrap

import (
	"math"

	"github.com/meenmo/zerocurve/curve"
	"github.com/meenmo/zerocurve/pricer"
)

// solveSecant searches the zero rate at mat for which the par swap (mat, s) reprices to zero
// on crv augmented with that pillar. Intermediate coupon dates between the previous pillar
// and mat are interpolated against the candidate, which the closed form cannot see.
//
// Returns the last iterate, the number of iterations, and whether |NPV| fell below tolerance.
func (b *Calibrator) solveSecant(crv *curve.Curve, mat, s, guess float64) (float64, int, bool) {
	scratch := crv.Clone()
	npv := func(z float64) float64 {
		scratch.AddNode(mat, z)
		return pricer.PriceSwap(scratch, mat, s)
	}

	tol := b.cfg.ConvergenceTolerance
	x0, x1 := guess, guess+b.cfg.SecantStep
	f0 := npv(x0)
	if math.Abs(f0) < tol {
		return x0, 0, true
	}
	f1 := npv(x1)

	for iter := 1; iter <= b.cfg.MaxBootstrapIterations; iter++ {
		if math.Abs(f1) < tol {
			return x1, iter, true
		}

		denom := f1 - f0
		if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
			return x1, iter, false
		}
		x0, x1 = x1, x1-f1*(x1-x0)/denom
		f0, f1 = f1, npv(x1)

		if math.IsNaN(x1) || math.IsInf(x1, 0) {
			return x0, iter, false
		}
	}
	return x1, b.cfg.MaxBootstrapIterations, math.Abs(f1) < tol
}
