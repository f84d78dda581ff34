// Package pricer values vanilla fixed-for-floating swaps on a single zero curve that is used
// for both discounting and projection. The fixed leg accrues semi-annually.
package pricer

import (
	"errors"
	"fmt"

	"github.com/meenmo/zerocurve/utils"
)

// Tau is the fixed-leg accrual fraction.
const Tau = utils.SemiAnnual

// MinAnnuity is the annuity floor below which no fair rate is computed.
const MinAnnuity = 1e-8

var (
	// ErrDegenerateAnnuity is returned by ParRate when the annuity is below MinAnnuity.
	ErrDegenerateAnnuity = errors.New("degenerate annuity")
	// ErrInvalidMaturity is returned by ParRate for maturities outside (0, utils.MaxMaturity].
	ErrInvalidMaturity = errors.New("invalid maturity")
)

// DiscountCurve provides discount factors for valuation.
type DiscountCurve interface {
	DiscountFactor(t float64) float64
}

// Annuity returns the present value of one unit of fixed coupon per year paid to maturity:
// tau*DF(t) over every full period strictly before maturity plus lastTau*DF(maturity).
// Maturities rejected by utils.ValidMaturity have a zero annuity.
func Annuity(crv DiscountCurve, maturity float64) float64 {
	if !utils.ValidMaturity(maturity) {
		return 0
	}
	sum := 0.0
	utils.EachFullPeriod(maturity, Tau, func(t float64) {
		sum += Tau * crv.DiscountFactor(t)
	})
	lastTau := utils.LastAccrual(maturity, Tau)
	sum += lastTau * crv.DiscountFactor(maturity)
	return sum
}

// FairRate returns the par fixed rate implied by the curve, or 0 when the annuity is
// below MinAnnuity.
func FairRate(crv DiscountCurve, maturity float64) float64 {
	rate, err := ParRate(crv, maturity)
	if err != nil {
		return 0
	}
	return rate
}

// ParRate is FairRate with the degenerate cases reported as ErrInvalidMaturity or
// ErrDegenerateAnnuity.
func ParRate(crv DiscountCurve, maturity float64) (float64, error) {
	if !utils.ValidMaturity(maturity) {
		return 0, fmt.Errorf("ParRate: %gY: %w", maturity, ErrInvalidMaturity)
	}
	a := Annuity(crv, maturity)
	dfEnd := crv.DiscountFactor(maturity)
	if a < MinAnnuity {
		return 0, fmt.Errorf("ParRate: %gY annuity %.3e: %w", maturity, a, ErrDegenerateAnnuity)
	}
	return (1.0 - dfEnd) / a, nil
}

// PriceSwap returns the NPV of paying fixedRate and receiving floating to maturity,
// per unit notional: (1 - DF(maturity)) - fixedRate*Annuity.
func PriceSwap(crv DiscountCurve, maturity, fixedRate float64) float64 {
	pvFixed := fixedRate * Annuity(crv, maturity)
	pvFloat := 1.0 - crv.DiscountFactor(maturity)
	return pvFloat - pvFixed
}
