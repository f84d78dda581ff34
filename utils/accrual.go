package utils

import "math"

// SemiAnnual is the accrual fraction of a semi-annual coupon period.
const SemiAnnual = 0.5

// LastAccrual returns the year fraction of the final, possibly partial, period ending at
// maturity on a grid of tau-long periods. On-grid maturities give 0.
func LastAccrual(maturity, tau float64) float64 {
	return maturity - math.Floor(maturity/tau)*tau
}

// MaxMaturity is the longest maturity, in years, accepted for calibration and pricing.
const MaxMaturity = 100.0

// ValidMaturity reports whether 0 < m <= MaxMaturity. NaN and infinities fail.
func ValidMaturity(m float64) bool {
	return m > 0 && m <= MaxMaturity
}

// EachFullPeriod calls fn with every period end time i*tau (i >= 1) strictly before maturity.
// Non-finite maturities and non-positive tau yield no periods.
func EachFullPeriod(maturity, tau float64, fn func(t float64)) {
	if tau <= 0 || math.IsNaN(maturity) || math.IsInf(maturity, 0) {
		return
	}
	for i := 1; float64(i)*tau < maturity; i++ {
		fn(float64(i) * tau)
	}
}
