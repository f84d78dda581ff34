package curve

import "math"

// DepositSeed converts a simple money-market deposit rate over tau years into the
// continuously compounded pillar at tau: DF = 1/(1+rate*tau), z = -ln(DF)/tau.
func DepositSeed(rate, tau float64) Pillar {
	df := 1.0 / (1.0 + rate*tau)
	return Pillar{Time: tau, ZeroRate: -math.Log(df) / tau}
}

// SeedFromDeposit returns a one-pillar curve anchored at the deposit maturity.
func SeedFromDeposit(rate, tau float64) *Curve {
	return New(DepositSeed(rate, tau))
}
