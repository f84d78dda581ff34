package pricer

import (
	"math"

	"github.com/meenmo/zerocurve/quote"
)

// Verification is the repricing of one market quote on a calibrated curve.
type Verification struct {
	Maturity   float64 `json:"maturity"`
	MarketRate float64 `json:"market_rate"`
	FairRate   float64 `json:"fair_rate"`
	NPV        float64 `json:"npv"`
}

// Verify reprices every quote at its own market rate, in input order.
func Verify(crv DiscountCurve, quotes []quote.Quote) []Verification {
	out := make([]Verification, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, Verification{
			Maturity:   q.Maturity(),
			MarketRate: q.Rate(),
			FairRate:   FairRate(crv, q.Maturity()),
			NPV:        PriceSwap(crv, q.Maturity(), q.Rate()),
		})
	}
	return out
}

// MaxAbsNPV returns the largest absolute repricing error.
func MaxAbsNPV(vs []Verification) float64 {
	worst := 0.0
	for _, v := range vs {
		worst = math.Max(worst, math.Abs(v.NPV))
	}
	return worst
}

// InterpolateQuotes returns fair-rate quotes at maturities the market did not quote.
func InterpolateQuotes(crv DiscountCurve, maturities []float64) []quote.Quote {
	out := make([]quote.Quote, 0, len(maturities))
	for _, m := range maturities {
		out = append(out, quote.New(m, FairRate(crv, m)))
	}
	return out
}
