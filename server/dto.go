package server

import (
	"github.com/meenmo/zerocurve/bootstrap"
	"github.com/meenmo/zerocurve/marketdata"
	"github.com/meenmo/zerocurve/pricer"
	"github.com/meenmo/zerocurve/quote"
	"github.com/meenmo/zerocurve/store"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CalibrateRequest is the POST /curves body.
type CalibrateRequest struct {
	Name        string                `json:"name"`
	Method      string                `json:"method"`
	Deposit     marketdata.Deposit    `json:"deposit"`
	Quotes      []marketdata.QuoteRow `json:"quotes"`
	Interpolate []float64             `json:"interpolate"`
}

func (r CalibrateRequest) marketSet() *marketdata.Set {
	set := &marketdata.Set{
		Name:        r.Name,
		Deposit:     r.Deposit,
		Quotes:      r.Quotes,
		Interpolate: r.Interpolate,
	}
	if set.Deposit.Tenor == 0 {
		set.Deposit.Tenor = bootstrap.Tau
	}
	return set
}

// PillarStatus is one line of the calibration report.
type PillarStatus struct {
	Maturity   float64 `json:"maturity"`
	ZeroRate   float64 `json:"zero_rate"`
	Status     string  `json:"status"`
	Iterations int     `json:"iterations,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// CalibrateResponse is returned by POST /curves.
type CalibrateResponse struct {
	Curve        *store.Snapshot       `json:"curve"`
	Report       []PillarStatus        `json:"report"`
	Verification []pricer.Verification `json:"verification"`
	Interpolated []marketdata.QuoteRow `json:"interpolated,omitempty"`
}

func pillarStatuses(r bootstrap.Report) []PillarStatus {
	out := make([]PillarStatus, len(r.Pillars))
	for i, p := range r.Pillars {
		out[i] = PillarStatus{
			Maturity:   p.Maturity,
			ZeroRate:   p.ZeroRate,
			Status:     p.Status.String(),
			Iterations: p.Iterations,
		}
		if p.Err != nil {
			out[i].Error = p.Err.Error()
		}
	}
	return out
}

func interpolatedRows(qs []quote.Quote) []marketdata.QuoteRow {
	if len(qs) == 0 {
		return nil
	}
	return marketdata.Rows(qs)
}

// PriceRequest is the POST /curves/:id/price body.
type PriceRequest struct {
	Maturity  float64  `json:"maturity"`
	FixedRate *float64 `json:"fixed_rate"`
}

// PriceResponse values a payer swap against a stored curve. Without a fixed rate the swap
// is priced at its fair rate and NPV is zero.
type PriceResponse struct {
	CurveID   string  `json:"curve_id"`
	Maturity  float64 `json:"maturity"`
	FixedRate float64 `json:"fixed_rate"`
	FairRate  float64 `json:"fair_rate"`
	Annuity   float64 `json:"annuity"`
	NPV       float64 `json:"npv"`
}

// PointResponse is a single curve read.
type PointResponse struct {
	CurveID string  `json:"curve_id"`
	Time    float64 `json:"time"`
	Value   float64 `json:"value"`
}
