// Package bootstrap calibrates a zero curve to par swap quotes, one pillar per quote in
// ascending maturity order. Each pillar is solved from discount factors read off the curve
// built so far, so the quote order is load-bearing and is fixed once when the Calibrator is
// constructed.
package bootstrap

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/meenmo/zerocurve/config"
	"github.com/meenmo/zerocurve/curve"
	"github.com/meenmo/zerocurve/quote"
	"github.com/meenmo/zerocurve/utils"
)

// Tau is the fixed-leg accrual fraction used for every instrument.
const Tau = utils.SemiAnnual

// Method selects how each pillar is solved.
type Method string

const (
	// MethodClosedForm solves DF(T) directly from the par condition, discounting intermediate
	// coupons off the curve as it stands before the pillar is inserted.
	MethodClosedForm Method = "closed-form"
	// MethodSecant refines the closed-form rate until the quote reprices to zero NPV on the
	// curve including the new pillar.
	MethodSecant Method = "secant"
)

// ParseMethod maps a config or flag value to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodClosedForm:
		return MethodClosedForm, nil
	case MethodSecant:
		return MethodSecant, nil
	default:
		return "", fmt.Errorf("unknown calibration method %q (must be closed-form or secant)", s)
	}
}

// Calibrator bootstraps a curve from a fixed, maturity-sorted set of quotes.
type Calibrator struct {
	quotes []quote.Quote
	method Method
	cfg    config.Config
	logger *zap.Logger
}

// Option configures a Calibrator.
type Option func(*Calibrator)

// WithMethod selects the pillar solve.
func WithMethod(m Method) Option {
	return func(b *Calibrator) { b.method = m }
}

// WithConfig overrides the solver configuration taken from config.GetConfig.
func WithConfig(c config.Config) Option {
	return func(b *Calibrator) { b.cfg = c }
}

// WithLogger reports each calibrated pillar to logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Calibrator) {
		if l != nil {
			b.logger = l
		}
	}
}

// New returns a Calibrator over a maturity-sorted copy of quotes.
func New(quotes []quote.Quote, opts ...Option) *Calibrator {
	b := &Calibrator{
		quotes: quote.SortByMaturity(quotes),
		method: MethodClosedForm,
		cfg:    config.GetConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Quotes returns the quotes in calibration order.
func (b *Calibrator) Quotes() []quote.Quote {
	return append([]quote.Quote(nil), b.quotes...)
}

// Method returns the configured pillar solve.
func (b *Calibrator) Method() Method {
	return b.method
}

// Calibrate returns a copy of initial extended with one pillar per quote. Quotes whose
// maturity is already a pillar are skipped; initial is never modified.
func (b *Calibrator) Calibrate(initial *curve.Curve) *curve.Curve {
	crv, _ := b.CalibrateDetailed(initial)
	return crv
}

// CalibrateDetailed is Calibrate plus a per-quote report of how each pillar was obtained.
func (b *Calibrator) CalibrateDetailed(initial *curve.Curve) (*curve.Curve, Report) {
	var crv *curve.Curve
	if initial == nil {
		crv = curve.New()
	} else {
		crv = initial.Clone()
	}

	report := Report{Method: b.method, Pillars: make([]PillarResult, 0, len(b.quotes))}
	for _, q := range b.quotes {
		res := b.calibrateQuote(crv, q)
		report.Pillars = append(report.Pillars, res)

		switch res.Status {
		case StatusSkipped:
			b.logger.Debug("pillar already calibrated", zap.Float64("maturity", q.Maturity()))
			continue
		case StatusRejected:
			b.logger.Warn("quote rejected", zap.Error(res.Err))
			continue
		}

		crv.AddNode(res.Maturity, res.ZeroRate)
		b.logger.Info("calibrated swap",
			zap.Float64("maturity", res.Maturity),
			zap.Float64("zero_rate_pct", utils.Percent(res.ZeroRate)),
			zap.Stringer("status", res.Status),
			zap.Int("iterations", res.Iterations),
		)
	}
	return crv, report
}

func (b *Calibrator) calibrateQuote(crv *curve.Curve, q quote.Quote) PillarResult {
	mat, s := q.Maturity(), q.Rate()
	res := PillarResult{Maturity: mat, Rate: s}

	if err := q.Validate(); err != nil {
		res.Status = StatusRejected
		res.Err = err
		return res
	}
	if crv.Has(mat) {
		res.Status = StatusSkipped
		res.ZeroRate = crv.ZeroRate(mat)
		res.DiscountFactor = crv.DiscountFactor(mat)
		return res
	}

	zero, df := solveClosedForm(crv, mat, s)
	res.ZeroRate, res.DiscountFactor, res.Status = zero, df, StatusSolved
	if df <= 0 {
		res.Status = StatusDegenerate
		res.Err = ErrDegenerateDiscountFactor
	}

	if b.method == MethodSecant {
		zero, iters, converged := b.solveSecant(crv, mat, s, zero)
		res.ZeroRate = zero
		res.DiscountFactor = math.Exp(-zero * mat)
		res.Iterations = iters
		res.Status, res.Err = StatusSolved, nil
		if !converged {
			res.Status = StatusNotConverged
			res.Err = ErrNotConverged
		}
	}
	return res
}

// solveClosedForm solves the par condition for the single unknown DF(mat):
//
//	DF(mat) = (1 - sum_i S*tau*DF(i*tau)) / (1 + tauN*S)
//
// where the sum runs over full periods strictly before mat and tauN is the broken final
// period. Returns the continuously compounded zero rate, 0 when DF <= 0.
func solveClosedForm(crv *curve.Curve, mat, s float64) (zero, df float64) {
	sum := 0.0
	utils.EachFullPeriod(mat, Tau, func(t float64) {
		sum += s * Tau * crv.DiscountFactor(t)
	})
	tauN := utils.LastAccrual(mat, Tau)

	df = (1.0 - sum) / (1.0 + tauN*s)
	if df > 0 {
		return -math.Log(df) / mat, df
	}
	return 0.0, df
}
