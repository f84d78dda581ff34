package bootstrap_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/zerocurve/bootstrap"
	"github.com/meenmo/zerocurve/config"
	"github.com/meenmo/zerocurve/curve"
	"github.com/meenmo/zerocurve/pricer"
	"github.com/meenmo/zerocurve/quote"
)

// referenceQuotes is the deposit-seeded semi-annual scenario: 1.00% 6M deposit, par swaps
// out to 6Y. The 0.5Y entry coincides with the seed pillar and is skipped.
func referenceQuotes() []quote.Quote {
	return []quote.Quote{
		quote.New(0.5, 0.0100),
		quote.New(1.0, 0.0150),
		quote.New(2.0, 0.0190),
		quote.New(3.0, 0.0240),
		quote.New(5.0, 0.0315),
		quote.New(6.0, 0.0400),
	}
}

func referenceSeed() *curve.Curve {
	return curve.SeedFromDeposit(0.0100, 0.5)
}

func TestCalibrate_ReferenceScenario_ClosedForm(t *testing.T) {
	t.Parallel()

	crv := bootstrap.New(referenceQuotes()).Calibrate(referenceSeed())

	want := map[float64]float64{
		0.5: 0.009975083022077879,
		1.0: 0.007490671729157626,
		2.0: 0.014341576390427236,
		3.0: 0.02023313891258893,
		5.0: 0.02914098705619157,
		6.0: 0.03833820180177165,
	}
	pillars := crv.Pillars()
	if len(pillars) != len(want) {
		t.Fatalf("expected %d pillars, got %d: %v", len(want), len(pillars), pillars)
	}
	for _, p := range pillars {
		w, ok := want[p.Time]
		if !ok {
			t.Fatalf("unexpected pillar at %v", p.Time)
		}
		if math.Abs(p.ZeroRate-w) > 1e-12 {
			t.Fatalf("pillar %vY: got %.15f want %.15f", p.Time, p.ZeroRate, w)
		}
	}

	// Rounded to the published precision (percent, 4dp).
	published := map[float64]float64{1: 0.7491, 2: 1.4342, 3: 2.0233, 5: 2.9141, 6: 3.8338}
	for m, pct := range published {
		if got := crv.ZeroRate(m) * 100; math.Abs(got-pct) > 5e-5 {
			t.Fatalf("%vY zero = %.6f%%, want %.4f%%", m, got, pct)
		}
	}
}

func TestCalibrate_ReferenceScenario_RepricingResiduals(t *testing.T) {
	t.Parallel()

	crv := bootstrap.New(referenceQuotes()).Calibrate(referenceSeed())

	for _, q := range referenceQuotes() {
		if q.Maturity() == 0.5 {
			// The deposit is the seed, not a swap on the semi-annual grid.
			continue
		}
		npv := pricer.PriceSwap(crv, q.Maturity(), q.Rate())
		if math.Abs(npv) > 1e-3 {
			t.Fatalf("%vY NPV = %.6e, want |NPV| < 1e-3", q.Maturity(), npv)
		}
		// Closed-form residuals come from coupons that were flat-extrapolated during the solve
		// and interpolated afterwards; they are bounded, not eliminated.
		if math.Abs(npv) >= 0.0008 {
			t.Fatalf("%vY NPV = %.6e exceeds the closed-form residual bound", q.Maturity(), npv)
		}
	}

	// 1Y only discounts the 0.5Y seed coupon, so it reprices exactly.
	if npv := pricer.PriceSwap(crv, 1.0, 0.015); math.Abs(npv) > 1e-15 {
		t.Fatalf("1Y NPV = %.3e, want ~0", npv)
	}
	// 5Y carries the largest residual: 3.5Y-4.5Y coupons sat on the flat 3Y rate during the solve.
	if npv := pricer.PriceSwap(crv, 5.0, 0.0315); npv < 7e-4 {
		t.Fatalf("5Y NPV = %.6e, expected the documented ~8e-4 residual", npv)
	}
}

func TestCalibrate_ReferenceScenario_InterpolatedSwaps(t *testing.T) {
	t.Parallel()

	crv := bootstrap.New(referenceQuotes()).Calibrate(referenceSeed())

	want := map[float64]float64{
		4.0: 0.02779358999906971,
		4.7: 0.027500639725291556,
		5.5: 0.03594930817612979,
	}
	for m, w := range want {
		if got := pricer.FairRate(crv, m); math.Abs(got-w) > 1e-12 {
			t.Fatalf("fair rate %vY = %.15f, want %.15f", m, got, w)
		}
	}
}

func TestCalibrate_Secant_RepricesEveryQuote(t *testing.T) {
	t.Parallel()

	cal := bootstrap.New(referenceQuotes(), bootstrap.WithMethod(bootstrap.MethodSecant))
	crv, report := cal.CalibrateDetailed(referenceSeed())

	if err := report.Err(); err != nil {
		t.Fatalf("unexpected report error: %v", err)
	}
	if report.Count(bootstrap.StatusSolved) != 5 || report.Count(bootstrap.StatusSkipped) != 1 {
		t.Fatalf("unexpected statuses: %+v", report.Pillars)
	}
	for _, q := range referenceQuotes()[1:] {
		if npv := pricer.PriceSwap(crv, q.Maturity(), q.Rate()); math.Abs(npv) > 1e-9 {
			t.Fatalf("%vY NPV = %.3e, want |NPV| < 1e-9", q.Maturity(), npv)
		}
	}

	// 1Y needs no refinement; 5Y moves below the closed-form rate.
	if got := crv.ZeroRate(1.0); math.Abs(got-0.007490671729157626) > 1e-12 {
		t.Fatalf("secant 1Y zero = %.15f", got)
	}
	if got := crv.ZeroRate(5.0); math.Abs(got-0.02896184) > 1e-7 {
		t.Fatalf("secant 5Y zero = %.10f, want ~0.02896184", got)
	}
}

func TestCalibrate_Idempotent(t *testing.T) {
	t.Parallel()

	for _, m := range []bootstrap.Method{bootstrap.MethodClosedForm, bootstrap.MethodSecant} {
		cal := bootstrap.New(referenceQuotes(), bootstrap.WithMethod(m))
		first := cal.Calibrate(referenceSeed())
		second := cal.Calibrate(referenceSeed())
		assertSamePillars(t, first, second)

		// Recalibrating a finished curve is a no-op.
		again, report := cal.CalibrateDetailed(first)
		assertSamePillars(t, first, again)
		if report.Count(bootstrap.StatusSkipped) != len(referenceQuotes()) {
			t.Fatalf("%s: expected every quote skipped, got %+v", m, report.Pillars)
		}
	}
}

func TestCalibrate_DoesNotMutateInitialCurve(t *testing.T) {
	t.Parallel()

	seed := referenceSeed()
	_ = bootstrap.New(referenceQuotes()).Calibrate(seed)
	if seed.Len() != 1 {
		t.Fatalf("initial curve mutated: %v", seed.Pillars())
	}
}

func TestCalibrate_SortsQuotesOnce(t *testing.T) {
	t.Parallel()

	shuffled := []quote.Quote{
		quote.New(5.0, 0.0315),
		quote.New(1.0, 0.0150),
		quote.New(6.0, 0.0400),
		quote.New(0.5, 0.0100),
		quote.New(3.0, 0.0240),
		quote.New(2.0, 0.0190),
	}
	cal := bootstrap.New(shuffled)

	qs := cal.Quotes()
	for i := 1; i < len(qs); i++ {
		if qs[i-1].Maturity() > qs[i].Maturity() {
			t.Fatalf("quotes not sorted: %v", qs)
		}
	}
	assertSamePillars(t, cal.Calibrate(referenceSeed()), bootstrap.New(referenceQuotes()).Calibrate(referenceSeed()))
}

func TestCalibrate_PartialProgressResumes(t *testing.T) {
	t.Parallel()

	qs := referenceQuotes()
	partial := bootstrap.New(qs[:3]).Calibrate(referenceSeed())
	resumed := bootstrap.New(qs).Calibrate(partial)
	full := bootstrap.New(qs).Calibrate(referenceSeed())
	assertSamePillars(t, resumed, full)
}

func TestCalibrate_DegenerateDiscountFactor(t *testing.T) {
	t.Parallel()

	// A 300% par rate drives the closed-form DF below zero.
	qs := []quote.Quote{quote.New(1.0, 3.0)}
	crv, report := bootstrap.New(qs).CalibrateDetailed(referenceSeed())

	if got := crv.ZeroRate(1.0); got != 0 || !crv.Has(1.0) {
		t.Fatalf("expected a 0 pillar at 1Y, got has=%v rate=%v", crv.Has(1.0), got)
	}
	res := report.Pillars[0]
	if res.Status != bootstrap.StatusDegenerate || res.DiscountFactor > 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !errors.Is(report.Err(), bootstrap.ErrDegenerateDiscountFactor) {
		t.Fatalf("report error = %v, want ErrDegenerateDiscountFactor", report.Err())
	}
}

func TestCalibrate_SecantNotConverged(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig
	cfg.MaxBootstrapIterations = 1
	cfg.ConvergenceTolerance = 1e-300
	cal := bootstrap.New(referenceQuotes(),
		bootstrap.WithMethod(bootstrap.MethodSecant),
		bootstrap.WithConfig(cfg),
	)
	crv, report := cal.CalibrateDetailed(referenceSeed())

	if !errors.Is(report.Err(), bootstrap.ErrNotConverged) {
		t.Fatalf("report error = %v, want ErrNotConverged", report.Err())
	}
	// Non-converged pillars are still inserted so the fold completes.
	if crv.Len() != 6 {
		t.Fatalf("expected 6 pillars, got %d", crv.Len())
	}
}

func TestCalibrate_RejectsInvalidQuote(t *testing.T) {
	t.Parallel()

	qs := []quote.Quote{quote.New(-1, 0.01), quote.New(1.0, 0.015)}
	crv, report := bootstrap.New(qs).CalibrateDetailed(referenceSeed())

	if report.Pillars[0].Status != bootstrap.StatusRejected {
		t.Fatalf("expected first quote rejected, got %+v", report.Pillars[0])
	}
	if !errors.Is(report.Err(), quote.ErrInvalidQuote) {
		t.Fatalf("report error = %v, want ErrInvalidQuote", report.Err())
	}
	if crv.Len() != 2 {
		t.Fatalf("expected seed + 1Y pillar, got %v", crv.Pillars())
	}
}

func TestCalibrate_RejectsUnboundedMaturities(t *testing.T) {
	t.Parallel()

	qs := []quote.Quote{
		quote.New(math.Inf(1), 0.02),
		quote.New(1e11, 0.02),
		quote.New(1.0, 0.015),
	}
	crv, report := bootstrap.New(qs).CalibrateDetailed(referenceSeed())

	if n := report.Count(bootstrap.StatusRejected); n != 2 {
		t.Fatalf("expected 2 rejected quotes, got %d (%+v)", n, report.Pillars)
	}
	if crv.Len() != 2 || crv.MaxMaturity() != 1.0 {
		t.Fatalf("expected seed + 1Y pillar, got %v", crv.Pillars())
	}
}

func TestCalibrate_NilInitialCurve(t *testing.T) {
	t.Parallel()

	crv := bootstrap.New([]quote.Quote{quote.New(1.0, 0.015)}).Calibrate(nil)
	// With no seed the 0.5Y coupon is discounted at the empty-curve rate of 0.
	want := -math.Log(1-0.015*0.5) / 1.0
	if got := crv.ZeroRate(1.0); math.Abs(got-want) > 1e-15 {
		t.Fatalf("1Y zero = %.15f, want %.15f", got, want)
	}
}

func TestParseMethod(t *testing.T) {
	t.Parallel()

	cases := map[string]bootstrap.Method{
		"":            bootstrap.MethodClosedForm,
		"closed-form": bootstrap.MethodClosedForm,
		" Secant ":    bootstrap.MethodSecant,
	}
	for in, want := range cases {
		got, err := bootstrap.ParseMethod(in)
		if err != nil || got != want {
			t.Fatalf("ParseMethod(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := bootstrap.ParseMethod("newton"); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}

func assertSamePillars(t *testing.T, a, b *curve.Curve) {
	t.Helper()
	pa, pb := a.Pillars(), b.Pillars()
	if len(pa) != len(pb) {
		t.Fatalf("pillar count mismatch: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("pillar %d mismatch: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}
