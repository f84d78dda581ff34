package bootstrap

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateDiscountFactor marks a pillar whose solved discount factor was not positive.
	// Its zero rate is forced to 0.
	ErrDegenerateDiscountFactor = errors.New("non-positive discount factor")
	// ErrNotConverged marks a secant solve that hit the iteration cap.
	ErrNotConverged = errors.New("secant solve did not converge")
)

// Status is the outcome of calibrating one quote.
type Status int

const (
	// StatusSolved means a pillar was inserted from a valid solve.
	StatusSolved Status = iota
	// StatusSkipped means the curve already had a pillar at the quote maturity.
	StatusSkipped
	// StatusDegenerate means the solved DF was <= 0 and the pillar rate was forced to 0.
	StatusDegenerate
	// StatusNotConverged means the secant solve stopped at the iteration cap; the last
	// iterate was inserted.
	StatusNotConverged
	// StatusRejected means the quote failed validation and was not used.
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusSkipped:
		return "skipped"
	case StatusDegenerate:
		return "degenerate"
	case StatusNotConverged:
		return "not-converged"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// PillarResult describes how one quote was turned into a pillar.
type PillarResult struct {
	Maturity       float64
	Rate           float64
	ZeroRate       float64
	DiscountFactor float64
	Status         Status
	Iterations     int
	Err            error
}

// Report lists one PillarResult per quote, in calibration order.
type Report struct {
	Method  Method
	Pillars []PillarResult
}

// Err joins every pillar error. It is nil when every quote was solved or skipped.
func (r Report) Err() error {
	var errs []error
	for _, p := range r.Pillars {
		if p.Err != nil {
			errs = append(errs, fmt.Errorf("%gY: %w", p.Maturity, p.Err))
		}
	}
	return errors.Join(errs...)
}

// Count returns the number of pillars with the given status.
func (r Report) Count(s Status) int {
	n := 0
	for _, p := range r.Pillars {
		if p.Status == s {
			n++
		}
	}
	return n
}
