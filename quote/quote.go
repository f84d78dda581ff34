// Package quote defines the market input of the curve bootstrap: a par swap rate (or a
// deposit rate for the shortest tenor) observed at a maturity in years.
package quote

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/meenmo/zerocurve/utils"
)

// ErrInvalidQuote is returned when a quote cannot be used for calibration.
var ErrInvalidQuote = errors.New("invalid quote")

// Quote is an immutable (maturity, rate) pair.
//
// Maturity is in years, Rate is a decimal (0.015 == 1.50%).
type Quote struct {
	maturity float64
	rate     float64
}

// New returns a quote for the given maturity and rate.
func New(maturity, rate float64) Quote {
	return Quote{maturity: maturity, rate: rate}
}

func (q Quote) Maturity() float64 { return q.maturity }
func (q Quote) Rate() float64     { return q.rate }

func (q Quote) String() string {
	return fmt.Sprintf("%gY@%.6f", q.maturity, q.rate)
}

// Validate reports whether the quote has a positive finite maturity and a finite rate.
func (q Quote) Validate() error {
	if !utils.ValidMaturity(q.maturity) {
		return fmt.Errorf("%w: maturity %v must be in (0, %g]", ErrInvalidQuote, q.maturity, utils.MaxMaturity)
	}
	if math.IsNaN(q.rate) || math.IsInf(q.rate, 0) {
		return fmt.Errorf("%w: rate %v at %gY is not finite", ErrInvalidQuote, q.rate, q.maturity)
	}
	return nil
}

// ValidateAll validates every quote and returns the first failure.
func ValidateAll(quotes []Quote) error {
	for i, q := range quotes {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("quote %d: %w", i, err)
		}
	}
	return nil
}

// SortByMaturity returns a copy of quotes ordered by ascending maturity.
// Quotes with equal maturity keep their input order.
func SortByMaturity(quotes []Quote) []Quote {
	sorted := make([]Quote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].maturity < sorted[j].maturity
	})
	return sorted
}

// Maturities returns the maturity of every quote in input order.
func Maturities(quotes []Quote) []float64 {
	out := make([]float64, len(quotes))
	for i, q := range quotes {
		out[i] = q.maturity
	}
	return out
}
