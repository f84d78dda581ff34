// Package marketdata loads the bootstrap input set: the money-market deposit that seeds the
// short end, the par swap quotes, and the unquoted maturities to price off the result.
package marketdata

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/zerocurve/curve"
	"github.com/meenmo/zerocurve/quote"
	"github.com/meenmo/zerocurve/utils"
)

// ErrNoQuotes is returned when a market data set has no swap quotes.
var ErrNoQuotes = errors.New("no swap quotes")

// Deposit is a simple-rate money-market deposit over Tenor years.
type Deposit struct {
	Rate  float64 `yaml:"rate" json:"rate"`
	Tenor float64 `yaml:"tenor" json:"tenor"`
}

// QuoteRow is the serialised form of a quote.Quote. Rates are decimals.
type QuoteRow struct {
	Maturity float64 `yaml:"maturity" json:"maturity"`
	Rate     float64 `yaml:"rate" json:"rate"`
}

// Set is one market snapshot.
type Set struct {
	Name        string     `yaml:"name" json:"name"`
	Deposit     Deposit    `yaml:"deposit" json:"deposit"`
	Quotes      []QuoteRow `yaml:"quotes" json:"quotes"`
	Interpolate []float64  `yaml:"interpolate" json:"interpolate"`
}

// Default returns the reference semi-annual data set: a 1.00% 6M deposit and par swaps
// out to 6Y, with 4Y, 4.7Y and 5.5Y priced off the calibrated curve.
func Default() *Set {
	return &Set{
		Name:    "reference",
		Deposit: Deposit{Rate: 0.0100, Tenor: utils.SemiAnnual},
		Quotes: []QuoteRow{
			{Maturity: 0.5, Rate: 0.0100}, // deposit maturity, already seeded
			{Maturity: 1.0, Rate: 0.0150},
			{Maturity: 2.0, Rate: 0.0190},
			{Maturity: 3.0, Rate: 0.0240},
			{Maturity: 5.0, Rate: 0.0315},
			{Maturity: 6.0, Rate: 0.0400},
		},
		Interpolate: []float64{4.0, 4.7, 5.5},
	}
}

// Load reads a YAML or JSON market data file.
func Load(path string) (*Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("marketdata.Load: %w", err)
	}
	set, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("marketdata.Load: %s: %w", path, err)
	}
	return set, nil
}

// Parse decodes a YAML document (JSON is accepted as a YAML subset) and validates it.
// A missing deposit tenor defaults to 0.5Y.
func Parse(raw []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if set.Deposit.Tenor == 0 {
		set.Deposit.Tenor = utils.SemiAnnual
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Validate checks that the set has usable quotes and a positive deposit tenor.
func (s *Set) Validate() error {
	if len(s.Quotes) == 0 {
		return ErrNoQuotes
	}
	if s.Deposit.Tenor <= 0 {
		return fmt.Errorf("deposit tenor %v must be positive", s.Deposit.Tenor)
	}
	if err := quote.ValidateAll(s.MarketQuotes()); err != nil {
		return err
	}
	for _, m := range s.Interpolate {
		if !utils.ValidMaturity(m) {
			return fmt.Errorf("interpolation maturity %v must be in (0, %g]", m, utils.MaxMaturity)
		}
	}
	return nil
}

// MarketQuotes returns the swap quotes in file order.
func (s *Set) MarketQuotes() []quote.Quote {
	out := make([]quote.Quote, len(s.Quotes))
	for i, row := range s.Quotes {
		out[i] = quote.New(row.Maturity, row.Rate)
	}
	return out
}

// Seed returns the one-pillar curve implied by the deposit.
func (s *Set) Seed() *curve.Curve {
	return curve.SeedFromDeposit(s.Deposit.Rate, s.Deposit.Tenor)
}

// Rows converts quotes back to their serialised form.
func Rows(quotes []quote.Quote) []QuoteRow {
	out := make([]QuoteRow, len(quotes))
	for i, q := range quotes {
		out[i] = QuoteRow{Maturity: q.Maturity(), Rate: q.Rate()}
	}
	return out
}
