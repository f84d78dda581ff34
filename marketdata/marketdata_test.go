package marketdata_test

import (
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/meenmo/zerocurve/marketdata"
	"github.com/meenmo/zerocurve/quote"
)

func TestLoad_YAMLMatchesDefault(t *testing.T) {
	t.Parallel()

	set, err := marketdata.Load(filepath.Join("testdata", "reference.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(set, marketdata.Default()) {
		t.Fatalf("loaded set differs from Default():\n got %+v\nwant %+v", set, marketdata.Default())
	}
}

func TestLoad_JSONDefaultsTenor(t *testing.T) {
	t.Parallel()

	set, err := marketdata.Load(filepath.Join("testdata", "reference.json"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if set.Name != "reference-json" || len(set.Quotes) != 2 {
		t.Fatalf("unexpected set: %+v", set)
	}
	if set.Deposit.Tenor != 0.5 {
		t.Fatalf("deposit tenor = %v, want default 0.5", set.Deposit.Tenor)
	}
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	if _, err := marketdata.Parse([]byte(`name: empty`)); !errors.Is(err, marketdata.ErrNoQuotes) {
		t.Fatalf("expected ErrNoQuotes, got %v", err)
	}
	bad := []byte("quotes:\n  - {maturity: 0, rate: 0.01}\n")
	if _, err := marketdata.Parse(bad); !errors.Is(err, quote.ErrInvalidQuote) {
		t.Fatalf("expected ErrInvalidQuote, got %v", err)
	}
	for _, raw := range []string{
		"quotes:\n  - {maturity: 1e11, rate: 0.01}\n",
		"quotes:\n  - {maturity: .inf, rate: 0.01}\n",
	} {
		if _, err := marketdata.Parse([]byte(raw)); !errors.Is(err, quote.ErrInvalidQuote) {
			t.Fatalf("%q: expected ErrInvalidQuote, got %v", raw, err)
		}
	}
	if _, err := marketdata.Parse([]byte("quotes: [{maturity: 1, rate: 0.01}]\ninterpolate: [1e11]\n")); err == nil {
		t.Fatalf("expected interpolation maturity error")
	}
	if _, err := marketdata.Parse([]byte("quotes: [")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSeedAndQuotes(t *testing.T) {
	t.Parallel()

	set := marketdata.Default()
	seed := set.Seed()
	if seed.Len() != 1 || seed.MaxMaturity() != 0.5 {
		t.Fatalf("unexpected seed: %v", seed.Pillars())
	}
	if got := seed.DiscountFactor(0.5); math.Abs(got-1/1.005) > 1e-15 {
		t.Fatalf("seed DF = %.15f", got)
	}

	qs := set.MarketQuotes()
	if len(qs) != 6 || qs[1].Maturity() != 1.0 || qs[1].Rate() != 0.015 {
		t.Fatalf("unexpected quotes: %v", qs)
	}
	if rows := marketdata.Rows(qs); !reflect.DeepEqual(rows, set.Quotes) {
		t.Fatalf("Rows round trip mismatch: %+v", rows)
	}
}
