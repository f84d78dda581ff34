package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/meenmo/zerocurve/curve"
	"github.com/meenmo/zerocurve/export"
	"github.com/meenmo/zerocurve/marketdata"
)

func TestWriteQuotes_Golden(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := export.WriteQuotes(&buf, marketdata.Default().MarketQuotes()); err != nil {
		t.Fatalf("WriteQuotes error: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "quotes", buf.Bytes())
}

func TestWriteCurve_Golden(t *testing.T) {
	t.Parallel()

	// Inserted out of order; rows must come out by ascending time.
	crv := curve.New(
		curve.Pillar{Time: 2, ZeroRate: 0.01434158},
		curve.Pillar{Time: 0.5, ZeroRate: 0.00997508},
		curve.Pillar{Time: 4.7, ZeroRate: -0.000125},
		curve.Pillar{Time: 1, ZeroRate: 0.00749067},
	)

	var buf bytes.Buffer
	if err := export.WriteCurve(&buf, crv); err != nil {
		t.Fatalf("WriteCurve error: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "curve", buf.Bytes())
}

func TestWriteCurve_EmptyCurveWritesHeaderOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := export.WriteCurve(&buf, curve.New()); err != nil {
		t.Fatalf("WriteCurve error: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "empty_curve", buf.Bytes())
}

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	quotesPath := filepath.Join(dir, "swap_quotes.csv")
	curvePath := filepath.Join(dir, "zero_curve.csv")

	set := marketdata.Default()
	if err := export.QuotesFile(quotesPath, set.MarketQuotes()); err != nil {
		t.Fatalf("QuotesFile error: %v", err)
	}
	if err := export.CurveFile(curvePath, set.Seed()); err != nil {
		t.Fatalf("CurveFile error: %v", err)
	}

	raw, err := os.ReadFile(curvePath)
	if err != nil {
		t.Fatalf("read curve: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != export.CurveHeader || lines[1] != "0.50000000,0.00997508" {
		t.Fatalf("unexpected curve file: %q", lines)
	}

	raw, err = os.ReadFile(quotesPath)
	if err != nil {
		t.Fatalf("read quotes: %v", err)
	}
	if !strings.HasPrefix(string(raw), export.QuotesHeader+"\n") {
		t.Fatalf("unexpected quotes file: %q", raw)
	}

	if err := export.CurveFile(filepath.Join(dir, "missing", "x.csv"), set.Seed()); err == nil {
		t.Fatalf("expected error writing into a missing directory")
	}
}
