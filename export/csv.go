// Package export writes quotes and curve pillars as two-column CSV for plotting.
//
// Every value is fixed-point with 8 decimals and rows keep ascending input/time order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/meenmo/zerocurve/curve"
	"github.com/meenmo/zerocurve/quote"
)

// CSV header rows.
const (
	// QuotesHeader heads swap quote tables, market or interpolated.
	QuotesHeader = "Maturity,SwapRate"
	// CurveHeader heads the zero curve table.
	CurveHeader = "Time,ZeroRate"
)

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

// WriteQuotes writes a Maturity,SwapRate table in the order given.
func WriteQuotes(w io.Writer, quotes []quote.Quote) error {
	rows := make([][2]float64, len(quotes))
	for i, q := range quotes {
		rows[i] = [2]float64{q.Maturity(), q.Rate()}
	}
	return writeTable(w, strings.Split(QuotesHeader, ","), rows)
}

// WriteCurve writes a Time,ZeroRate table with one row per pillar. An empty curve
// produces the header only.
func WriteCurve(w io.Writer, crv *curve.Curve) error {
	pillars := crv.Pillars()
	rows := make([][2]float64, len(pillars))
	for i, p := range pillars {
		rows[i] = [2]float64{p.Time, p.ZeroRate}
	}
	return writeTable(w, strings.Split(CurveHeader, ","), rows)
}

func writeTable(w io.Writer, header []string, rows [][2]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{formatValue(row[0]), formatValue(row[1])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// QuotesFile writes quotes to path, replacing any existing file.
func QuotesFile(path string, quotes []quote.Quote) error {
	return writeFile(path, func(w io.Writer) error { return WriteQuotes(w, quotes) })
}

// CurveFile writes the curve pillars to path, replacing any existing file.
func CurveFile(path string, crv *curve.Curve) error {
	return writeFile(path, func(w io.Writer) error { return WriteCurve(w, crv) })
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
