package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meenmo/zerocurve/bootstrap"
	"github.com/meenmo/zerocurve/curve"
	"github.com/meenmo/zerocurve/export"
	"github.com/meenmo/zerocurve/marketdata"
	"github.com/meenmo/zerocurve/pricer"
	"github.com/meenmo/zerocurve/quote"
	"github.com/meenmo/zerocurve/store"
	"github.com/meenmo/zerocurve/utils"
)

// Output file names.
const (
	QuotesFileName       = "swap_quotes.csv"
	InterpolatedFileName = "interpolated_swaps.csv"
	CurveFileName        = "zero_curve.csv"
)

// BootstrapOptions holds flags for the bootstrap command.
type BootstrapOptions struct {
	Market string
	OutDir string
	Method string
	Save   bool
}

// SeedInfo describes the deposit pillar the curve starts from.
type SeedInfo struct {
	DepositRate    float64 `json:"deposit_rate"`
	Tenor          float64 `json:"tenor"`
	DiscountFactor float64 `json:"discount_factor"`
	ZeroRate       float64 `json:"zero_rate"`
}

// BootstrapResult is the --format json output of the bootstrap command.
type BootstrapResult struct {
	Name         string                `json:"name"`
	Method       string                `json:"method"`
	Seed         SeedInfo              `json:"seed"`
	Pillars      []curve.Pillar        `json:"pillars"`
	Verification []pricer.Verification `json:"verification"`
	Interpolated []marketdata.QuoteRow `json:"interpolated"`
	Files        []string              `json:"files"`
	SnapshotID   string                `json:"snapshot_id,omitempty"`
}

// NewBootstrapCommand creates the bootstrap command.
func NewBootstrapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BootstrapOptions{}

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Calibrate the zero curve and export it as CSV",
		Long: `Calibrate a zero curve from the deposit and swap quotes in a market data file
(or the built-in reference set), print the verification table, and write
swap_quotes.csv, interpolated_swaps.csv and zero_curve.csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Market, "market", "", "market data file (yaml or json); defaults to market.file or the reference set")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "output directory; defaults to export.dir")
	cmd.Flags().StringVar(&opts.Method, "method", "", "closed-form or secant; defaults to solver.method")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "store the calibrated curve in the database")

	return cmd
}

func runBootstrap(root *RootOptions, opts *BootstrapOptions, cmd *cobra.Command) error {
	app, logger := root.App, root.Logger

	set, err := loadMarket(opts.Market, app)
	if err != nil {
		return err
	}
	method, err := resolveMethod(opts.Method, app)
	if err != nil {
		return err
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = app.Export.Dir
	}

	seed := curve.DepositSeed(set.Deposit.Rate, set.Deposit.Tenor)
	seedInfo := SeedInfo{
		DepositRate:    set.Deposit.Rate,
		Tenor:          seed.Time,
		DiscountFactor: math.Exp(-seed.ZeroRate * seed.Time),
		ZeroRate:       seed.ZeroRate,
	}

	cal := bootstrap.New(set.MarketQuotes(), bootstrap.WithMethod(method), bootstrap.WithLogger(logger))
	crv, report := cal.CalibrateDetailed(set.Seed())

	verification := pricer.Verify(crv, cal.Quotes())
	interpolated := pricer.InterpolateQuotes(crv, set.Interpolate)

	files, err := writeExports(outDir, cal.Quotes(), interpolated, crv)
	if err != nil {
		return commandError("export: %v", err)
	}
	logger.Debug("exported curve", zap.Strings("files", files))

	var snapshotID string
	if opts.Save {
		snapshotID, err = saveSnapshot(cmd, root, set, method, cal.Quotes(), crv)
		if err != nil {
			return &ExitError{Code: ExitFailure, Err: fmt.Errorf("save: %w", err)}
		}
	}

	out := cmd.OutOrStdout()
	if root.Format == "json" {
		res := BootstrapResult{
			Name:         set.Name,
			Method:       string(method),
			Seed:         seedInfo,
			Pillars:      crv.Pillars(),
			Verification: verification,
			Interpolated: marketdata.Rows(interpolated),
			Files:        files,
			SnapshotID:   snapshotID,
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printSeed(out, seedInfo)
		printReport(out, report)
		printVerification(out, verification)
		printInterpolated(out, interpolated)
		fmt.Fprintf(out, "\nWrote %d files to %s\n", len(files), outDir)
		if snapshotID != "" {
			fmt.Fprintf(out, "Saved curve %s\n", snapshotID)
		}
	}

	if n := report.Count(bootstrap.StatusDegenerate) + report.Count(bootstrap.StatusNotConverged); n > 0 {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%d pillar(s) failed to calibrate: %w", n, report.Err())}
	}
	return nil
}

func writeExports(dir string, quotes, interpolated []quote.Quote, crv *curve.Curve) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	files := []string{
		filepath.Join(dir, QuotesFileName),
		filepath.Join(dir, InterpolatedFileName),
		filepath.Join(dir, CurveFileName),
	}
	if err := export.QuotesFile(files[0], quotes); err != nil {
		return nil, err
	}
	if err := export.QuotesFile(files[1], interpolated); err != nil {
		return nil, err
	}
	if err := export.CurveFile(files[2], crv); err != nil {
		return nil, err
	}
	return files, nil
}

func saveSnapshot(cmd *cobra.Command, root *RootOptions, set *marketdata.Set, method bootstrap.Method, quotes []quote.Quote, crv *curve.Curve) (string, error) {
	ctx := cmd.Context()
	repo, cleanup, err := openRepository(ctx, root.App, root.Logger)
	if err != nil {
		return "", err
	}
	defer cleanup()

	snap := &store.Snapshot{
		Name:    set.Name,
		Method:  string(method),
		Deposit: set.Deposit,
		Quotes:  marketdata.Rows(quotes),
		Pillars: crv.Pillars(),
	}
	if err := repo.Save(ctx, snap); err != nil {
		return "", err
	}
	fields := []zap.Field{zap.String("id", snap.ID)}
	driver, dsn := root.App.DB.Target()
	fields = append(fields, zap.String("driver", driver))
	if driver == store.DriverSQLite {
		// postgres DSNs may carry credentials
		fields = append(fields, zap.String("db", dsn))
	}
	root.Logger.Info("curve stored", fields...)
	return snap.ID, nil
}

func printSeed(w io.Writer, s SeedInfo) {
	fmt.Fprintf(w, "Deposit seed: %.4f%% over %.2fY -> DF %.8f -> zero %.4f%%\n",
		utils.Percent(s.DepositRate), s.Tenor, s.DiscountFactor, utils.Percent(s.ZeroRate))
}

func printReport(w io.Writer, r bootstrap.Report) {
	fmt.Fprintf(w, "\nCalibration (%s)\n", r.Method)
	fmt.Fprintf(w, "%10s %12s %12s %14s\n", "Maturity", "Swap", "Zero", "Status")
	for _, p := range r.Pillars {
		fmt.Fprintf(w, "%10.2f %11.4f%% %11.4f%% %14s\n",
			p.Maturity, utils.Percent(p.Rate), utils.Percent(p.ZeroRate), p.Status)
	}
}

func printVerification(w io.Writer, vs []pricer.Verification) {
	fmt.Fprintln(w, "\nVerification")
	fmt.Fprintf(w, "%10s %12s %12s %14s\n", "Maturity", "Market", "Fair", "NPV")
	for _, v := range vs {
		fmt.Fprintf(w, "%10.2f %11.4f%% %11.4f%% %14.8f\n",
			v.Maturity, utils.Percent(v.MarketRate), utils.Percent(v.FairRate), v.NPV)
	}
	fmt.Fprintf(w, "Max |NPV|: %.3e\n", pricer.MaxAbsNPV(vs))
}

func printInterpolated(w io.Writer, qs []quote.Quote) {
	if len(qs) == 0 {
		return
	}
	fmt.Fprintln(w, "\nInterpolated swaps")
	fmt.Fprintf(w, "%10s %12s\n", "Maturity", "Fair")
	for _, q := range qs {
		fmt.Fprintf(w, "%10.2f %11.4f%%\n", q.Maturity(), utils.Percent(q.Rate()))
	}
}
