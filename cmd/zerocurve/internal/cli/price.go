package cli

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/meenmo/zerocurve/bootstrap"
	"github.com/meenmo/zerocurve/pricer"
	"github.com/meenmo/zerocurve/utils"
)

// PriceOptions holds flags for the price command.
type PriceOptions struct {
	Market    string
	Method    string
	Maturity  float64
	FixedRate float64
}

// PriceOutput is the price command result. Error is set instead of the figures on failure.
type PriceOutput struct {
	Maturity  float64 `json:"maturity"`
	FairRate  float64 `json:"fair_rate"`
	FixedRate float64 `json:"fixed_rate"`
	Annuity   float64 `json:"annuity"`
	NPV       float64 `json:"npv"`
	Error     string  `json:"error,omitempty"`
}

// NewPriceCommand creates the price command.
func NewPriceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PriceOptions{}

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Fair rate and NPV of a pay-fixed swap",
		Long: `Calibrate the curve from the market data and price a pay-fixed swap of the given
maturity per unit notional. Without --fixed-rate the swap is struck at its fair rate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrice(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Market, "market", "", "market data file (yaml or json); defaults to market.file or the reference set")
	cmd.Flags().StringVar(&opts.Method, "method", "", "closed-form or secant; defaults to solver.method")
	cmd.Flags().Float64Var(&opts.Maturity, "maturity", 0, "swap maturity in years")
	cmd.Flags().Float64Var(&opts.FixedRate, "fixed-rate", 0, "fixed rate as a decimal (0.0315 = 3.15%)")
	_ = cmd.MarkFlagRequired("maturity")

	return cmd
}

func runPrice(root *RootOptions, opts *PriceOptions, cmd *cobra.Command) error {
	if !utils.ValidMaturity(opts.Maturity) {
		return commandError("maturity %v must be in (0, %g]", opts.Maturity, utils.MaxMaturity)
	}
	if cmd.Flags().Changed("fixed-rate") && (math.IsNaN(opts.FixedRate) || math.IsInf(opts.FixedRate, 0)) {
		return commandError("fixed rate %v must be finite", opts.FixedRate)
	}
	set, err := loadMarket(opts.Market, root.App)
	if err != nil {
		return err
	}
	method, err := resolveMethod(opts.Method, root.App)
	if err != nil {
		return err
	}

	crv := bootstrap.New(set.MarketQuotes(),
		bootstrap.WithMethod(method),
		bootstrap.WithLogger(root.Logger),
	).Calibrate(set.Seed())

	res := PriceOutput{Maturity: opts.Maturity}
	fair, perr := pricer.ParRate(crv, opts.Maturity)
	if perr != nil {
		res.Error = perr.Error()
	} else {
		fixed := fair
		if cmd.Flags().Changed("fixed-rate") {
			fixed = opts.FixedRate
		}
		res.FairRate = fair
		res.FixedRate = fixed
		res.Annuity = pricer.Annuity(crv, opts.Maturity)
		res.NPV = pricer.PriceSwap(crv, opts.Maturity, fixed)
	}

	out := cmd.OutOrStdout()
	if root.Format == "json" {
		b, err := json.Marshal(res)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	} else if perr == nil {
		fmt.Fprintf(out, "maturity %.2fY  fair %.6f%%  fixed %.6f%%  annuity %.8f  npv %.8f\n",
			res.Maturity, res.FairRate*100, res.FixedRate*100, res.Annuity, res.NPV)
	}

	if perr != nil {
		return &ExitError{Code: ExitFailure, Err: perr}
	}
	return nil
}
