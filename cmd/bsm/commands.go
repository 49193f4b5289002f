package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/joshi-prasad/bsm"
)

type specFlags struct {
	kind     string
	spot     float64
	strike   float64
	start    string
	maturity string
	sigma    float64
	rate     float64
	dividend float64
	history  string
	periods  float64
}

func (self *specFlags) register(cmd *cobra.Command, withStrike bool) {
	flags := cmd.Flags()
	flags.StringVar(&self.kind, "type", "call", "option type: call or put")
	flags.Float64Var(&self.spot, "spot", 0, "current price of the underlying")
	flags.StringVar(&self.start, "start", "", "start date, e.g. 2024-01-02")
	flags.StringVar(&self.maturity, "maturity", "", "maturity date, e.g. 2024-07-22")
	flags.Float64Var(&self.sigma, "sigma", 0, "annualized volatility, e.g. 0.25")
	flags.Float64Var(&self.rate, "rate", 0, "annualized risk-free rate (default BSM_RATE)")
	flags.Float64Var(&self.dividend, "dividend", 0, "continuous dividend yield; accepted but not priced (default BSM_DIVIDEND)")
	flags.StringVar(&self.history, "history", "", "date,close CSV used for realized volatility when --sigma is not set")
	flags.Float64Var(&self.periods, "periods", bsm.DefaultPeriodsPerYear, "closes per year in --history")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("maturity")
	if withStrike {
		flags.Float64Var(&self.strike, "strike", 0, "strike price")
		cmd.MarkFlagRequired("strike")
	}
}

// spec builds an OptionSpec from the flags, falling back to the config for
// rate and dividend and to the price history for sigma.
func (self *specFlags) spec(cmd *cobra.Command, cfg *bsm.Config) (bsm.OptionSpec, error) {
	kind, err := bsm.ParseOptionKind(self.kind)
	if err != nil {
		return bsm.OptionSpec{}, err
	}
	start, err := parseDateFlag(cfg.DateLayout, "start", self.start)
	if err != nil {
		return bsm.OptionSpec{}, err
	}
	maturity, err := parseDateFlag(cfg.DateLayout, "maturity", self.maturity)
	if err != nil {
		return bsm.OptionSpec{}, err
	}

	rate := self.rate
	if !cmd.Flags().Changed("rate") {
		rate = cfg.Rate
	}
	dividend := self.dividend
	if !cmd.Flags().Changed("dividend") {
		dividend = cfg.Dividend
	}
	if dividend != 0 {
		glog.Warningf("Dividend %.4f is accepted but not used in pricing", dividend)
	}

	sigma := self.sigma
	if !cmd.Flags().Changed("sigma") && self.history != "" {
		history := bsm.NewPriceHistory(self.history)
		if err := history.ReadFile(); err != nil {
			return bsm.OptionSpec{}, err
		}
		sigma, err = history.RealizedVolatility(self.periods)
		if err != nil {
			return bsm.OptionSpec{}, err
		}
		glog.Infof("Using realized volatility %.4f from %s", sigma, self.history)
	}

	return bsm.NewOptionSpec(kind, self.spot, self.strike, start, maturity,
		sigma, rate, dividend)
}

func parseDateFlag(layout string, name string, value string) (time.Time, error) {
	if t, err := time.Parse(layout, value); err == nil {
		return t, nil
	}
	date, err := bsm.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return date.Time, nil
}

func (a *app) newPriceCmd() *cobra.Command {
	flags := &specFlags{}
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price one option and print its Greeks",
		Example: "  bsm price --type call --spot 66.24 --strike 64 " +
			"--start 2024-01-02 --maturity 2024-07-22 --sigma 0.7082 --rate 0.0025",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.spec(cmd, a.cfg)
			if err != nil {
				return err
			}
			result, err := a.model.Evaluate(spec)
			if err != nil {
				return err
			}
			bsm.PrintResult(cmd.OutOrStdout(), spec, result)
			return nil
		},
	}
	flags.register(cmd, true)
	return cmd
}

func (a *app) newBatchCmd() *cobra.Command {
	var file, out string
	var workers int
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Price every row of a quote CSV file",
		Long: `Price every row of a quote file with columns
type,spot,strike,start,maturity,sigma,rate[,dividend].
Files ending in .gz are decompressed. Rows that fail validation are reported
and skipped; the command exits non-zero if any row was rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := bsm.ReadQuotes(file)
			if err != nil {
				return err
			}
			specs, fileRows, rejected := bsm.QuoteSpecs(records)
			rejectedRows := make([]int, 0, len(rejected))
			for row := range rejected {
				rejectedRows = append(rejectedRows, row)
			}
			sort.Ints(rejectedRows)
			for _, row := range rejectedRows {
				fmt.Fprintf(cmd.ErrOrStderr(), "row %d: %v\n", row+1, rejected[row])
			}

			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Workers
			}
			rows, err := bsm.EvaluateBatch(context.Background(), a.model, specs, workers)
			if err != nil {
				return err
			}
			for ii := range rows {
				rows[ii].Index = fileRows[ii]
			}
			bsm.WriteBatchTable(cmd.OutOrStdout(), rows)

			if out != "" {
				if err := bsm.AppendReport(out, rows); err != nil {
					return err
				}
			}
			if len(rejected) > 0 {
				return fmt.Errorf("%d of %d rows rejected", len(rejected), len(records))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "quote CSV file")
	cmd.Flags().StringVar(&out, "out", "", "append results to this CSV report")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent evaluations (default BSM_WORKERS)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) newChainCmd() *cobra.Command {
	flags := &specFlags{}
	var step float64
	var total int
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Price calls and puts across strikes around the money",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The chain overrides the strike; seed the template with spot.
			flags.strike = flags.spot
			spec, err := flags.spec(cmd, a.cfg)
			if err != nil {
				return err
			}
			chain, err := bsm.NewOptionChain(a.model, spec, step, total)
			if err != nil {
				return err
			}
			chain.PrintTable(cmd.OutOrStdout())
			return nil
		},
	}
	flags.register(cmd, false)
	cmd.Flags().Float64Var(&step, "strike-step", 1, "distance between strikes")
	cmd.Flags().IntVar(&total, "strikes", 11, "number of strikes")
	return cmd
}

func (a *app) newSweepCmd() *cobra.Command {
	flags := &specFlags{}
	var from, to float64
	var points int
	var png, html string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Reprice across a range of spot levels and chart the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.spec(cmd, a.cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("from") {
				from = spec.Spot() * 0.5
			}
			if !cmd.Flags().Changed("to") {
				to = spec.Spot() * 1.5
			}
			curve, err := bsm.SweepSpot(a.model, spec, from, to, points)
			if err != nil {
				return err
			}

			rows := make([]bsm.BatchRow, len(curve))
			for ii, point := range curve {
				rows[ii] = bsm.BatchRow{Index: ii, Spec: point.Spec, Result: point.Result}
			}
			bsm.WriteBatchTable(cmd.OutOrStdout(), rows)

			title := fmt.Sprintf("%s K=%.2f T=%dd sigma=%.4f", spec.Kind(),
				spec.Strike(), spec.DaysToMaturity(), spec.Sigma())
			if png != "" {
				if err := bsm.RenderPricePNG(curve, title, resolve(a.cfg, png)); err != nil {
					return err
				}
			}
			if html != "" {
				if err := bsm.RenderGreeksHTML(curve, title, resolve(a.cfg, html)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	flags.register(cmd, true)
	cmd.Flags().Float64Var(&from, "from", 0, "lowest spot (default half of --spot)")
	cmd.Flags().Float64Var(&to, "to", 0, "highest spot (default 1.5x --spot)")
	cmd.Flags().IntVar(&points, "points", 21, "number of spot levels")
	cmd.Flags().StringVar(&png, "png", "", "write a price vs payoff chart (relative to BSM_OUTPUT_DIR)")
	cmd.Flags().StringVar(&html, "html", "", "write an HTML page of Greek charts (relative to BSM_OUTPUT_DIR)")
	return cmd
}

// resolve places relative output paths under the configured output dir.
func resolve(cfg *bsm.Config, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.OutputDir, path)
}

func (a *app) newVolCmd() *cobra.Command {
	var file string
	var periods float64
	cmd := &cobra.Command{
		Use:   "vol",
		Short: "Realized volatility of a date,close price history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history := bsm.NewPriceHistory(file)
			if err := history.ReadFile(); err != nil {
				return err
			}
			sigma, err := history.RealizedVolatility(periods)
			if err != nil {
				return err
			}
			latest := history.GetLatestRecord()
			fmt.Fprintf(cmd.OutOrStdout(), "closes=%d last=%s close=%.4f sigma=%.6f\n",
				history.Len(), latest.Date, latest.Close, sigma)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "price history CSV with date,close columns")
	cmd.Flags().Float64Var(&periods, "periods", bsm.DefaultPeriodsPerYear, "closes per year")
	cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) newPortfolioCmd() *cobra.Command {
	var file string
	var settle float64
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Value a YAML portfolio of option positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, err := bsm.LoadPortfolio(file)
			if err != nil {
				return err
			}
			value, err := portfolio.TheoreticalValue(a.model)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "positions=%d theoretical=%s\n",
				len(portfolio.Positions), value.StringFixed(4))
			if cmd.Flags().Changed("settle") {
				payoff, err := portfolio.MarkToMarket(settle)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "payoff@%.4f=%s\n", settle,
					payoff.StringFixed(4))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "portfolio YAML file")
	cmd.Flags().Float64Var(&settle, "settle", 0, "underlying price at expiry for the payoff valuation")
	cmd.MarkFlagRequired("file")
	return cmd
}
