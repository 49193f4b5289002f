package main

import (
	"flag"
	"os"

	"github.com/fatih/color"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/joshi-prasad/bsm"
)

type app struct {
	envFile string
	noColor bool
	cfg     *bsm.Config
	model   bsm.PricingModel
}

func newRootCmd() *cobra.Command {
	a := &app{model: bsm.NewBlackScholesMerton()}

	rootCmd := &cobra.Command{
		Use:   "bsm",
		Short: "Black-Scholes-Merton prices and Greeks for European options",
		Long: `bsm prices European calls and puts with the Black-Scholes-Merton closed form
and reports price, delta, gamma, vega and theta (per calendar day).
Time to maturity uses the Actual/365 day count.

Defaults for rate, dividend and worker count are read from BSM_* variables,
optionally loaded from a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.noColor {
				color.NoColor = true
			}
			cfg, err := bsm.LoadConfig(a.envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env", "", "env file with BSM_* defaults (default .env if present)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.AddCommand(
		a.newPriceCmd(),
		a.newBatchCmd(),
		a.newChainCmd(),
		a.newSweepCmd(),
		a.newVolCmd(),
		a.newPortfolioCmd(),
	)
	return rootCmd
}

func main() {
	flag.Set("alsologtostderr", "true")
	flag.CommandLine.Parse([]string{})

	err := newRootCmd().Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
