package bsm

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/golang/glog"
)

// ChainRow holds the call and put priced at one strike.
type ChainRow struct {
	Strike float64
	Call   PricingResult
	Put    PricingResult

	// S - K*exp(-rT), the value put-call parity pins C - P to.
	Forward float64

	// C - P - Forward; zero up to rounding.
	ParityResidual float64
}

func (self *ChainRow) ParityHolds(tolerance float64) bool {
	return relativeDiff(self.Call.Price-self.Put.Price, self.Forward) <= tolerance
}

func (self *ChainRow) String() string {
	return fmt.Sprintf("Strike: %.2f, Call: %s, Put: %s, Parity residual: %.2e",
		self.Strike, self.Call, self.Put, self.ParityResidual)
}

// OptionChain prices calls and puts at a ladder of strikes centred on the
// at-the-money strike, holding the other inputs of the template spec fixed.
type OptionChain struct {
	model      PricingModel
	spec       OptionSpec
	strikeStep float64
	rows       []*ChainRow
}

func NewOptionChain(
	model PricingModel,
	spec OptionSpec,
	strikeStep float64,
	totalStrikes int) (*OptionChain, error) {

	if !(strikeStep > 0) {
		return nil, newSpecError("strike-step", strikeStep, ErrInvalidPrice)
	}
	if totalStrikes <= 0 {
		return nil, fmt.Errorf("total strikes must be positive, got %d", totalStrikes)
	}

	chain := &OptionChain{
		model:      model,
		spec:       spec,
		strikeStep: strikeStep,
		rows:       []*ChainRow{},
	}
	for _, strike := range chain.GetAtmStrikes(totalStrikes) {
		row, err := chain.priceStrike(strike)
		if err != nil {
			return nil, err
		}
		chain.rows = append(chain.rows, row)
	}
	return chain, nil
}

func (self *OptionChain) priceStrike(strike float64) (*ChainRow, error) {
	call, err := self.spec.WithStrike(strike)
	if err != nil {
		return nil, err
	}
	call, err = call.WithKind(Call)
	if err != nil {
		return nil, err
	}
	put, err := call.WithKind(Put)
	if err != nil {
		return nil, err
	}

	callResult, err := self.model.Evaluate(call)
	if err != nil {
		return nil, err
	}
	putResult, err := self.model.Evaluate(put)
	if err != nil {
		return nil, err
	}

	forward := call.Spot() - strike*call.DiscountFactor()
	return &ChainRow{
		Strike:         strike,
		Call:           callResult,
		Put:            putResult,
		Forward:        forward,
		ParityResidual: callResult.Price - putResult.Price - forward,
	}, nil
}

func (self *OptionChain) Spot() float64 {
	return self.spec.Spot()
}

func (self *OptionChain) AtmStrike() float64 {
	return roundToStep(self.spec.Spot(), self.strikeStep)
}

// GetAtmStrikes returns totalStrikes strikes spaced by the strike step around
// the ATM strike. Strikes that would not be positive are dropped.
func (self *OptionChain) GetAtmStrikes(totalStrikes int) []float64 {
	atmIndex := stepIndex(self.spec.Spot(), self.strikeStep)
	strikes := make([]float64, 0, totalStrikes)
	for ii := 0; ii < totalStrikes; ii += 1 {
		offset := float64(ii - totalStrikes/2)
		strike := (atmIndex + offset) * self.strikeStep
		if strike <= 0 {
			glog.V(1).Infof("Skipping non-positive strike %.2f", strike)
			continue
		}
		strikes = append(strikes, strike)
	}
	return strikes
}

func (self *OptionChain) Rows() []*ChainRow {
	return self.rows
}

// PrintTable writes the chain with in-the-money legs in yellow and the ATM
// strike marked with '*'.
func (self *OptionChain) PrintTable(w io.Writer) {
	fmt.Fprintf(w, "%-10s %-8s %-10s %-10s %-10s %s %-10s %s %-10s %-8s %-10s %-10s %-10s || %-10s\n",
		"CeTheta", "CeVega", "CeGamma", "CeDelta", "CePrice", " ",
		"Strike", " ", "PePrice", "PeDelta", "PeGamma", "PeVega", "PeTheta",
		"Parity")

	yellowColor := color.New(color.FgYellow).SprintFunc()
	defaultColor := color.New(color.FgBlue).SprintFunc()
	redColor := color.New(color.FgRed).SprintFunc()
	greenColor := color.New(color.FgGreen).SprintFunc()

	atm := self.AtmStrike()
	for _, row := range self.rows {
		atmChar := ' '
		if row.Strike == atm {
			atmChar = '*'
		}

		ceColor := yellowColor
		peColor := yellowColor
		if row.Strike < self.Spot() {
			peColor = defaultColor
		} else {
			ceColor = defaultColor
		}

		parityColor := greenColor
		if !row.ParityHolds(1e-6) {
			parityColor = redColor
		}

		fmt.Fprintf(w, "%s %c %-10.2f %c %s || %s\n",
			ceColor(fmt.Sprintf("%-10.4f %-8.4f %-10.6f %-10.4f %-10.4f",
				row.Call.Theta, row.Call.Vega, row.Call.Gamma, row.Call.Delta,
				row.Call.Price)),
			atmChar, row.Strike, atmChar,
			peColor(fmt.Sprintf("%-10.4f %-8.4f %-10.6f %-10.4f %-10.4f",
				row.Put.Price, row.Put.Delta, row.Put.Gamma, row.Put.Vega,
				row.Put.Theta)),
			parityColor(fmt.Sprintf("%.2e", row.ParityResidual)))
	}

	fmt.Fprintln(w, "\nInputs:")
	fmt.Fprintf(w, "Spot:                %-10.4f\n", self.spec.Spot())
	fmt.Fprintf(w, "ATM Strike:          %-10.2f\n", atm)
	fmt.Fprintf(w, "Days To Maturity:    %-10d\n", self.spec.DaysToMaturity())
	fmt.Fprintf(w, "Volatility:          %-10.4f\n", self.spec.Sigma())
	fmt.Fprintf(w, "Rate:                %-10.4f\n", self.spec.Rate())
}
