package bsm

import (
	"fmt"
	"math"

	"github.com/golang/glog"
)

// PricingResult holds the theoretical price and Greeks of one option.
// Theta is the decay per calendar day.
type PricingResult struct {
	Price float64 `json:"price" csv:"price"`
	Delta float64 `json:"delta" csv:"delta"`
	Gamma float64 `json:"gamma" csv:"gamma"`
	Vega  float64 `json:"vega" csv:"vega"`
	Theta float64 `json:"theta" csv:"theta"`
}

func (self PricingResult) finite() bool {
	for _, value := range []float64{
		self.Price, self.Delta, self.Gamma, self.Vega, self.Theta} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return false
		}
	}
	return true
}

func (self PricingResult) String() string {
	return fmt.Sprintf("price=%.4f delta=%.4f gamma=%.6f vega=%.4f theta=%.6f",
		self.Price, self.Delta, self.Gamma, self.Vega, self.Theta)
}

// PricingModel is implemented by every option pricing model.
type PricingModel interface {
	Name() string
	Evaluate(spec OptionSpec) (PricingResult, error)
}

// BlackScholesMerton prices European options with the closed-form
// Black-Scholes-Merton model.
type BlackScholesMerton struct{}

func NewBlackScholesMerton() *BlackScholesMerton {
	return &BlackScholesMerton{}
}

func (self *BlackScholesMerton) Name() string {
	return "black-scholes-merton"
}

// computeD1 calculates d1, the normalized log-moneyness of the option.
// sigmaSqrtT is passed in so callers that already hold it do not recompute
// the square root.
func computeD1(
	spot float64,
	strike float64,
	rate float64,
	sigma float64,
	t float64,
	sigmaSqrtT float64) float64 {

	return (math.Log(spot/strike) + (rate+0.5*sigma*sigma)*t) / sigmaSqrtT
}

// Evaluate computes price, delta, gamma, vega and theta for spec. The spec is
// validated again so a zero-value OptionSpec can never reach the formulas.
// Either all five outputs are returned or an error is.
func (self *BlackScholesMerton) Evaluate(spec OptionSpec) (PricingResult, error) {
	if err := spec.Validate(); err != nil {
		return PricingResult{}, err
	}

	t := spec.TimeToMaturity()
	sqrtT := math.Sqrt(t)
	sigmaSqrtT := spec.sigma * sqrtT

	d1 := computeD1(spec.spot, spec.strike, spec.rate, spec.sigma, t, sigmaSqrtT)
	d2 := d1 - sigmaSqrtT

	// Present value factor for discounting the strike.
	discount := math.Exp(-spec.rate * t)

	pdfD1 := NormPdf(d1)
	cdfD1 := NormCdf(d1)

	// The time decay term shared by calls and puts, before the carry term.
	decay := -(spec.spot * pdfD1 * spec.sigma) / (2 * sqrtT)

	result := PricingResult{
		// Gamma and vega are identical for calls and puts at the same
		// strike.
		Gamma: pdfD1 / (spec.spot * sigmaSqrtT),
		Vega:  spec.spot * pdfD1 * sqrtT,
	}

	switch spec.kind {
	case Call:
		cdfD2 := NormCdf(d2)
		result.Price = spec.spot*cdfD1 - spec.strike*discount*cdfD2
		result.Delta = cdfD1
		result.Theta = (decay - spec.rate*spec.strike*discount*cdfD2) / kDaysPerYear
	case Put:
		cdfNegD2 := NormCdf(-d2)
		result.Price = spec.strike*discount*cdfNegD2 - spec.spot*NormCdf(-d1)
		result.Delta = cdfD1 - 1
		result.Theta = (decay + spec.rate*spec.strike*discount*cdfNegD2) / kDaysPerYear
	default:
		return PricingResult{}, newSpecError("type", spec.kind, ErrUnknownOptionKind)
	}

	// Extreme but finite inputs can overflow exp() or the products above.
	if !result.finite() {
		return PricingResult{}, newSpecError("result", result, ErrNumericalOverflow)
	}

	if glog.V(2) {
		glog.Infof("%s d1=%.6f d2=%.6f discount=%.6f -> %s",
			spec, d1, d2, discount, result)
	}
	return result, nil
}
