package bsm

import (
	"math"
)

// Payoff returns the value of an option at expiry when the underlying settles
// at sT. An invalid kind has no payoff and yields NaN.
func Payoff(kind OptionKind, sT float64, strike float64) float64 {
	switch kind {
	case Call:
		return math.Max(sT-strike, 0)
	case Put:
		return math.Max(strike-sT, 0)
	}
	return math.NaN()
}

// PayoffAbs computes the same payoff as Payoff with the absolute value form
// (x + |x|) / 2.
func PayoffAbs(kind OptionKind, sT float64, strike float64) float64 {
	switch kind {
	case Call:
		return (sT - strike + math.Abs(sT-strike)) / 2
	case Put:
		return (strike - sT + math.Abs(sT-strike)) / 2
	}
	return math.NaN()
}
