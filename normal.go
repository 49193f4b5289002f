package bsm

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// NormCdf calculates the cumulative distribution function (CDF) of the
// standard normal distribution at x. distuv evaluates it through math.Erfc,
// which keeps full precision in both tails.
func NormCdf(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormPdf calculates the probability density function (PDF) of the standard
// normal distribution at x.
func NormPdf(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}
