package bsm

import (
	"math"
)

// roundToStep rounds num to the nearest multiple of step. Halfway values round
// down, matching how exchanges pick the at-the-money strike.
func roundToStep(num float64, step float64) float64 {
	if step <= 0 {
		return num
	}
	return stepIndex(num, step) * step
}

// stepIndex is the whole number of steps roundToStep lands on. Strikes built
// as index*step compare exactly with the rounded ATM strike.
func stepIndex(num float64, step float64) float64 {
	return math.Ceil(num/step - 0.5)
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func MaxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// relativeDiff is |a-b| scaled by the larger magnitude, or the absolute
// difference when both are below 1.
func relativeDiff(a, b float64) float64 {
	scale := MaxFloat(1, MaxFloat(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) / scale
}
