package bsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToStep(t *testing.T) {
	tests := []struct {
		num  float64
		step float64
		want float64
	}{
		{101.3, 5, 100},
		{102.5, 5, 100},
		{103, 5, 105},
		{43392, 100, 43400},
		{17.2, 0, 17.2},
		{0.3, 0.1, 0.3},
		{0.25, 0.1, 0.2},
		{1.26, 0.05, 1.25},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, roundToStep(tt.num, tt.step), 1e-9,
			"roundToStep(%v, %v)", tt.num, tt.step)
	}
}

func TestRelativeDiff(t *testing.T) {
	assert.InDelta(t, 1.0/101, relativeDiff(100, 101), 1e-15)
	assert.InDelta(t, 1.0/101, relativeDiff(-101, -100), 1e-15)
	assert.InDelta(t, 0.1, relativeDiff(0.1, 0.2), 1e-15)
	assert.Zero(t, relativeDiff(3, 3))
}
