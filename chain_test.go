package bsm

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionChain(t *testing.T) {
	spec := mustSpec(t, Call, 101.3, 100, 60, 0.3, 0.05)
	chain, err := NewOptionChain(NewBlackScholesMerton(), spec, 5, 5)
	require.NoError(t, err)

	assert.Equal(t, 100.0, chain.AtmStrike())
	rows := chain.Rows()
	require.Len(t, rows, 5)

	strikes := make([]float64, len(rows))
	for ii, row := range rows {
		strikes[ii] = row.Strike
		assert.True(t, row.ParityHolds(1e-6), "parity at strike %.2f", row.Strike)
		assert.InDelta(t, 0, row.ParityResidual, 1e-9)
		assert.Greater(t, row.Call.Delta, 0.0)
		assert.Less(t, row.Put.Delta, 0.0)
		assert.InDelta(t, row.Call.Gamma, row.Put.Gamma, 1e-12)
	}
	assert.Equal(t, []float64{90, 95, 100, 105, 110}, strikes)

	// Call prices fall and put prices rise with the strike.
	for ii := 1; ii < len(rows); ii++ {
		assert.Less(t, rows[ii].Call.Price, rows[ii-1].Call.Price)
		assert.Greater(t, rows[ii].Put.Price, rows[ii-1].Put.Price)
	}
}

func TestOptionChain_SkipsNonPositiveStrikes(t *testing.T) {
	spec := mustSpec(t, Put, 3, 3, 30, 0.4, 0.01)
	chain, err := NewOptionChain(NewBlackScholesMerton(), spec, 1, 11)
	require.NoError(t, err)

	rows := chain.Rows()
	require.Len(t, rows, 8)
	assert.Equal(t, 1.0, rows[0].Strike)
	assert.Equal(t, 8.0, rows[7].Strike)
}

func TestOptionChain_InvalidArguments(t *testing.T) {
	spec := mustSpec(t, Call, 100, 100, 30, 0.2, 0.01)
	model := NewBlackScholesMerton()

	_, err := NewOptionChain(model, spec, 0, 5)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "strike-step", specErr.Field)

	_, err = NewOptionChain(model, spec, 1, 0)
	assert.Error(t, err)
}

func TestOptionChain_PrintTable(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	spec := mustSpec(t, Call, 101.3, 100, 60, 0.3, 0.05)
	chain, err := NewOptionChain(NewBlackScholesMerton(), spec, 5, 3)
	require.NoError(t, err)

	var out bytes.Buffer
	chain.PrintTable(&out)
	text := out.String()
	assert.Contains(t, text, "CePrice")
	assert.Contains(t, text, "* 100.00")
	assert.Contains(t, text, "95.00")
	assert.Contains(t, text, "105.00")
	assert.Contains(t, text, "Days To Maturity:    60")
	assert.NotContains(t, text, "\x1b[")
}

func TestOptionChain_FractionalStep(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	spec := mustSpec(t, Call, 0.3, 0.3, 45, 0.5, 0.02)
	chain, err := NewOptionChain(NewBlackScholesMerton(), spec, 0.1, 5)
	require.NoError(t, err)

	rows := chain.Rows()
	require.Len(t, rows, 5)
	assert.Equal(t, chain.AtmStrike(), rows[2].Strike)
	assert.InDelta(t, 0.1, rows[0].Strike, 1e-12)
	assert.InDelta(t, 0.5, rows[4].Strike, 1e-12)

	var out bytes.Buffer
	chain.PrintTable(&out)
	assert.Contains(t, out.String(), "* 0.30")
}
