package bsm

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionKind(t *testing.T) {
	tests := []struct {
		in   string
		want OptionKind
	}{
		{"call", Call},
		{"CALL", Call},
		{" c ", Call},
		{"CE", Call},
		{"put", Put},
		{"P", Put},
		{"pe", Put},
	}
	for _, tt := range tests {
		got, err := ParseOptionKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseOptionKind("straddle")
	assert.ErrorIs(t, err, ErrUnknownOptionKind)
}

func TestOptionKind_String(t *testing.T) {
	assert.Equal(t, "call", Call.String())
	assert.Equal(t, "put", Put.String())
	assert.Equal(t, "OptionKind(9)", OptionKind(9).String())
}

func TestNewOptionSpec_Preconditions(t *testing.T) {
	maturity := testStart.AddDate(0, 0, 30)
	tests := []struct {
		name     string
		kind     OptionKind
		spot     float64
		strike   float64
		maturity time.Time
		sigma    float64
		rate     float64
		field    string
		want     error
	}{
		{"unknown kind", OptionKind(0), 100, 100, maturity, 0.2, 0, "type", ErrUnknownOptionKind},
		{"out of range kind", OptionKind(3), 100, 100, maturity, 0.2, 0, "type", ErrUnknownOptionKind},
		{"zero spot", Call, 0, 100, maturity, 0.2, 0, "spot", ErrInvalidPrice},
		{"negative strike", Put, 100, -1, maturity, 0.2, 0, "strike", ErrInvalidPrice},
		{"NaN spot", Call, math.NaN(), 100, maturity, 0.2, 0, "spot", ErrInvalidPrice},
		{"zero sigma", Call, 100, 100, maturity, 0, 0, "sigma", ErrInvalidVolatility},
		{"negative sigma", Call, 100, 100, maturity, -0.2, 0, "sigma", ErrInvalidVolatility},
		{"infinite rate", Call, 100, 100, maturity, 0.2, math.Inf(1), "rate", ErrInvalidRate},
		{"same day maturity", Call, 100, 100, testStart, 0.2, 0, "maturity", ErrInvalidDateRange},
		{"maturity before start", Call, 100, 100, testStart.AddDate(0, 0, -1), 0.2, 0, "maturity", ErrInvalidDateRange},
		{"intraday maturity", Call, 100, 100, testStart.Add(6 * time.Hour), 0.2, 0, "maturity", ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := NewOptionSpec(tt.kind, tt.spot, tt.strike, testStart,
				tt.maturity, tt.sigma, tt.rate, 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, OptionSpec{}, spec)

			var specErr *SpecError
			require.True(t, errors.As(err, &specErr))
			assert.Equal(t, tt.field, specErr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestOptionSpec_DerivedValues(t *testing.T) {
	spec := mustSpec(t, Call, 66.24, 64, 202, 0.7082, 0.0025)

	assert.Equal(t, 202, spec.DaysToMaturity())
	assert.InDelta(t, 202.0/365.0, spec.TimeToMaturity(), 1e-15)
	assert.InDelta(t, math.Exp(-0.0025*202.0/365.0), spec.DiscountFactor(), 1e-15)
	assert.InDelta(t, 0.3313467219616591, spec.D1(), 1e-12)
	assert.InDelta(t, -0.19550108294431806, spec.D2(), 1e-12)
}

func TestOptionSpec_DayCountIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	maturity := time.Date(2024, 3, 31, 0, 1, 0, 0, time.UTC)
	spec, err := NewOptionSpec(Put, 10, 10, start, maturity, 0.1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, spec.DaysToMaturity())
}

func TestOptionSpec_DayCountBeyondDurationRange(t *testing.T) {
	// 400 Gregorian years, longer than a time.Duration can hold.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	maturity := time.Date(2424, 1, 1, 0, 0, 0, 0, time.UTC)
	spec, err := NewOptionSpec(Call, 100, 100, start, maturity, 0.2, 0.01, 0)
	require.NoError(t, err)
	assert.Equal(t, 146097, spec.DaysToMaturity())
	assert.InDelta(t, 146097.0/365, spec.TimeToMaturity(), 1e-12)

	result, err := NewBlackScholesMerton().Evaluate(spec)
	require.NoError(t, err)
	assert.Greater(t, result.Price, 0.0)
	assert.LessOrEqual(t, result.Price, 100.0)
}

func TestOptionSpec_WithCopiesAreIndependent(t *testing.T) {
	spec := mustSpec(t, Call, 100, 100, 30, 0.2, 0.01)

	put, err := spec.WithKind(Put)
	require.NoError(t, err)
	assert.Equal(t, Call, spec.Kind())
	assert.Equal(t, Put, put.Kind())

	higher, err := spec.WithSpot(120)
	require.NoError(t, err)
	assert.Equal(t, 100.0, spec.Spot())
	assert.Equal(t, 120.0, higher.Spot())

	_, err = spec.WithSigma(0)
	assert.ErrorIs(t, err, ErrInvalidVolatility)
	_, err = spec.WithStrike(-5)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestOptionSpec_DividendIsInert(t *testing.T) {
	plain := mustSpec(t, Call, 100, 100, 180, 0.3, 0.02)
	withDividend, err := NewOptionSpec(Call, 100, 100, testStart,
		testStart.AddDate(0, 0, 180), 0.3, 0.02, 0.04)
	require.NoError(t, err)
	assert.Equal(t, 0.04, withDividend.Dividend())

	assert.Equal(t, mustEvaluate(t, plain), mustEvaluate(t, withDividend))
}
