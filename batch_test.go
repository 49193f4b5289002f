package bsm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateBatch(t *testing.T) {
	model := NewBlackScholesMerton()
	specs := []OptionSpec{
		mustSpec(t, Call, 66.24, 64, 202, 0.7082, 0.0025),
		{},
		mustSpec(t, Put, 66.24, 64, 202, 0.7082, 0.0025),
		mustSpec(t, Call, 100, 110, 30, 0.2, 0.05),
	}

	for _, workers := range []int{1, 3, 16} {
		rows, err := EvaluateBatch(context.Background(), model, specs, workers)
		require.NoError(t, err)
		require.Len(t, rows, len(specs))

		for ii, row := range rows {
			assert.Equal(t, ii, row.Index)
			if ii == 1 {
				assert.ErrorIs(t, row.Err, ErrUnknownOptionKind)
				assert.Equal(t, PricingResult{}, row.Result)
				continue
			}
			require.NoError(t, row.Err)
			assert.Equal(t, mustEvaluate(t, specs[ii]), row.Result)
		}
	}
}

func TestEvaluateBatch_NonPositiveWorkers(t *testing.T) {
	specs := []OptionSpec{mustSpec(t, Call, 100, 100, 90, 0.2, 0.01)}
	rows, err := EvaluateBatch(context.Background(), NewBlackScholesMerton(), specs, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NoError(t, rows[0].Err)
}

func TestEvaluateBatch_Empty(t *testing.T) {
	rows, err := EvaluateBatch(context.Background(), NewBlackScholesMerton(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEvaluateBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	specs := []OptionSpec{mustSpec(t, Call, 100, 100, 90, 0.2, 0.01)}
	_, err := EvaluateBatch(ctx, NewBlackScholesMerton(), specs, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
