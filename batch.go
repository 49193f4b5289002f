package bsm

import (
	"context"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// BatchRow pairs one input spec with its result. Err is set, and Result left
// zero, when the spec failed validation.
type BatchRow struct {
	Index  int
	Spec   OptionSpec
	Result PricingResult
	Err    error
}

// EvaluateBatch prices specs on at most workers goroutines. Rows come back in
// input order. A row that fails validation records its error and does not stop
// the others; only context cancellation aborts the batch.
func EvaluateBatch(
	ctx context.Context,
	model PricingModel,
	specs []OptionSpec,
	workers int) ([]BatchRow, error) {

	if workers <= 0 {
		workers = 1
	}
	rows := make([]BatchRow, len(specs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for ii := range specs {
		ii := ii
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result, err := model.Evaluate(specs[ii])
			rows[ii] = BatchRow{
				Index:  ii,
				Spec:   specs[ii],
				Result: result,
				Err:    err,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		glog.Error("Batch evaluation aborted. ", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	glog.V(1).Infof("Evaluated %d specs with %s", len(rows), model.Name())
	return rows, nil
}
