package flow

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// AsyncParallelBatchFlow runs its embedded AsyncFlow concurrently once per
// element of BatchPrepAsyncFunc's result — the whole subgraph re-entered
// once per parameter set, all sets in flight at once, first error
// cancelling the rest.
type AsyncParallelBatchFlow struct {
	AsyncFlow

	BatchPrepAsyncFunc func(ctx context.Context, shared *SharedState) ([]Params, error)
	BatchPostAsyncFunc func(ctx context.Context, shared *SharedState, prep []Params) (string, error)

	// Concurrency caps the number of parameter sets run at once. Zero or
	// negative means unbounded.
	Concurrency int
}

// NewAsyncParallelBatchFlow returns an AsyncParallelBatchFlow beginning at
// start.
func NewAsyncParallelBatchFlow(start Node) *AsyncParallelBatchFlow {
	return &AsyncParallelBatchFlow{AsyncFlow: *NewAsyncFlow(start)}
}

// RunAsync implements the async lifecycle. BatchPrepAsyncFunc/
// BatchPostAsyncFunc are this flow's own prep/post; the plain PrepFunc/
// PostFunc/PrepAsyncFunc/PostAsyncFunc inherited from AsyncFlow/BaseNode do
// not apply and are warned about if set. ExecFunc has no meaning on any
// Flow and is a programming error.
func (bf *AsyncParallelBatchFlow) RunAsync(ctx context.Context, shared *SharedState) (string, error) {
	if bf.ExecFunc != nil {
		return "", ErrFlowExecForbidden
	}
	if bf.PrepFunc != nil || bf.PostFunc != nil || bf.PrepAsyncFunc != nil || bf.PostAsyncFunc != nil {
		bf.warn("AsyncParallelBatchFlow ignores PrepFunc/PostFunc/PrepAsyncFunc/PostAsyncFunc; use BatchPrepAsyncFunc/BatchPostAsyncFunc instead")
	}

	var prep []Params
	if bf.BatchPrepAsyncFunc != nil {
		var err error
		prep, err = bf.BatchPrepAsyncFunc(ctx, shared)
		if err != nil {
			return "", err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if bf.Concurrency > 0 {
		g.SetLimit(bf.Concurrency)
	}

	for _, itemParams := range prep {
		itemParams := itemParams
		runParams := mergeParams(bf.Params(), itemParams)
		g.Go(func() error {
			_, err := bf.orchestrate(gctx, shared, runParams)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	action := DefaultAction
	if bf.BatchPostAsyncFunc != nil {
		var err error
		action, err = bf.BatchPostAsyncFunc(ctx, shared, prep)
		if err != nil {
			return "", err
		}
	}
	return normalizeAction(action), nil
}

func (bf *AsyncParallelBatchFlow) clone() Node {
	cp := *bf
	return &cp
}
