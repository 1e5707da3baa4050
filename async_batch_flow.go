package flow

import "context"

// AsyncBatchFlow runs its embedded AsyncFlow once per element of
// BatchPrepAsyncFunc's result, sequentially awaiting each run before
// starting the next.
type AsyncBatchFlow struct {
	AsyncFlow

	BatchPrepAsyncFunc func(ctx context.Context, shared *SharedState) ([]Params, error)
	BatchPostAsyncFunc func(ctx context.Context, shared *SharedState, prep []Params) (string, error)
}

// NewAsyncBatchFlow returns an AsyncBatchFlow beginning at start.
func NewAsyncBatchFlow(start Node) *AsyncBatchFlow {
	return &AsyncBatchFlow{AsyncFlow: *NewAsyncFlow(start)}
}

// RunAsync implements the async lifecycle. BatchPrepAsyncFunc/
// BatchPostAsyncFunc are this flow's own prep/post; the plain PrepFunc/
// PostFunc/PrepAsyncFunc/PostAsyncFunc inherited from AsyncFlow/BaseNode do
// not apply and are warned about if set. ExecFunc has no meaning on any
// Flow and is a programming error.
func (bf *AsyncBatchFlow) RunAsync(ctx context.Context, shared *SharedState) (string, error) {
	if bf.ExecFunc != nil {
		return "", ErrFlowExecForbidden
	}
	if bf.PrepFunc != nil || bf.PostFunc != nil || bf.PrepAsyncFunc != nil || bf.PostAsyncFunc != nil {
		bf.warn("AsyncBatchFlow ignores PrepFunc/PostFunc/PrepAsyncFunc/PostAsyncFunc; use BatchPrepAsyncFunc/BatchPostAsyncFunc instead")
	}

	var prep []Params
	if bf.BatchPrepAsyncFunc != nil {
		var err error
		prep, err = bf.BatchPrepAsyncFunc(ctx, shared)
		if err != nil {
			return "", err
		}
	}

	for _, itemParams := range prep {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		runParams := mergeParams(bf.Params(), itemParams)
		if _, err := bf.orchestrate(ctx, shared, runParams); err != nil {
			return "", err
		}
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

func (bf *AsyncBatchFlow) clone() Node {
	cp := *bf
	return &cp
}
