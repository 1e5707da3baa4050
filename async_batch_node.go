package flow

import (
	"context"
	"time"
)

// AsyncBatchNode runs BatchExecAsync once per prep element, sequentially,
// awaiting each before starting the next — the async counterpart to
// BatchNode. Use AsyncParallelBatchNode instead when elements are
// independent and can run concurrently.
type AsyncBatchNode struct {
	BaseNode

	MaxRetries int
	Wait       time.Duration

	PrepAsyncFunc     func(ctx context.Context, shared *SharedState) (interface{}, error)
	BatchExecAsync    func(ctx context.Context, item interface{}) (interface{}, error)
	FallbackAsyncFunc func(ctx context.Context, item interface{}, err error) (interface{}, error)
	BatchPostAsync    func(ctx context.Context, shared *SharedState, prep interface{}, results []interface{}) (string, error)

	currentRetry int
}

// NewAsyncBatchNode returns an AsyncBatchNode with MaxRetries 1 (no retry)
// and no wait.
func NewAsyncBatchNode() *AsyncBatchNode {
	return &AsyncBatchNode{BaseNode: newBaseNode(), MaxRetries: 1}
}

// CurrentRetry returns the zero-based attempt index of the element
// currently (or most recently) being executed.
func (b *AsyncBatchNode) CurrentRetry() int { return b.currentRetry }

// Run implements Node by rejecting the synchronous lifecycle.
func (b *AsyncBatchNode) Run(shared *SharedState) (string, error) {
	return "", ErrAsyncOnly
}

// RunAsync implements the async lifecycle.
func (b *AsyncBatchNode) RunAsync(ctx context.Context, shared *SharedState) (string, error) {
	if b.HasSuccessors() {
		b.warn("RunAsync called directly on a node with successors; use an AsyncFlow to reach them")
	}
	var prep interface{}
	if b.PrepAsyncFunc != nil {
		var err error
		prep, err = b.PrepAsyncFunc(ctx, shared)
		if err != nil {
			return "", err
		}
	}

	items := toSlice(prep)
	results := make([]interface{}, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		res, err := execAsyncItemWithRetry(
			ctx, b.MaxRetries, b.Wait,
			b.wrapExec(), b.wrapFallback(),
			item, &b.currentRetry,
		)
		if err != nil {
			return "", err
		}
		results[i] = res
	}

	action := DefaultAction
	if b.BatchPostAsync != nil {
		var err error
		action, err = b.BatchPostAsync(ctx, shared, prep, results)
		if err != nil {
			return "", err
		}
	}
	return normalizeAction(action), nil
}

func (b *AsyncBatchNode) wrapExec() func(context.Context, interface{}) (interface{}, error) {
	if b.BatchExecAsync == nil {
		return nil
	}
	return b.BatchExecAsync
}

func (b *AsyncBatchNode) wrapFallback() func(context.Context, interface{}, error) (interface{}, error) {
	if b.FallbackAsyncFunc == nil {
		return nil
	}
	return b.FallbackAsyncFunc
}

func (b *AsyncBatchNode) clone() Node {
	cp := *b
	return &cp
}
