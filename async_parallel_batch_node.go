package flow

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// AsyncParallelBatchNode runs BatchExecAsync concurrently across every prep
// element, preserving result order despite completing out of order. The
// first element to return an error cancels the remaining in-flight work via
// ctx, and that error is returned from RunAsync (the errgroup.Group
// pattern used elsewhere in this ecosystem for bounded fan-out with
// first-error cancellation).
type AsyncParallelBatchNode struct {
	BaseNode

	MaxRetries int
	Wait       time.Duration

	PrepAsyncFunc  func(ctx context.Context, shared *SharedState) (interface{}, error)
	BatchExecAsync func(ctx context.Context, item interface{}) (interface{}, error)
	// FallbackAsyncFunc runs once per element whose attempts were all
	// exhausted. It is invoked from that element's own goroutine.
	FallbackAsyncFunc func(ctx context.Context, item interface{}, err error) (interface{}, error)
	BatchPostAsync     func(ctx context.Context, shared *SharedState, prep interface{}, results []interface{}) (string, error)

	// Concurrency caps the number of elements executed at once. Zero or
	// negative means unbounded (one goroutine per element).
	Concurrency int
}

// NewAsyncParallelBatchNode returns an AsyncParallelBatchNode with
// MaxRetries 1 (no retry), no wait, and unbounded concurrency.
func NewAsyncParallelBatchNode() *AsyncParallelBatchNode {
	return &AsyncParallelBatchNode{BaseNode: newBaseNode(), MaxRetries: 1}
}

// Run implements Node by rejecting the synchronous lifecycle.
func (b *AsyncParallelBatchNode) Run(shared *SharedState) (string, error) {
	return "", ErrAsyncOnly
}

// RunAsync implements the async lifecycle, fanning Exec out across all
// prep elements concurrently.
func (b *AsyncParallelBatchNode) RunAsync(ctx context.Context, shared *SharedState) (string, error) {
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

	g, gctx := errgroup.WithContext(ctx)
	if b.Concurrency > 0 {
		g.SetLimit(b.Concurrency)
	}

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			// Each goroutine tracks its own attempt index; sharing one
			// field across concurrent elements would race.
			var attempt int
			res, err := execAsyncItemWithRetry(
				gctx, b.MaxRetries, b.Wait,
				b.wrapExec(), b.wrapFallback(),
				item, &attempt,
			)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
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

func (b *AsyncParallelBatchNode) wrapExec() func(context.Context, interface{}) (interface{}, error) {
	if b.BatchExecAsync == nil {
		return nil
	}
	return b.BatchExecAsync
}

func (b *AsyncParallelBatchNode) wrapFallback() func(context.Context, interface{}, error) (interface{}, error) {
	if b.FallbackAsyncFunc == nil {
		return nil
	}
	return b.FallbackAsyncFunc
}

func (b *AsyncParallelBatchNode) clone() Node {
	cp := *b
	return &cp
}
