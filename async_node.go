package flow

import (
	"context"
	"time"
)

// AsyncNode is the cooperative-concurrency counterpart to Node: the same
// bounded retry-with-backoff around Exec, but every phase takes a context
// and can suspend on I/O without blocking an OS thread. AsyncNode does not
// support the synchronous Run lifecycle; calling it is a programming error
// and returns ErrAsyncOnly.
type AsyncNode struct {
	BaseNode

	MaxRetries int
	Wait       time.Duration

	// PrepAsyncFunc, ExecAsyncFunc and PostAsyncFunc take the place of
	// BaseNode's PrepFunc/ExecFunc/PostFunc for the async lifecycle.
	PrepAsyncFunc func(ctx context.Context, shared *SharedState) (interface{}, error)
	ExecAsyncFunc func(ctx context.Context, prep interface{}) (interface{}, error)
	PostAsyncFunc func(ctx context.Context, shared *SharedState, prep interface{}, exec interface{}) (string, error)
	// FallbackAsyncFunc runs once, after every Exec attempt has failed, in
	// place of propagating the error.
	FallbackAsyncFunc func(ctx context.Context, prep interface{}, err error) (interface{}, error)

	currentRetry int
}

// NewAsyncNode returns an AsyncNode with MaxRetries 1 (no retry) and no
// wait.
func NewAsyncNode() *AsyncNode {
	return &AsyncNode{BaseNode: newBaseNode(), MaxRetries: 1}
}

// CurrentRetry returns the zero-based index of the attempt currently (or
// most recently) in flight.
func (n *AsyncNode) CurrentRetry() int { return n.currentRetry }

// Run implements Node by rejecting the synchronous lifecycle.
func (n *AsyncNode) Run(shared *SharedState) (string, error) {
	return "", ErrAsyncOnly
}

// RunAsync executes this node's full Prep -> Exec -> Post lifecycle once,
// under ctx, returning the action Post produced (normalized).
func (n *AsyncNode) RunAsync(ctx context.Context, shared *SharedState) (string, error) {
	if n.HasSuccessors() {
		n.warn("RunAsync called directly on a node with successors; use an AsyncFlow to reach them")
	}
	var prep interface{}
	if n.PrepAsyncFunc != nil {
		var err error
		prep, err = n.PrepAsyncFunc(ctx, shared)
		if err != nil {
			return "", err
		}
	}

	exec, err := execAsyncItemWithRetry(
		ctx, n.MaxRetries, n.Wait,
		n.wrapExec(), n.wrapFallback(),
		prep, &n.currentRetry,
	)
	if err != nil {
		return "", err
	}

	action := DefaultAction
	if n.PostAsyncFunc != nil {
		action, err = n.PostAsyncFunc(ctx, shared, prep, exec)
		if err != nil {
			return "", err
		}
	}
	return normalizeAction(action), nil
}

func (n *AsyncNode) wrapExec() func(context.Context, interface{}) (interface{}, error) {
	if n.ExecAsyncFunc == nil {
		return nil
	}
	return n.ExecAsyncFunc
}

func (n *AsyncNode) wrapFallback() func(context.Context, interface{}, error) (interface{}, error) {
	if n.FallbackAsyncFunc == nil {
		return nil
	}
	return n.FallbackAsyncFunc
}

func (n *AsyncNode) clone() Node {
	cp := *n
	return &cp
}
