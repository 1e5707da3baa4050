package flow

import "context"

// asyncRunner is satisfied by any node whose async lifecycle can be
// invoked directly, letting AsyncFlow dispatch without type-switching over
// every concrete async node type.
type asyncRunner interface {
	RunAsync(ctx context.Context, shared *SharedState) (string, error)
}

// runNodeAsync runs n under ctx: if n supports the async lifecycle, that
// lifecycle runs; otherwise n's synchronous Run runs inline. This is how a
// graph can freely mix Node/BatchNode alongside AsyncNode/AsyncBatchNode
// under a single AsyncFlow.
func runNodeAsync(ctx context.Context, n Node, shared *SharedState) (string, error) {
	if runner, ok := n.(asyncRunner); ok {
		return runner.RunAsync(ctx, shared)
	}
	return n.Run(shared)
}

// AsyncFlow is the cooperative-concurrency counterpart to Flow: it walks
// the same kind of graph, but awaits each node under ctx and can therefore
// contain AsyncNode/AsyncBatchNode/AsyncParallelBatchNode successors as
// well as ordinary synchronous ones.
type AsyncFlow struct {
	BaseNode

	// Start is the node an async run begins at.
	Start Node

	// PrepAsyncFunc and PostAsyncFunc are AsyncFlow's own prep/post hooks —
	// the ctx-aware counterparts of BaseNode's PrepFunc/PostFunc, invoked
	// once per RunAsync around the subgraph walk rather than per node.
	// Optional; default to no-op and to returning the subgraph's final
	// action unchanged.
	PrepAsyncFunc func(ctx context.Context, shared *SharedState) (interface{}, error)
	PostAsyncFunc func(ctx context.Context, shared *SharedState, prep interface{}, exec interface{}) (string, error)
}

// NewAsyncFlow returns an AsyncFlow beginning at start.
func NewAsyncFlow(start Node) *AsyncFlow {
	return &AsyncFlow{BaseNode: newBaseNode(), Start: start}
}

// Run implements Node by rejecting the synchronous lifecycle.
func (f *AsyncFlow) Run(shared *SharedState) (string, error) {
	return "", ErrAsyncOnly
}

// RunAsync implements the async lifecycle: calls PrepAsyncFunc (default
// no-op), walks the graph from Start, then calls PostAsyncFunc with the
// prep result and the subgraph's final action. ExecFunc has no meaning on a
// Flow; setting it is a programming error reported as ErrFlowExecForbidden.
func (f *AsyncFlow) RunAsync(ctx context.Context, shared *SharedState) (string, error) {
	if f.ExecFunc != nil {
		return "", ErrFlowExecForbidden
	}

	var prep interface{}
	if f.PrepAsyncFunc != nil {
		var err error
		prep, err = f.PrepAsyncFunc(ctx, shared)
		if err != nil {
			return "", err
		}
	}

	action, err := f.orchestrate(ctx, shared, f.Params())
	if err != nil {
		return "", err
	}

	if f.PostAsyncFunc != nil {
		action, err = f.PostAsyncFunc(ctx, shared, prep, action)
		if err != nil {
			return "", err
		}
	}
	return normalizeAction(action), nil
}

func (f *AsyncFlow) orchestrate(ctx context.Context, shared *SharedState, params Params) (string, error) {
	current := f.Start
	if current == nil {
		return DefaultAction, nil
	}

	lastAction := DefaultAction
	for current != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		node := current.clone()
		node.SetParams(mergeParams(node.Params(), params))

		action, err := runNodeAsync(ctx, node, shared)
		if err != nil {
			return "", err
		}
		lastAction = action

		next := current.Successor(action)
		if next == nil && current.HasSuccessors() {
			f.warn("no successor for action %q; ending this branch", action)
		}
		current = next
	}
	return lastAction, nil
}

func (f *AsyncFlow) clone() Node {
	cp := *f
	return &cp
}
