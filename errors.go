package flow

import "errors"

var (
	// ErrAsyncOnly is returned when Run is called on a node that only
	// implements the async lifecycle. Calling the synchronous entry point
	// on such a node is a programming error, not a recoverable failure.
	ErrAsyncOnly = errors.New("flow: this node only supports RunAsync; Run is a programming error")

	// ErrFlowExecForbidden is returned by Run/RunAsync on any Flow variant
	// whose ExecFunc has been set. A Flow's execute phase is "walk my
	// subgraph to completion"; ExecFunc is a BaseNode field that has no
	// meaning for an orchestrator, so setting it is a programming error
	// rather than a silently ignored no-op.
	ErrFlowExecForbidden = errors.New("flow: a Flow's ExecFunc must not be set; its execute phase is walking its subgraph")
)
