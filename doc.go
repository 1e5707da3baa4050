// Package flow is a minimalist graph-based workflow runtime.
//
// An application expresses computation as a directed graph of nodes whose
// edges are labeled with action strings. Each node follows a three-phase
// lifecycle — Prep, Exec, Post — threaded through a single shared, mutable
// context (*SharedState). A Flow walks the graph starting from a node,
// following the action string returned by each node's Post phase to decide
// which node runs next; a missing action for the current node ends that
// branch.
//
// Four execution modes share the same graph grammar:
//
//   - Node runs synchronously with bounded retry-with-backoff around Exec.
//   - BatchNode adapts a Node so Exec runs once per element of Prep's
//     ordered result, sequentially, preserving order.
//   - AsyncNode / AsyncBatchNode / AsyncParallelBatchNode are cooperative
//     variants: sequential await, or concurrent fan-out with
//     order-preserving results and first-error cancellation.
//   - Flow / BatchFlow / AsyncFlow / AsyncBatchFlow / AsyncParallelBatchFlow
//     are the corresponding orchestrators; a Flow is itself a Node, so a
//     subgraph can be nested inside a larger graph.
//
// Durable persistence, distributed execution, and cycle detection are
// explicitly out of scope: graphs may contain cycles, bounded only by nodes
// eventually returning an action with no successor.
package flow
