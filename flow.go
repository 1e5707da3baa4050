package flow

// Flow orchestrates a graph of nodes: starting at Start, it clones and runs
// the current node, looks up the action it returned in that node's edge
// table, and moves to the successor — ending when a node returns an action
// with no successor recorded. Flow embeds BaseNode and implements Node
// itself, so a Flow can be wired as a successor inside a larger graph
// (hierarchical composition, §3 of the original design): the outer Flow
// sees the inner Flow as an ordinary node whose Run walks its own subgraph.
type Flow struct {
	BaseNode

	// Start is the node a Run begins at. Nil means no node is visited: Run
	// still calls PrepFunc and PostFunc, with DefaultAction as the final
	// action.
	Start Node
}

// NewFlow returns a Flow beginning at start.
func NewFlow(start Node) *Flow {
	return &Flow{BaseNode: newBaseNode(), Start: start}
}

// Run implements Node: it calls the Flow's own PrepFunc (default no-op),
// walks the graph from Start to completion, then calls the Flow's own
// PostFunc with the prep result and the subgraph's final action, returning
// whatever PostFunc returns (default: the final action unchanged). A Flow's
// execute phase is "walk my subgraph"; ExecFunc has no meaning here, so
// setting it is a programming error and Run reports ErrFlowExecForbidden
// instead of silently ignoring it.
func (f *Flow) Run(shared *SharedState) (string, error) {
	if f.ExecFunc != nil {
		return "", ErrFlowExecForbidden
	}

	var prep interface{}
	if f.PrepFunc != nil {
		prep = f.PrepFunc(shared)
	}

	action, err := f.orchestrate(shared, f.Params())
	if err != nil {
		return "", err
	}

	if f.PostFunc != nil {
		action = f.PostFunc(shared, prep, action)
	}
	return normalizeAction(action), nil
}

// orchestrate runs the graph from Start, returning the final action. It is
// split out from Run so BatchFlow can invoke one iteration per batch
// parameter set without re-deriving the normalize-and-wrap boilerplate.
func (f *Flow) orchestrate(shared *SharedState, params Params) (string, error) {
	current := f.Start
	if current == nil {
		return DefaultAction, nil
	}

	lastAction := DefaultAction
	for current != nil {
		node := current.clone()
		node.SetParams(mergeParams(node.Params(), params))

		action, err := node.Run(shared)
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

func (f *Flow) clone() Node {
	cp := *f
	return &cp
}
