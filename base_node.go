package flow

// Node is the contract every graph-wiring participant satisfies: BaseNode,
// Node (retrying), BatchNode, Flow, BatchFlow, and their async counterparts
// all implement it, so any of them can be a successor of any other.
//
// clone is unexported: only this package defines node variants able to
// produce the per-visit shallow copy the orchestrator needs (§3, Node
// identity & reuse). Embedding one of this package's node types gives an
// external type a correct clone for free via method promotion.
type Node interface {
	// Run executes this node's full Prep -> Exec -> Post lifecycle once,
	// synchronously, and returns the action Post produced (normalized).
	// Nodes that only support the async lifecycle return ErrAsyncOnly.
	Run(shared *SharedState) (string, error)

	// Connect records the default-action edge to successor, returning
	// successor so edges can be chained: a.Connect(b).Connect(c).
	Connect(successor Node) Node
	// ConnectOn records the action edge to successor. Overwriting an
	// existing action emits a non-fatal warning; the new successor wins.
	ConnectOn(action string, successor Node) Node
	// Successor returns the node wired to action, or nil.
	Successor(action string) Node
	// HasSuccessors reports whether any edge has been recorded.
	HasSuccessors() bool
	// Actions returns the recorded action strings, for diagnostics.
	Actions() []string

	// SetParams replaces this node's params mapping.
	SetParams(p Params)
	// Params returns this node's current params mapping.
	Params() Params

	// SetLogger overrides the diagnostic channel used for warnings.
	SetLogger(l Logger)

	clone() Node
}

// BaseNode supplies the edge table, params, and warning plumbing shared by
// every node variant, plus a no-retry Prep/Exec/Post lifecycle driven by
// optional function fields. It is usable standalone for the simplest case
// (no retry, no batching) or embedded by Node, Flow, and the async variants,
// which each define their own Run to layer retry, batching, or
// orchestration on top.
type BaseNode struct {
	successors map[string]Node
	params     Params
	logger     Logger

	// PrepFunc reads shared and returns a prep result; optional, defaults
	// to returning nil.
	PrepFunc func(shared *SharedState) interface{}
	// ExecFunc is this node's work, seeing only the prep result; optional,
	// defaults to a no-op.
	ExecFunc func(prep interface{}) (interface{}, error)
	// PostFunc mutates shared and returns the next action; optional,
	// defaults to DefaultAction.
	PostFunc func(shared *SharedState, prep interface{}, exec interface{}) string
}

// NewBaseNode returns an empty, ready-to-use BaseNode.
func NewBaseNode() *BaseNode {
	n := newBaseNode()
	return &n
}

func newBaseNode() BaseNode {
	return BaseNode{successors: make(map[string]Node)}
}

func (b *BaseNode) warn(format string, args ...interface{}) {
	logger := b.logger
	if logger == nil {
		logger = DefaultLogger
	}
	logger.Warnf(format, args...)
}

// SetLogger implements Node.
func (b *BaseNode) SetLogger(l Logger) { b.logger = l }

// SetParams implements Node.
func (b *BaseNode) SetParams(p Params) { b.params = p }

// Params implements Node.
func (b *BaseNode) Params() Params { return b.params }

// Connect implements Node.
func (b *BaseNode) Connect(successor Node) Node {
	return b.ConnectOn(DefaultAction, successor)
}

// ConnectOn implements Node.
func (b *BaseNode) ConnectOn(action string, successor Node) Node {
	if action == "" {
		action = DefaultAction
	}
	if b.successors == nil {
		b.successors = make(map[string]Node)
	}
	if _, exists := b.successors[action]; exists {
		b.warn("overwriting existing successor for action %q", action)
	}
	b.successors[action] = successor
	return successor
}

// Successor implements Node.
func (b *BaseNode) Successor(action string) Node {
	if action == "" {
		action = DefaultAction
	}
	return b.successors[action]
}

// HasSuccessors implements Node.
func (b *BaseNode) HasSuccessors() bool { return len(b.successors) > 0 }

// Actions implements Node.
func (b *BaseNode) Actions() []string {
	keys := make([]string, 0, len(b.successors))
	for k := range b.successors {
		keys = append(keys, k)
	}
	return keys
}

// Run implements Node: the plain prep -> exec -> post lifecycle with no
// retry. It is intended for unit-testing a single node; a node with
// successors needs a Flow to actually reach them, so calling Run directly
// on one emits a warning.
func (b *BaseNode) Run(shared *SharedState) (string, error) {
	if b.HasSuccessors() {
		b.warn("Run called directly on a node with successors; use a Flow to reach them")
	}
	var prep interface{}
	if b.PrepFunc != nil {
		prep = b.PrepFunc(shared)
	}
	var exec interface{}
	if b.ExecFunc != nil {
		var err error
		exec, err = b.ExecFunc(prep)
		if err != nil {
			return "", err
		}
	}
	action := DefaultAction
	if b.PostFunc != nil {
		action = b.PostFunc(shared, prep, exec)
	}
	return normalizeAction(action), nil
}

func (b *BaseNode) clone() Node {
	cp := *b
	return &cp
}
