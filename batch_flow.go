package flow

// BatchFlow runs its embedded Flow once per element of Prep's result, each
// run getting that element merged over the flow's own params — useful for
// driving the same subgraph over many parameter sets (e.g. one file path
// per run). Each run gets a fresh clone of the Start node, so state from
// one iteration never leaks into the next.
type BatchFlow struct {
	Flow

	// BatchPrepFunc returns the ordered slice of per-run param overrides.
	// Each element is merged over the flow's own params as that run's
	// params. Optional; a nil result runs zero iterations.
	BatchPrepFunc func(shared *SharedState) []Params
	// BatchPostFunc runs once after every iteration completes, seeing the
	// original prep result (not the per-run exec outputs, which a batch
	// flow does not collect — each run's Post already acted on shared).
	BatchPostFunc func(shared *SharedState, prep []Params) string
}

// NewBatchFlow returns a BatchFlow beginning at start.
func NewBatchFlow(start Node) *BatchFlow {
	return &BatchFlow{Flow: *NewFlow(start)}
}

// Run implements Node. BatchPrepFunc/BatchPostFunc are BatchFlow's own
// prep/post (§4.5: "a Flow whose own prep returns a sequence of parameter
// records"); the plain PrepFunc/PostFunc inherited from Flow/BaseNode do
// not apply here and are warned about if set. ExecFunc has no meaning on
// any Flow and is a programming error.
func (bf *BatchFlow) Run(shared *SharedState) (string, error) {
	if bf.ExecFunc != nil {
		return "", ErrFlowExecForbidden
	}
	if bf.PrepFunc != nil || bf.PostFunc != nil {
		bf.warn("BatchFlow ignores PrepFunc/PostFunc; use BatchPrepFunc/BatchPostFunc instead")
	}

	var prep []Params
	if bf.BatchPrepFunc != nil {
		prep = bf.BatchPrepFunc(shared)
	}

	for _, itemParams := range prep {
		runParams := mergeParams(bf.Params(), itemParams)
		if _, err := bf.orchestrate(shared, runParams); err != nil {
			return "", err
		}
	}

	action := DefaultAction
	if bf.BatchPostFunc != nil {
		action = bf.BatchPostFunc(shared, prep)
	}
	return normalizeAction(action), nil
}

func (bf *BatchFlow) clone() Node {
	cp := *bf
	return &cp
}
