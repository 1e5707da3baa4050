package flow

import "time"

// BatchNode adapts Node so Exec runs once per element of Prep's ordered
// result, sequentially, preserving order; retry-with-backoff applies
// independently to each element. Post receives the full input slice
// alongside the slice of per-element results, in prep order.
type BatchNode struct {
	BaseNode

	MaxRetries int
	Wait       time.Duration
	// BatchExecFunc runs once per prep element, taking the place of
	// BaseNode.ExecFunc (which BatchNode never calls directly).
	BatchExecFunc func(item interface{}) (interface{}, error)
	// FallbackFunc runs once per element whose attempts were all
	// exhausted, in place of propagating that element's error.
	FallbackFunc func(item interface{}, err error) (interface{}, error)
	// BatchPostFunc receives prep's result and the parallel slice of
	// per-element exec results, in Post's usual role of picking the next
	// action. Takes the place of BaseNode.PostFunc.
	BatchPostFunc func(shared *SharedState, prep interface{}, results []interface{}) string

	currentRetry int
}

// NewBatchNode returns a BatchNode with MaxRetries 1 (no retry) and no
// wait.
func NewBatchNode() *BatchNode {
	return &BatchNode{BaseNode: newBaseNode(), MaxRetries: 1}
}

// CurrentRetry returns the zero-based attempt index of the element
// currently (or most recently) being executed.
func (b *BatchNode) CurrentRetry() int { return b.currentRetry }

// Run implements Node.
func (b *BatchNode) Run(shared *SharedState) (string, error) {
	if b.HasSuccessors() {
		b.warn("Run called directly on a node with successors; use a Flow to reach them")
	}
	var prep interface{}
	if b.PrepFunc != nil {
		prep = b.PrepFunc(shared)
	}

	items := toSlice(prep)
	results := make([]interface{}, len(items))
	for i, item := range items {
		res, err := execItemWithRetry(
			b.MaxRetries, b.Wait,
			b.wrapExec(), b.wrapFallback(),
			item, &b.currentRetry,
		)
		if err != nil {
			return "", err
		}
		results[i] = res
	}

	action := DefaultAction
	if b.BatchPostFunc != nil {
		action = b.BatchPostFunc(shared, prep, results)
	}
	return normalizeAction(action), nil
}

func (b *BatchNode) wrapExec() func(interface{}) (interface{}, error) {
	if b.BatchExecFunc == nil {
		return nil
	}
	return b.BatchExecFunc
}

func (b *BatchNode) wrapFallback() func(interface{}, error) (interface{}, error) {
	if b.FallbackFunc == nil {
		return nil
	}
	return b.FallbackFunc
}

func (b *BatchNode) clone() Node {
	cp := *b
	return &cp
}
