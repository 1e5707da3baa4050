package flow

import "time"

// Node adds bounded retry-with-backoff around BaseNode's Exec phase: Prep
// and Post each run once, but Exec runs up to MaxRetries times until it
// returns a nil error, waiting Wait between attempts. If every attempt
// fails, FallbackFunc (if set) produces a recovery result instead of
// propagating the last error.
type Node struct {
	BaseNode

	// MaxRetries bounds the number of Exec attempts; values less than 1
	// are treated as 1 (no retry).
	MaxRetries int
	// Wait is the delay between a failed attempt and the next one.
	Wait time.Duration
	// FallbackFunc runs once, after every Exec attempt has failed, in
	// place of propagating the error. A nil FallbackFunc means the last
	// attempt's error is returned from Run.
	FallbackFunc func(prep interface{}, err error) (interface{}, error)

	currentRetry int
}

// NewNode returns a Node with MaxRetries 1 (no retry) and no wait.
func NewNode() *Node {
	return &Node{BaseNode: newBaseNode(), MaxRetries: 1}
}

// CurrentRetry returns the zero-based index of the attempt currently (or
// most recently) in flight. Meaningful only from within ExecFunc or
// FallbackFunc during a synchronous Run.
func (n *Node) CurrentRetry() int { return n.currentRetry }

// Run implements Node.
func (n *Node) Run(shared *SharedState) (string, error) {
	if n.HasSuccessors() {
		n.warn("Run called directly on a node with successors; use a Flow to reach them")
	}
	var prep interface{}
	if n.PrepFunc != nil {
		prep = n.PrepFunc(shared)
	}

	exec, err := execItemWithRetry(
		n.MaxRetries, n.Wait,
		n.wrapExec(), n.wrapFallback(),
		prep, &n.currentRetry,
	)
	if err != nil {
		return "", err
	}

	action := DefaultAction
	if n.PostFunc != nil {
		action = n.PostFunc(shared, prep, exec)
	}
	return normalizeAction(action), nil
}

func (n *Node) wrapExec() func(interface{}) (interface{}, error) {
	if n.ExecFunc == nil {
		return nil
	}
	return n.ExecFunc
}

func (n *Node) wrapFallback() func(interface{}, error) (interface{}, error) {
	if n.FallbackFunc == nil {
		return nil
	}
	return n.FallbackFunc
}

func (n *Node) clone() Node {
	cp := *n
	return &cp
}
