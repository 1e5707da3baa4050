package nodes

import (
	"fmt"

	"github.com/tidwall/gjson"

	flow "github.com/joemocha/pocketflow-go"
)

// JSONExtractNode walks "documents" (a []string of raw JSON bodies) and
// pulls FieldPath out of each with gjson, storing the ordered results
// under "extracted". A document missing the path yields nil for that
// position rather than aborting the batch.
type JSONExtractNode struct {
	*flow.BatchNode

	FieldPath string
}

// NewJSONExtractNode returns a JSONExtractNode reading path from each
// document.
func NewJSONExtractNode(path string) *JSONExtractNode {
	n := &JSONExtractNode{BatchNode: flow.NewBatchNode(), FieldPath: path}
	n.PrepFunc = func(shared *flow.SharedState) interface{} {
		return shared.Get("documents")
	}
	n.BatchExecFunc = n.extract
	n.BatchPostFunc = func(shared *flow.SharedState, prep interface{}, results []interface{}) string {
		shared.Set("extracted", results)
		return flow.DefaultAction
	}
	return n
}

func (n *JSONExtractNode) extract(item interface{}) (interface{}, error) {
	doc, ok := item.(string)
	if !ok {
		return nil, fmt.Errorf("nodes: document must be a raw JSON string, got %T", item)
	}
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("nodes: invalid JSON document")
	}
	result := gjson.Get(doc, n.FieldPath)
	if !result.Exists() {
		return nil, nil
	}
	return result.Value(), nil
}
