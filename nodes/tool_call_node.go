package nodes

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	flow "github.com/joemocha/pocketflow-go"
)

// ToolCallNode invokes a single external HTTP tool: it builds a JSON
// request body by setting Args onto a base template with sjson, POSTs it
// to Endpoint, and reads ResultPath out of the JSON response with gjson —
// standing in for the generic "tool adapter" collaborator the runtime
// treats as external.
type ToolCallNode struct {
	*flow.AsyncNode

	Endpoint    string
	RequestBase string
	Args        map[string]interface{}
	ResultPath  string
	HTTPClient  *http.Client
}

// NewToolCallNode returns a ToolCallNode with retry enabled, since tool
// endpoints are expected to fail transiently.
func NewToolCallNode(endpoint, resultPath string) *ToolCallNode {
	n := &ToolCallNode{
		AsyncNode:   flow.NewAsyncNode(),
		Endpoint:    endpoint,
		RequestBase: "{}",
		ResultPath:  resultPath,
		HTTPClient:  http.DefaultClient,
	}
	n.MaxRetries = 3
	n.ExecAsyncFunc = n.call
	return n
}

func (n *ToolCallNode) call(ctx context.Context, prep interface{}) (interface{}, error) {
	body := n.RequestBase
	var err error
	for key, value := range n.Args {
		body, err = sjson.Set(body, key, value)
		if err != nil {
			return nil, fmt.Errorf("nodes: building tool request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Endpoint, bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("nodes: building tool request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nodes: tool call failed: %w", err)
	}
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("nodes: reading tool response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("nodes: tool call returned status %d", resp.StatusCode)
	}

	result := gjson.Get(buf.String(), n.ResultPath)
	if !result.Exists() {
		return nil, fmt.Errorf("nodes: tool response missing field %q", n.ResultPath)
	}
	return result.Value(), nil
}
