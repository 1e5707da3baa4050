package nodes

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	flow "github.com/joemocha/pocketflow-go"
)

// EmbeddingNode reads "text" from shared state, embeds it with an
// embeddings-capable model, and stores the resulting vector under
// "embedding". Mirrors the cookbook's thin prep/exec/post EmbeddingNode,
// one tool call per node.
type EmbeddingNode struct {
	*flow.Node

	Client openai.Client
	Model  string
}

// NewEmbeddingNode returns an EmbeddingNode with retry enabled.
func NewEmbeddingNode(client openai.Client, model string) *EmbeddingNode {
	n := &EmbeddingNode{Node: flow.NewNode(), Client: client, Model: model}
	n.MaxRetries = 3
	n.PrepFunc = func(shared *flow.SharedState) interface{} {
		return shared.GetString("text")
	}
	n.ExecFunc = n.embed
	n.PostFunc = func(shared *flow.SharedState, prep, exec interface{}) string {
		shared.Set("embedding", exec)
		return flow.DefaultAction
	}
	return n
}

func (n *EmbeddingNode) embed(prep interface{}) (interface{}, error) {
	text, _ := prep.(string)
	if text == "" {
		return nil, fmt.Errorf("nodes: embedding requested for empty text")
	}

	resp, err := n.Client.Embeddings.New(context.Background(), openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: n.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("nodes: embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("nodes: embedding response contained no vectors")
	}
	return resp.Data[0].Embedding, nil
}
