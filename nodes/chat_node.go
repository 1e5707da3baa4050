// Package nodes collects reference domain nodes built on top of package
// flow. They are example wiring, not part of the runtime's contract: each
// demonstrates one of the node variants driving a concrete third-party
// client end to end.
package nodes

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	flow "github.com/joemocha/pocketflow-go"
)

// ChatNode sends its prep result, a []openai.ChatCompletionMessageParamUnion
// conversation, to a chat-completion model and returns the first choice's
// message as its exec result. NewChatNode installs only ExecFunc: no
// PrepFunc or PostFunc is set, so nothing is read from or written to shared
// state unless the caller supplies them.
type ChatNode struct {
	*flow.Node

	Client openai.Client
	Model  string
}

// NewChatNode returns a ChatNode with retry enabled, since chat-completion
// endpoints fail transiently under load.
func NewChatNode(client openai.Client, model string) *ChatNode {
	n := &ChatNode{Node: flow.NewNode(), Client: client, Model: model}
	n.MaxRetries = 3
	n.ExecFunc = n.call
	return n
}

func (n *ChatNode) call(prep interface{}) (interface{}, error) {
	history, _ := prep.([]openai.ChatCompletionMessageParamUnion)

	completion, err := n.Client.Chat.Completions.New(context.Background(), openai.ChatCompletionNewParams{
		Messages: history,
		Model:    n.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("nodes: chat completion failed: %w", err)
	}
	return completion.Choices[0].Message, nil
}
