package nodes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flow "github.com/joemocha/pocketflow-go"
)

func TestToolCallNodeBuildsRequestAndExtractsResult(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": {"answer": 42}}`))
	}))
	defer server.Close()

	node := NewToolCallNode(server.URL, "result.answer")
	node.Args = map[string]interface{}{"query": "life, the universe and everything"}
	var gotResult interface{}
	node.PostAsyncFunc = func(ctx context.Context, shared *flow.SharedState, prep, exec interface{}) (string, error) {
		gotResult = exec
		return flow.DefaultAction, nil
	}

	action, err := node.RunAsync(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "default", action)
	assert.Contains(t, gotBody, "life, the universe and everything")
	assert.Equal(t, float64(42), gotResult)
}

func TestToolCallNodeErrorsOnHTTPFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	node := NewToolCallNode(server.URL, "result")
	_, err := node.RunAsync(context.Background(), nil)
	assert.Error(t, err)
}

func TestToolCallNodeErrorsOnMissingResultField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"other": 1}`))
	}))
	defer server.Close()

	node := NewToolCallNode(server.URL, "result")
	_, err := node.RunAsync(context.Background(), nil)
	assert.Error(t, err)
}
