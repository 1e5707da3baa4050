package flow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeRunSucceedsWithoutRetry(t *testing.T) {
	shared := NewSharedState()
	node := NewNode()
	attempts := 0
	node.ExecFunc = func(prep interface{}) (interface{}, error) {
		attempts++
		return "success", nil
	}
	node.PostFunc = func(shared *SharedState, prep, exec interface{}) string {
		return exec.(string)
	}

	action, err := node.Run(shared)
	require.NoError(t, err)
	assert.Equal(t, "success", action)
	assert.Equal(t, 1, attempts)
}

func TestNodeRetryExhaustionReturnsError(t *testing.T) {
	shared := NewSharedState()
	node := NewNode()
	node.MaxRetries = 3
	attempts := 0
	node.ExecFunc = func(prep interface{}) (interface{}, error) {
		attempts++
		return nil, errors.New("always fails")
	}

	_, err := node.Run(shared)
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestNodeFallbackRunsAfterExhaustion(t *testing.T) {
	shared := NewSharedState()
	node := NewNode()
	node.MaxRetries = 2
	attempts := 0
	node.ExecFunc = func(prep interface{}) (interface{}, error) {
		attempts++
		return nil, errors.New("fails")
	}
	node.FallbackFunc = func(prep interface{}, err error) (interface{}, error) {
		return "fallback_result", nil
	}
	node.PostFunc = func(shared *SharedState, prep, exec interface{}) string {
		return exec.(string)
	}

	action, err := node.Run(shared)
	require.NoError(t, err)
	assert.Equal(t, "fallback_result", action)
	assert.Equal(t, 2, attempts)
}

func TestNodeRetryWaitsBetweenAttempts(t *testing.T) {
	shared := NewSharedState()
	node := NewNode()
	node.MaxRetries = 3
	node.Wait = 50 * time.Millisecond
	attempts := 0
	node.ExecFunc = func(prep interface{}) (interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("retry needed")
		}
		return "success", nil
	}

	start := time.Now()
	_, err := node.Run(shared)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}

func TestNodeNoFallbackPropagatesLastError(t *testing.T) {
	shared := NewSharedState()
	node := NewNode()
	sentinel := errors.New("no fallback configured")
	node.ExecFunc = func(prep interface{}) (interface{}, error) {
		return nil, sentinel
	}

	_, err := node.Run(shared)
	assert.ErrorIs(t, err, sentinel)
}

func TestNodeCurrentRetryObservableFromExec(t *testing.T) {
	shared := NewSharedState()
	node := NewNode()
	node.MaxRetries = 4
	var seen []int
	node.ExecFunc = func(prep interface{}) (interface{}, error) {
		seen = append(seen, node.CurrentRetry())
		if node.CurrentRetry() < 3 {
			return nil, errors.New("retry")
		}
		return "success", nil
	}

	action, err := node.Run(shared)
	require.NoError(t, err)
	assert.Equal(t, "default", action)
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
}

func TestNodeClonePreservesSuccessorsIsolatesParams(t *testing.T) {
	node := NewNode()
	successor := NewNode()
	node.Connect(successor)
	node.SetParams(Params{"shared": true})

	cloned := node.clone()
	cloned.SetParams(Params{"shared": false})

	assert.True(t, node.HasSuccessors())
	assert.True(t, cloned.HasSuccessors())
	assert.Equal(t, true, node.Params()["shared"])
	assert.Equal(t, false, cloned.Params()["shared"])
}
