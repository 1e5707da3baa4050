package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncNodeRunRejectsSyncLifecycle(t *testing.T) {
	node := NewAsyncNode()
	_, err := node.Run(NewSharedState())
	assert.ErrorIs(t, err, ErrAsyncOnly)
}

func TestAsyncNodeRunAsyncSucceeds(t *testing.T) {
	shared := NewSharedState()
	node := NewAsyncNode()
	node.ExecAsyncFunc = func(ctx context.Context, prep interface{}) (interface{}, error) {
		return "done", nil
	}
	node.PostAsyncFunc = func(ctx context.Context, shared *SharedState, prep, exec interface{}) (string, error) {
		return exec.(string), nil
	}

	action, err := node.RunAsync(context.Background(), shared)
	require.NoError(t, err)
	assert.Equal(t, "done", action)
}

func TestAsyncNodeRetryExhaustionReturnsError(t *testing.T) {
	shared := NewSharedState()
	node := NewAsyncNode()
	node.MaxRetries = 3
	attempts := 0
	node.ExecAsyncFunc = func(ctx context.Context, prep interface{}) (interface{}, error) {
		attempts++
		return nil, errors.New("always fails")
	}

	_, err := node.RunAsync(context.Background(), shared)
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestAsyncNodeFallbackRunsAfterExhaustion(t *testing.T) {
	shared := NewSharedState()
	node := NewAsyncNode()
	node.MaxRetries = 2
	node.ExecAsyncFunc = func(ctx context.Context, prep interface{}) (interface{}, error) {
		return nil, errors.New("fails")
	}
	node.FallbackAsyncFunc = func(ctx context.Context, prep interface{}, err error) (interface{}, error) {
		return "recovered", nil
	}
	node.PostAsyncFunc = func(ctx context.Context, shared *SharedState, prep, exec interface{}) (string, error) {
		return exec.(string), nil
	}

	action, err := node.RunAsync(context.Background(), shared)
	require.NoError(t, err)
	assert.Equal(t, "recovered", action)
}

func TestAsyncNodeContextCancelAbortsBackoff(t *testing.T) {
	shared := NewSharedState()
	node := NewAsyncNode()
	node.MaxRetries = 5
	node.Wait = time.Second
	node.ExecAsyncFunc = func(ctx context.Context, prep interface{}) (interface{}, error) {
		return nil, errors.New("retry me")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := node.RunAsync(ctx, shared)
	elapsed := time.Since(start)

	assert.Error(t, err)
	assert.Less(t, elapsed, time.Second)
}
