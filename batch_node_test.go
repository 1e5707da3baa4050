package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunk splits a slice of ints into groups of at most size, preserving
// order — the shape exercised by the chunked-sum scenarios below.
func chunk(items []int, size int) [][]int {
	var out [][]int
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}

func rangeInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func sumChunkNode(items []int, chunkSize int) *BatchNode {
	node := NewBatchNode()
	node.PrepFunc = func(shared *SharedState) interface{} {
		chunks := chunk(items, chunkSize)
		result := make([]interface{}, len(chunks))
		for i, c := range chunks {
			result[i] = c
		}
		return result
	}
	node.BatchExecFunc = func(item interface{}) (interface{}, error) {
		sum := 0
		for _, v := range item.([]int) {
			sum += v
		}
		return sum, nil
	}
	node.BatchPostFunc = func(shared *SharedState, prep interface{}, results []interface{}) string {
		shared.Set("chunk_sums", results)
		return DefaultAction
	}
	return node
}

func TestBatchNodeChunkSumsDefaultSize(t *testing.T) {
	shared := NewSharedState()
	node := sumChunkNode(rangeInts(25), 10)

	_, err := node.Run(shared)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{45, 145, 110}, shared.Get("chunk_sums"))
}

func TestBatchNodeFullSumSingleChunk(t *testing.T) {
	shared := NewSharedState()
	node := sumChunkNode(rangeInts(100), 100)

	_, err := node.Run(shared)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{4950}, shared.Get("chunk_sums"))
}

func TestBatchNodeCustomChunkSize(t *testing.T) {
	shared := NewSharedState()
	node := sumChunkNode(rangeInts(25), 15)

	_, err := node.Run(shared)
	require.NoError(t, err)
	sums := shared.Get("chunk_sums").([]interface{})
	total := 0
	for _, s := range sums {
		total += s.(int)
	}
	assert.Equal(t, 300, total)
	assert.Len(t, sums, 2)
}

func TestBatchNodeChunkSizeOne(t *testing.T) {
	shared := NewSharedState()
	node := sumChunkNode([]int{1, 2, 3}, 1)

	_, err := node.Run(shared)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, 2, 3}, shared.Get("chunk_sums"))
}

func TestBatchNodeEmptyInputYieldsEmptyResults(t *testing.T) {
	shared := NewSharedState()
	node := sumChunkNode(nil, 10)

	_, err := node.Run(shared)
	require.NoError(t, err)
	assert.Empty(t, shared.Get("chunk_sums"))
}

func TestBatchNodeElementErrorAborts(t *testing.T) {
	shared := NewSharedState()
	node := NewBatchNode()
	node.PrepFunc = func(shared *SharedState) interface{} {
		return []int{1, 2, 3}
	}
	node.BatchExecFunc = func(item interface{}) (interface{}, error) {
		if item.(int) == 2 {
			return nil, errors.New("boom")
		}
		return item, nil
	}

	_, err := node.Run(shared)
	assert.Error(t, err)
}

func TestBatchNodePerElementRetry(t *testing.T) {
	shared := NewSharedState()
	node := NewBatchNode()
	node.MaxRetries = 2
	node.PrepFunc = func(shared *SharedState) interface{} {
		return []int{1, 2}
	}
	attempts := map[int]int{}
	node.BatchExecFunc = func(item interface{}) (interface{}, error) {
		n := item.(int)
		attempts[n]++
		if n == 2 && attempts[n] < 2 {
			return nil, errors.New("transient")
		}
		return n * 10, nil
	}
	node.BatchPostFunc = func(shared *SharedState, prep interface{}, results []interface{}) string {
		shared.Set("results", results)
		return DefaultAction
	}

	_, err := node.Run(shared)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{10, 20}, shared.Get("results"))
}
