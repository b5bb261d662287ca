package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrFetchCachesResult(t *testing.T) {
	c := New(time.Minute, nil)
	var calls int32

	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "value", nil
	}

	v1, err := c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)
	v2, err := c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)

	assert.Equal(t, "value", v1)
	assert.Equal(t, "value", v2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetOrFetchCoalescesConcurrentCalls(t *testing.T) {
	c := New(time.Minute, nil)
	var calls int32
	start := make(chan struct{})

	fetch := func(ctx context.Context) (interface{}, error) {
		<-start
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]interface{}, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v, _ := c.GetOrFetch(context.Background(), "same-key", fetch)
			results[idx] = v
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, 42, r)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c := New(time.Minute, nil)
	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return calls, nil
	}

	_, _ = c.GetOrFetch(context.Background(), "k", fetch)
	c.Invalidate("k")
	_, _ = c.GetOrFetch(context.Background(), "k", fetch)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestKeyIsOrderIndependent(t *testing.T) {
	k1 := Key("GET", "https://example.com", map[string]string{"a": "1", "b": "2"}, nil)
	k2 := Key("GET", "https://example.com", map[string]string{"b": "2", "a": "1"}, nil)
	assert.Equal(t, k1, k2)
}

func TestKeyIsOrderIndependentForBulkIMOList(t *testing.T) {
	k1 := Key("POST", "https://example.com", nil, []int{9842190, 9999999, 1000019})
	k2 := Key("POST", "https://example.com", nil, []int{1000019, 9842190, 9999999})
	assert.Equal(t, k1, k2)
}

func TestKeyDiffersOnBody(t *testing.T) {
	k1 := Key("POST", "https://example.com", nil, []int{1, 2, 3})
	k2 := Key("POST", "https://example.com", nil, []int{1, 2, 4})
	assert.NotEqual(t, k1, k2)
}
