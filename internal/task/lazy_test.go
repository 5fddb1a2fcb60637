package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyIsCold(t *testing.T) {
	var calls atomic.Int32
	l := NewLazy(func(context.Context) (int, error) {
		calls.Add(1)
		return 7, nil
	})

	assert.False(t, l.Started())
	assert.Equal(t, int32(0), calls.Load())

	v, err := l.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.True(t, l.Started())
}

func TestLazyRunsOnce(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("boom")
	l := NewLazy(func(context.Context) (string, error) {
		calls.Add(1)
		return "", boom
	})

	_, err1 := l.Await(context.Background())
	_, err2 := l.Await(context.Background())

	assert.ErrorIs(t, err1, boom)
	assert.ErrorIs(t, err2, boom)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLazyConcurrentAwait(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	l := NewLazy(func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 1, nil
	})

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = l.Await(context.Background())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []int{1, 1, 1, 1, 1}, results)
}

func TestLazyWaiterHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	l := NewLazy(func(context.Context) (int, error) {
		<-release
		return 1, nil
	})

	go l.Await(context.Background())
	require.Eventually(t, l.Started, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := l.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
