package parallelwork_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/internal/parallelwork"
)

func TestQueueEnqueueFrontProcessesAll(t *testing.T) {
	q := parallelwork.NewQueue()

	var sum atomic.Int64

	for _, v := range []int64{3, 2, 1} {
		v := v
		q.EnqueueFront(context.Background(), func() error {
			sum.Add(v)
			return nil
		})
	}

	require.NoError(t, q.Process(context.Background(), 2))
	require.EqualValues(t, 6, sum.Load())
}

func TestQueueEnqueueBackProcessesAll(t *testing.T) {
	q := parallelwork.NewQueue()

	var sum atomic.Int64

	for _, v := range []int64{1, 2, 3} {
		v := v
		q.EnqueueBack(context.Background(), func() error {
			sum.Add(v)
			return nil
		})
	}

	require.NoError(t, q.Process(context.Background(), 2))
	require.EqualValues(t, 6, sum.Load())
}

func TestQueueProcessReturnsFirstError(t *testing.T) {
	q := parallelwork.NewQueue()

	boom := errors.New("boom")

	q.EnqueueBack(context.Background(), func() error {
		time.Sleep(50 * time.Millisecond)
		return nil
	})
	q.EnqueueBack(context.Background(), func() error {
		return boom
	})
	q.EnqueueBack(context.Background(), func() error {
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	require.Equal(t, boom, q.Process(context.Background(), 2))
}

func TestQueueTaskCanEnqueueMoreWork(t *testing.T) {
	q := parallelwork.NewQueue()

	var sum atomic.Int64

	q.EnqueueBack(context.Background(), func() error {
		sum.Add(1)
		q.EnqueueBack(context.Background(), func() error {
			sum.Add(2)
			return nil
		})

		return nil
	})

	require.NoError(t, q.Process(context.Background(), 1))
	require.EqualValues(t, 3, sum.Load())
}

func TestQueueProgressCallback(t *testing.T) {
	q := parallelwork.NewQueue()

	var calls atomic.Int64

	q.ProgressCallback = func(_ context.Context, enqueued, active, completed int64) {
		calls.Add(1)
		require.GreaterOrEqual(t, enqueued, int64(0))
		require.GreaterOrEqual(t, active, int64(0))
		require.GreaterOrEqual(t, completed, int64(0))
	}

	q.EnqueueBack(context.Background(), func() error { return nil })
	q.EnqueueBack(context.Background(), func() error { return nil })

	require.NoError(t, q.Process(context.Background(), 2))
	require.EqualValues(t, 2, calls.Load())
}

func TestOnNthCompletionFiresOnce(t *testing.T) {
	const n = 5

	var invoked int

	errDone := errors.New("done")
	onNth := parallelwork.OnNthCompletion(n, func() error {
		invoked++
		return errDone
	})

	for range n - 1 {
		require.NoError(t, onNth())
	}

	require.ErrorIs(t, onNth(), errDone)
	require.Equal(t, 1, invoked)

	require.NoError(t, onNth())
	require.Equal(t, 1, invoked)
}

func TestOnNthCompletionConcurrencySafe(t *testing.T) {
	const n = 5

	var invoked atomic.Int32

	errDone := errors.New("done")
	onNth := parallelwork.OnNthCompletion(n, func() error {
		invoked.Add(1)
		return errDone
	})

	var wg sync.WaitGroup

	results := make(chan error, n+1)
	wg.Add(n + 1)

	for range n + 1 {
		go func() {
			defer wg.Done()
			results <- onNth()
		}()
	}

	wg.Wait()
	close(results)

	require.EqualValues(t, 1, invoked.Load())

	var errCount, nilCount int

	for err := range results {
		if err == nil {
			nilCount++
			continue
		}

		errCount++

		require.ErrorIs(t, err, errDone)
	}

	require.Equal(t, 1, errCount)
	require.Equal(t, n, nilCount)
}
