// Package parallelwork implements a small work-stealing-style queue: a
// pool of worker goroutines drains a double-ended list of tasks, tasks
// may enqueue further tasks (including re-entrantly, from within a
// running task), and Process blocks until the queue and all active
// workers have drained, returning the first error any task reported.
package parallelwork

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

// Task is a unit of work submitted to a Queue.
type Task func() error

// Queue is a FIFO/LIFO hybrid work list: EnqueueFront gives a task
// priority (depth-first continuation), EnqueueBack gives it low
// priority (breadth-first fan-out). Both are safe to call from within a
// running task.
type Queue struct {
	mu        sync.Mutex
	cond      *sync.Cond
	items     *list.List
	enqueued  int64
	active    int64
	completed int64
	err       error

	// ProgressCallback, if set, is invoked after every task completes
	// with the current enqueued/active/completed counts.
	ProgressCallback func(ctx context.Context, enqueued, active, completed int64)
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	q := &Queue{items: list.New()}
	q.cond = sync.NewCond(&q.mu)

	return q
}

// EnqueueFront adds fn to the front of the queue.
func (q *Queue) EnqueueFront(_ context.Context, fn Task) {
	q.mu.Lock()
	q.items.PushFront(fn)
	q.enqueued++
	q.mu.Unlock()
	q.cond.Broadcast()
}

// EnqueueBack adds fn to the back of the queue.
func (q *Queue) EnqueueBack(_ context.Context, fn Task) {
	q.mu.Lock()
	q.items.PushBack(fn)
	q.enqueued++
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Process starts numWorkers goroutines draining the queue and blocks
// until there is no more work: the queue is empty and no worker is
// active. It returns the first error any task returned, or nil.
func (q *Queue) Process(ctx context.Context, numWorkers int) error {
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup

	wg.Add(numWorkers)

	for range numWorkers {
		go func() {
			defer wg.Done()
			q.worker(ctx)
		}()
	}

	wg.Wait()

	q.mu.Lock()
	defer q.mu.Unlock()

	return q.err
}

func (q *Queue) worker(ctx context.Context) {
	for {
		q.mu.Lock()

		for q.items.Len() == 0 && q.active > 0 && q.err == nil {
			q.cond.Wait()
		}

		if q.err != nil || (q.items.Len() == 0 && q.active == 0) {
			q.mu.Unlock()
			q.cond.Broadcast()

			return
		}

		elem := q.items.Front()
		q.items.Remove(elem)
		fn, _ := elem.Value.(Task)
		q.active++
		q.mu.Unlock()

		err := fn()

		q.mu.Lock()
		q.active--
		q.completed++

		if err != nil && q.err == nil {
			q.err = err
		}

		enqueued, active, completed := q.enqueued, q.active, q.completed
		cb := q.ProgressCallback
		q.mu.Unlock()
		q.cond.Broadcast()

		if cb != nil {
			cb(ctx, enqueued, active, completed)
		}
	}
}

// OnNthCompletion returns a closure that is a no-op for its first n-1
// invocations and invokes callback exactly once, on its n-th
// invocation, regardless of how many goroutines call it concurrently.
func OnNthCompletion(n int, callback func() error) func() error {
	var count atomic.Int64

	return func() error {
		if count.Add(1) == int64(n) {
			return callback()
		}

		return nil
	}
}
