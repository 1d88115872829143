package github

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is one deferred unit of work on a Queue
type Task[T any] func(ctx context.Context) (T, error)

// Queue runs deferred tasks on a bounded worker pool. Tasks start in the
// order they were deferred. The first failing task cancels every task that
// has not started yet, and AwaitAll reports only that first error.
type Queue[T any] struct {
	concurrency int
	tasks       []Task[T]
}

// NewQueue creates a queue that runs at most concurrency tasks at a time
func NewQueue[T any](concurrency int) *Queue[T] {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Queue[T]{concurrency: concurrency}
}

// NewSerialQueue creates a queue that runs one task at a time
func NewSerialQueue[T any]() *Queue[T] {
	return NewQueue[T](1)
}

// Defer adds a task to the queue
func (q *Queue[T]) Defer(task Task[T]) {
	q.tasks = append(q.tasks, task)
}

// Len returns the number of deferred tasks
func (q *Queue[T]) Len() int {
	return len(q.tasks)
}

// AwaitAll runs every deferred task and returns their results in deferral order
func (q *Queue[T]) AwaitAll(ctx context.Context) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.concurrency)

	results := make([]T, len(q.tasks))
	for i, task := range q.tasks {
		i, task := i, task
		// Go blocks while the pool is full, so with one worker each task
		// starts only after the previous one has returned.
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := task(gctx)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
