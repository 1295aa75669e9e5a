// Package worker runs independent jobs on a bounded number of goroutines.
//
// Results are written to the slot of their input, so callers that merge
// results in input order get the same outcome regardless of scheduling.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task is one input together with what processing it produced.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc processes a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool is a generic worker pool with configurable concurrency.
type Pool[T any, R any] struct {
	name    string
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a new worker pool. name only labels log lines.
func NewPool[T any, R any](name string, workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		name:    name,
		workers: workers,
		process: fn,
	}
}

// Execute runs every input through the pool and returns one task per input,
// in input order. Inputs not started before ctx is cancelled carry ctx.Err().
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	started := make([]bool, len(inputs))
	inputCh := make(chan int)

	workers := min(p.workers, len(inputs))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range inputCh {
				result, err := p.process(ctx, inputs[idx])
				results[idx] = Task[T, R]{Input: inputs[idx], Result: result, Err: err}
				if err != nil {
					log.Debug().
						Err(err).
						Str("pool", p.name).
						Int("worker", workerID).
						Int("index", idx).
						Msg("Task failed")
				}
			}
		}(w)
	}

send:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break send
		case inputCh <- i:
			started[i] = true
		}
	}
	close(inputCh)
	wg.Wait()

	for i := range results {
		if !started[i] {
			results[i] = Task[T, R]{Input: inputs[i], Err: ctx.Err()}
		}
	}
	return results
}

// Results unpacks tasks into their results and the joined errors of the
// failed ones. Failed tasks leave the zero value in their slot.
func Results[T any, R any](tasks []Task[T, R]) ([]R, error) {
	out := make([]R, len(tasks))
	var errs []error
	for i, t := range tasks {
		if t.Err != nil {
			errs = append(errs, t.Err)
			continue
		}
		out[i] = t.Result
	}
	return out, errors.Join(errs...)
}

// Batch splits items into consecutive chunks of at most batchSize.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = 1
	}
	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}
