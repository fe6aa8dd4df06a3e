package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task pairs one input with the outcome of processing it.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
	// Skipped is set when the context was cancelled before the input ran.
	Skipped bool
}

// ProcessFunc processes a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs a ProcessFunc over a slice of inputs with bounded concurrency.
// Each input is processed independently; parses share no state.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
	label   func(T) string
}

// NewPool creates a pool with the given number of workers.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// WithLabel sets how inputs are named in failure logs.
func (p *Pool[T, R]) WithLabel(fn func(T) string) *Pool[T, R] {
	p.label = fn
	return p
}

// Execute runs all inputs and returns one Task per input, in input order.
// After cancellation, inputs not yet started are marked Skipped.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	for i := range inputs {
		results[i] = Task[T, R]{Input: inputs[i], Skipped: true}
	}

	inputCh := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range inputCh {
				result, err := p.process(ctx, inputs[idx])
				results[idx] = Task[T, R]{
					Input:  inputs[idx],
					Result: result,
					Err:    err,
				}
				if err != nil {
					ev := log.Error().Err(err).Int("worker", workerID).Int("index", idx)
					if p.label != nil {
						ev = ev.Str("input", p.label(inputs[idx]))
					}
					ev.Msg("Task failed")
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
		}
	}
	close(inputCh)

	wg.Wait()
	return results
}
