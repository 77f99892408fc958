package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Task is one unit of work. ID is echoed back on its Result.
type Task struct {
	ID  string
	Run func(ctx context.Context) error
}

type Result struct {
	ID  string
	Err error
}

// Pool runs submitted tasks on a fixed number of goroutines, optionally
// paced to a global rate. Submit after Close panics.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

// SetRateLimit paces task starts to rps per second across all workers.
// rps <= 0 removes the limit.
func (p *Pool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	if rps <= 0 {
		return
	}
	p.ticker = time.NewTicker(time.Second / time.Duration(rps))
	p.rate = p.ticker.C
}

func (p *Pool) Submit(t Task) {
	if p == nil || t.Run == nil {
		return
	}
	p.tasks <- t
}

// Close stops accepting tasks. Queued tasks still run at the set rate.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// Run starts the workers. The returned channel closes once every worker
// has exited, which happens after Close drains the queue or ctx ends. A task
// that ran always yields a Result, so the caller must drain the channel.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					p.mu.RLock()
					rate := p.rate
					p.mu.RUnlock()
					if rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-rate:
						}
					}
					out <- Result{ID: t.ID, Err: t.Run(ctx)}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.SetRateLimit(0)
		close(out)
	}()

	return out
}

// ErrNotStarted marks a task Do gave up on because ctx ended first.
var ErrNotStarted = errors.New("task not started")

// Do runs tasks to completion on a fresh pool and returns exactly one Result
// per task. Results of tasks that ran come first, in completion order; tasks
// left queued when ctx ended follow with ErrNotStarted.
func Do(ctx context.Context, workers, rps int, tasks []Task) []Result {
	p := NewPool(workers, len(tasks))
	p.SetRateLimit(rps)
	results := p.Run(ctx)
	for _, t := range tasks {
		p.Submit(t)
	}
	p.Close()

	out := make([]Result, 0, len(tasks))
	ran := make(map[string]int, len(tasks))
	for r := range results {
		out = append(out, r)
		ran[r.ID]++
	}
	for _, t := range tasks {
		if t.Run == nil {
			continue
		}
		if ran[t.ID] > 0 {
			ran[t.ID]--
			continue
		}
		out = append(out, Result{ID: t.ID, Err: notStarted(ctx)})
	}
	return out
}

func notStarted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotStarted, err)
	}
	return ErrNotStarted
}
