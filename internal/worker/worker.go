package worker

import (
	"context"
	"errors"
	"sync"
)

// Task is a unit of work run by the pool.
type Task func(ctx context.Context) error

// Pool runs submitted tasks on a fixed number of goroutines and collects
// their errors.
type Pool struct {
	ctx  context.Context
	jobs chan Task
	wg   sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// NewPool starts n workers. n<=0 defaults to 1. Tasks receive ctx and are
// skipped once it is done.
func NewPool(ctx context.Context, n int) *Pool {
	if n <= 0 {
		n = 1
	}
	p := &Pool{ctx: ctx, jobs: make(chan Task)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		if job == nil {
			continue
		}
		if err := p.ctx.Err(); err != nil {
			p.record(err)
			continue
		}
		if err := job(p.ctx); err != nil {
			p.record(err)
		}
	}
}

func (p *Pool) record(err error) {
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

// Submit blocks until a worker picks t up. It must not be called after Wait.
func (p *Pool) Submit(t Task) {
	p.jobs <- t
}

// Wait stops accepting tasks, waits for the running ones and returns every
// task error joined.
func (p *Pool) Wait() error {
	close(p.jobs)
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}
