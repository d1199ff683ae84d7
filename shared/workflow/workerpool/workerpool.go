package workerpool

import (
	"context"
	"sync"
)

// Job is one unit of work. Implementations must respect ctx cancellation;
// the pool never interrupts a running Do.
type Job interface {
	Do(ctx context.Context) error
}

// Pool runs jobs from an externally owned channel on a fixed set of
// workers. Job errors are the job's own concern: a failing job records the
// failure in its own result, the pool keeps draining the channel.
type Pool struct {
	jobChan <-chan Job
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// New starts numWorkers workers draining jobChan. Close jobChan to let the
// workers finish, then Wait to join them.
func New(ctx context.Context, numWorkers int, jobChan <-chan Job) *Pool {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		jobChan: jobChan,
		ctx:     ctx,
		cancel:  cancel,
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobChan:
			if !ok {
				return
			}
			_ = job.Do(p.ctx)
		}
	}
}

// Shutdown cancels the pool context and joins all workers.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// Wait joins the workers without cancelling them first. Use after closing
// the job channel.
func (p *Pool) Wait() {
	p.wg.Wait()
	p.cancel()
}
