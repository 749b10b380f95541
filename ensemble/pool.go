package ensemble

import (
	"sync"

	"github.com/pbanos/grove/errors"
)

// Job is a unit of work run by a Pool
type Job func() error

// Pool runs jobs on a bounded number of goroutines
type Pool struct {
	jobs chan Job
	wg   sync.WaitGroup
	lock sync.Mutex
	errs errors.Errors
}

// NewPool returns a pool with the given number of workers, at least one
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{jobs: make(chan Job)}
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	for job := range p.jobs {
		err := job()
		if err != nil {
			p.lock.Lock()
			p.errs = errors.Append(p.errs, err)
			p.lock.Unlock()
		}
		p.wg.Done()
	}
}

// Add queues the jobs, blocking until workers take them
func (p *Pool) Add(jobs []Job) {
	p.wg.Add(len(jobs))
	for _, job := range jobs {
		p.jobs <- job
	}
}

// Wait waits for every job added to finish, stops the workers and
// returns the errors of the failed jobs combined, or nil. The pool
// cannot be used afterwards.
func (p *Pool) Wait() error {
	p.wg.Wait()
	close(p.jobs)
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.errs == nil {
		return nil
	}
	return p.errs
}
