package queue

import (
	"context"
	"fmt"
	"time"
)

/*
Queue holds the tasks of the nodes of a tree that are still to be
developed. Workers pull a task, develop its node and then either complete
the task or drop it, which puts it back for another worker to pull.

Every method takes a context.Context as first parameter, so waiting on
the queue can be cancelled or bounded in time.
*/
type Queue interface {
	// Push adds a pending task to the queue.
	Push(context.Context, *Task) error
	// Pull takes the oldest pending task and marks it as running. It
	// returns the task along with a context that is cancelled when the
	// queue is stopped and the CancelFunc that releases it. When no task
	// is pending all four return values are nil.
	Pull(context.Context) (*Task, context.Context, context.CancelFunc, error)
	// Drop takes the ID of a running task and makes it pending again.
	// IDs of tasks that are not running are ignored.
	Drop(context.Context, string) error
	// Complete takes the ID of a running task and forgets it.
	Complete(context.Context, string) error
	// Count returns the number of pending and running tasks.
	Count(context.Context) (int, int, error)
	// Stop cancels the contexts of pulled tasks.
	Stop(context.Context) error
}

type memQueue struct {
	// sem is a lock that can be waited on with a context
	sem     chan struct{}
	pending []*Task
	running map[string]*Task
	ctx     context.Context
	stop    context.CancelFunc
}

// New returns a queue kept in memory
func New() Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &memQueue{
		sem:     make(chan struct{}, 1),
		running: make(map[string]*Task),
		ctx:     ctx,
		stop:    cancel,
	}
}

/*
WaitFor blocks until the queue has neither pending nor running tasks,
checking it every interval. It returns the error of the context if it is
done first, or the error of the queue's Count if it fails.
*/
func WaitFor(ctx context.Context, q Queue, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		pending, running, err := q.Count(ctx)
		if err != nil {
			return err
		}
		if pending == 0 && running == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (mq *memQueue) Push(ctx context.Context, t *Task) error {
	if err := mq.acquire(ctx); err != nil {
		return err
	}
	defer mq.release()
	mq.pending = append(mq.pending, t)
	return nil
}

func (mq *memQueue) Pull(ctx context.Context) (*Task, context.Context, context.CancelFunc, error) {
	if err := mq.acquire(ctx); err != nil {
		return nil, nil, nil, err
	}
	if len(mq.pending) == 0 {
		mq.release()
		return nil, nil, nil, nil
	}
	t := mq.pending[0]
	mq.pending[0] = nil
	mq.pending = mq.pending[1:]
	if len(mq.pending) == 0 {
		// let the backing array go
		mq.pending = nil
	}
	mq.running[t.ID()] = t
	mq.release()
	tctx, cancel := context.WithCancel(mq.ctx)
	return t, tctx, cancel, nil
}

func (mq *memQueue) Drop(ctx context.Context, id string) error {
	if err := mq.acquire(ctx); err != nil {
		return err
	}
	defer mq.release()
	if t, ok := mq.running[id]; ok {
		delete(mq.running, id)
		mq.pending = append(mq.pending, t)
	}
	return nil
}

func (mq *memQueue) Complete(ctx context.Context, id string) error {
	if err := mq.acquire(ctx); err != nil {
		return err
	}
	defer mq.release()
	delete(mq.running, id)
	return nil
}

func (mq *memQueue) Count(ctx context.Context) (int, int, error) {
	if err := mq.acquire(ctx); err != nil {
		return 0, 0, err
	}
	defer mq.release()
	return len(mq.pending), len(mq.running), nil
}

func (mq *memQueue) Stop(ctx context.Context) error {
	mq.stop()
	return nil
}

func (mq *memQueue) String() string {
	return fmt.Sprintf("{Queue pending: %v running: %d}", mq.pending, len(mq.running))
}

func (mq *memQueue) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case mq.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (mq *memQueue) release() {
	<-mq.sem
}
