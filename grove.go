/*
Package grove grows decision tree classifiers with greedy best-split
search over the Gini impurity, and provides the DecisionTreeClassifier
that fits and predicts with them.

Trees are grown by workers consuming tasks from a queue.Queue: Seed pushes
the task for the root of the tree, BranchOut develops the node of a task
and returns the tasks for its subtrees, and Work runs the loop of pulling
tasks, branching them out and pushing the resulting ones. Grow wires them
all for a single tree.
*/
package grove

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/queue"
	"github.com/pbanos/grove/tree"
)

const defaultEmptyQueueSleep = time.Millisecond

// GrowOptions configures how a tree is grown
type GrowOptions struct {
	// Pruning decides when nodes stop being split.
	// Nil means the zero PruningStrategy.
	Pruning *PruningStrategy
	// Subsample makes every node consider only
	// MaxFeatures columns drawn at random.
	Subsample bool
	// MaxFeatures is the number of columns drawn
	// for every node when Subsample is set. Zero
	// means as many as the dataset has.
	MaxFeatures int
	// Logger, when set, gets the candidate
	// splits evaluated for every node.
	Logger Logger
	// Workers is the number of goroutines
	// developing nodes. Zero means one.
	Workers int
	// EmptyQueueSleep is how long a worker waits
	// for tasks when there are none pending but
	// some are still running. Zero means a millisecond.
	EmptyQueueSleep time.Duration
}

func (o *GrowOptions) pruning() *PruningStrategy {
	if o.Pruning == nil {
		return &PruningStrategy{}
	}
	return o.Pruning
}

// Seed takes a context, a dataset, a queue and a seed
// and sets everything up so that workers that consume
// from the queue afterwards grow a tree according to the
// training data on the given dataset.
// Specifically it will create the root node of the tree
// and push a task to branch it out on the queue.
// The function returns the tree that can be grown or an
// error if the task cannot be pushed to the queue (in the
// amount of time allowed by the given context).
func Seed(ctx context.Context, ds *dataset.Dataset, q queue.Queue, seed int64) (*tree.Tree, error) {
	n := &tree.Node{}
	t := tree.New(n, ds.FeatureLabels)
	err := q.Push(ctx, queue.NewRootTask(n, ds, seed))
	if err != nil {
		return nil, err
	}
	return t, nil
}

// BranchOut takes a context, a task and grow options,
// develops the node in the task using the task's dataset
// and returns the tasks to develop the resulting children
// nodes or an error.
// The node becomes a leaf predicting the majority label of
// the dataset when no split improves its impurity or the
// pruning strategy stops it. Otherwise it becomes a decision
// node with the question of the best split and two new
// nodes as subtrees, and a task for each is returned.
// Every random draw comes from a generator seeded with the
// task's seed, so the result does not depend on which
// worker develops the task or when.
func BranchOut(ctx context.Context, task *queue.Task, opts *GrowOptions) ([]*queue.Task, error) {
	ps := opts.pruning()
	ok, err := ps.develop(task.Depth, task.Dataset)
	if err != nil {
		return nil, err
	}
	if !ok {
		makeLeaf(task)
		return nil, nil
	}
	r := rand.New(rand.NewSource(task.Seed))
	so := SplitOptions{Logger: opts.Logger}
	if opts.Subsample {
		so.Rand = r
		so.MaxFeatures = opts.MaxFeatures
	}
	split, err := FindBestSplit(ctx, task.Dataset, so)
	if err != nil {
		return nil, err
	}
	if split.Question == nil {
		makeLeaf(task)
		return nil, nil
	}
	pruned, err := ps.prune(ctx, task.Dataset, split)
	if err != nil {
		return nil, err
	}
	if pruned {
		makeLeaf(task)
		return nil, nil
	}
	tn, fn := &tree.Node{}, &tree.Node{}
	task.Node.Question = split.Question
	task.Node.True = tn
	task.Node.False = fn
	trueSeed, falseSeed := r.Int63(), r.Int63()
	return []*queue.Task{
		task.Subtask(true, tn, split.True, trueSeed),
		task.Subtask(false, fn, split.False, falseSeed),
	}, nil
}

func makeLeaf(task *queue.Task) {
	prediction, _ := task.Dataset.ClassCounts().Majority()
	*task.Node = tree.Node{Prediction: prediction, Weight: task.Dataset.Count()}
}

// Work takes a context, a queue and grow options and
// enters a loop in which it:
//   * pulls a task for the queue,
//   * branches its node out into new subnodes using BranchOut
//   * pushes the tasks for the new subnodes into the queue
//   * marks the task as completed on the queue
//
// If at some point no task can be pulled from the queue and
// the sum of tasks running and pending on the queue is 0, the
// worker ends returning nil. If no task can be pulled but the
// sum is not 0, then the worker will sleep for the options'
// EmptyQueueSleep duration and then retry.
//
// Work will return a non-nil error if the given context
// times out or is cancelled, if BranchOut returns a non-nil
// error or if an operation with the given queue returns a
// non-nil error.
func Work(ctx context.Context, q queue.Queue, opts *GrowOptions) error {
	emptyQueueSleep := opts.EmptyQueueSleep
	if emptyQueueSleep <= 0 {
		emptyQueueSleep = defaultEmptyQueueSleep
	}
	for {
		task, tctx, tcf, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			p, r, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if r+p == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, q, opts)
		cancel()
		tcf()
		if err != nil {
			return err
		}
		err = ctx.Err()
		if err != nil {
			return err
		}
	}
	return nil
}

func workTask(ctx context.Context, task *queue.Task, q queue.Queue, opts *GrowOptions) error {
	defer func() {
		q.Drop(ctx, task.ID())
	}()
	tasks, err := BranchOut(ctx, task, opts)
	if err != nil {
		return err
	}
	for _, st := range tasks {
		err = q.Push(ctx, st)
		if err != nil {
			return err
		}
	}
	return q.Complete(ctx, task.ID())
}

/*
Grow takes a context, a dataset, a seed and grow options and grows a
tree on the dataset with as many workers as the options ask for,
returning it once every node has been developed, or the first error
a worker found.
*/
func Grow(ctx context.Context, ds *dataset.Dataset, seed int64, opts *GrowOptions) (*tree.Tree, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	q := queue.New()
	defer q.Stop(context.Background())
	t, err := Seed(ctx, ds, q, seed)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = Work(ctx, q, opts)
			if errs[i] != nil {
				cancel()
			}
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil && err != context.Canceled {
			return nil, err
		}
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}
