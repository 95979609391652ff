// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
)

// TaskStatus is the lifecycle state of a queued task.
type TaskStatus string

const (
	TaskPending TaskStatus = "PENDING"
	TaskStarted TaskStatus = "STARTED"
	TaskSuccess TaskStatus = "SUCCESS"
	TaskFailure TaskStatus = "FAILURE"
)

// DefaultWorkers bounds concurrent tasks when the queue is built with zero.
const DefaultWorkers = 2

// Task is a snapshot of one submitted run.
type Task struct {
	ID         string     `json:"task_id"`
	Name       string     `json:"name"`
	Status     TaskStatus `json:"task_status"`
	Result     any        `json:"task_result"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Ready reports whether the task has finished.
func (t Task) Ready() bool {
	return t.Status == TaskSuccess || t.Status == TaskFailure
}

// TaskFunc is the body of a task. Its result is kept for polling.
type TaskFunc func(ctx context.Context) (any, error)

type entry struct {
	task   Task
	cancel context.CancelFunc
}

// Queue runs submitted tasks in the background, at most Workers at a time.
// Task state lives in memory for the life of the process.
type Queue struct {
	sem    *semaphore.Weighted
	ctx    context.Context
	stop   context.CancelFunc
	logger *logging.Logger

	mu    sync.Mutex
	tasks map[string]*entry
	wg    sync.WaitGroup
}

// NewQueue returns a queue whose tasks run under ctx. Cancelling ctx or
// calling Close cancels every running and pending task.
func NewQueue(ctx context.Context, workers int, logger *logging.Logger) *Queue {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	qctx, stop := context.WithCancel(ctx)
	return &Queue{
		sem:    semaphore.NewWeighted(int64(workers)),
		ctx:    qctx,
		stop:   stop,
		logger: logger,
		tasks:  make(map[string]*entry),
	}
}

// Submit schedules fn and returns its task id immediately.
func (q *Queue) Submit(name string, fn TaskFunc) string {
	ctx, cancel := context.WithCancel(q.ctx)
	e := &entry{
		task: Task{
			ID:        uuid.NewString(),
			Name:      name,
			Status:    TaskPending,
			CreatedAt: time.Now(),
		},
		cancel: cancel,
	}

	q.mu.Lock()
	q.tasks[e.task.ID] = e
	q.mu.Unlock()

	q.wg.Add(1)
	go q.run(ctx, e, fn)
	return e.task.ID
}

func (q *Queue) run(ctx context.Context, e *entry, fn TaskFunc) {
	defer q.wg.Done()
	defer e.cancel()

	log := q.logger.With("task_id", e.task.ID, "task", e.task.Name)
	if err := q.sem.Acquire(ctx, 1); err != nil {
		q.finish(e, nil, err)
		log.Warn("task cancelled before start", "error", err)
		return
	}
	defer q.sem.Release(1)

	q.mu.Lock()
	e.task.Status = TaskStarted
	q.mu.Unlock()
	log.Info("task started")

	result, err := fn(ctx)
	q.finish(e, result, err)
	if err != nil {
		log.Error("task failed", "error", err)
		return
	}
	log.Info("task succeeded")
}

func (q *Queue) finish(e *entry, result any, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := time.Now()
	e.task.FinishedAt = &now
	if err != nil {
		e.task.Status = TaskFailure
		e.task.Error = err.Error()
		return
	}
	e.task.Status = TaskSuccess
	e.task.Result = result
}

// Get returns a snapshot of the task with id.
func (q *Queue) Get(id string) (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.tasks[id]
	if !ok {
		return Task{}, false
	}
	return e.task, true
}

// Cancel revokes a pending or running task. It reports false for unknown
// or finished tasks.
func (q *Queue) Cancel(id string) bool {
	q.mu.Lock()
	e, ok := q.tasks[id]
	ready := ok && e.task.Ready()
	q.mu.Unlock()
	if !ok || ready {
		return false
	}
	e.cancel()
	return true
}

// Wait blocks until every submitted task has finished.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Close cancels outstanding tasks and waits for them to return.
func (q *Queue) Close() {
	q.stop()
	q.wg.Wait()
}
