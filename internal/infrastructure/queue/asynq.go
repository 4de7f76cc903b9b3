// Package queue submits batch jobs to the asynq task queue and reports their state.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/analoghub/backend/internal/domain"
)

// QueueName is the queue every batch job runs on
const QueueName = "default"

// RedisOpt builds the asynq connection option
func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
}

// Queue is a domain.TaskQueue backed by asynq
type Queue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	retention time.Duration
}

// New creates a producer and inspector on the given Redis connection.
// Finished tasks and their results are kept for retention.
func New(opt asynq.RedisConnOpt, retention time.Duration) *Queue {
	return &Queue{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		retention: retention,
	}
}

// Enqueue submits a job. Jobs are never retried because ingestion is not idempotent.
func (q *Queue) Enqueue(ctx context.Context, taskType string, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", taskType, err)
	}

	opts := []asynq.Option{asynq.Queue(QueueName), asynq.MaxRetry(0)}
	if q.retention > 0 {
		opts = append(opts, asynq.Retention(q.retention))
	}

	info, err := q.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return info.ID, nil
}

// Status reports the state of a job. Unknown ids are reported as pending.
func (q *Queue) Status(ctx context.Context, id string) (*domain.BatchJob, error) {
	info, err := q.inspector.GetTaskInfo(QueueName, id)
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return &domain.BatchJob{ID: id, State: domain.JobPending}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("inspect task %s: %w", id, err)
	}

	job := &domain.BatchJob{ID: id, State: MapState(info.State)}
	if len(info.Result) > 0 {
		var result domain.JobResult
		if err := json.Unmarshal(info.Result, &result); err == nil {
			job.Result = &result
		}
	}
	if job.State == domain.JobFailure && job.Result == nil {
		fail := domain.JobFail()
		job.Result = &fail
	}
	return job, nil
}

// MapState converts an asynq task state to a job state
func MapState(s asynq.TaskState) domain.JobState {
	switch s {
	case asynq.TaskStateActive:
		return domain.JobStarted
	case asynq.TaskStateCompleted:
		return domain.JobSuccess
	case asynq.TaskStateArchived:
		return domain.JobFailure
	default:
		return domain.JobPending
	}
}

// Close releases the producer and inspector connections
func (q *Queue) Close() error {
	return errors.Join(q.client.Close(), q.inspector.Close())
}
