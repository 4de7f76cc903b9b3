package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/infrastructure/queue"
)

// NewServer creates an asynq server consuming the batch queue
func NewServer(opt asynq.RedisConnOpt, concurrency int) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue.QueueName: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("[WORKER] %s failed: %v", task.Type(), err)
		}),
	})
}

// NewMux creates a mux with every handler of p registered
func NewMux(p *Processor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	p.Register(mux)
	return mux
}

// NewScheduler creates a scheduler that enqueues a storage sweep on spec,
// a standard five-field cron expression
func NewScheduler(opt asynq.RedisConnOpt, spec string) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})
	task := asynq.NewTask(domain.TaskSweepStorage, []byte("{}"))
	if _, err := scheduler.Register(spec, task, asynq.Queue(queue.QueueName), asynq.MaxRetry(0)); err != nil {
		return nil, fmt.Errorf("schedule sweep %q: %w", spec, err)
	}
	return scheduler, nil
}
