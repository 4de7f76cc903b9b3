// Package worker runs queued batch jobs: ingestion, sheet resolution and scratch cleanup.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/infrastructure/storage"
	"github.com/analoghub/backend/internal/usecase"
)

// Processor handles every task type the API enqueues.
// A job that fails still completes; its result carries state "fail".
type Processor struct {
	ingestion *usecase.IngestionService
	resolver  *usecase.ResolverService
	storage   *storage.Storage
	maxAge    time.Duration
	now       func() time.Time
}

// NewProcessor creates a processor. Sweeps remove scratch entries older than maxAge.
func NewProcessor(ingestion *usecase.IngestionService, resolver *usecase.ResolverService, store *storage.Storage, maxAge time.Duration) *Processor {
	return &Processor{
		ingestion: ingestion,
		resolver:  resolver,
		storage:   store,
		maxAge:    maxAge,
		now:       time.Now,
	}
}

// Register binds the task handlers to mux
func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(domain.TaskIngestAnalogs, p.HandleIngestAnalogs)
	mux.HandleFunc(domain.TaskIngestManufacturers, p.HandleIngestManufacturers)
	mux.HandleFunc(domain.TaskResolveAnalogs, p.HandleResolveAnalogs)
	mux.HandleFunc(domain.TaskSweepStorage, p.HandleSweep)
}

// HandleIngestAnalogs loads an uploaded analog sheet
func (p *Processor) HandleIngestAnalogs(ctx context.Context, t *asynq.Task) error {
	var payload domain.IngestAnalogsPayload
	if err := decode(t, &payload); err != nil {
		return err
	}
	return report(t, p.ingestion.IngestAnalogSheet(ctx, payload.FilePath, payload.Columns))
}

// HandleIngestManufacturers loads an uploaded archive of price lists
func (p *Processor) HandleIngestManufacturers(ctx context.Context, t *asynq.Task) error {
	var payload domain.IngestManufacturersPayload
	if err := decode(t, &payload); err != nil {
		return err
	}
	return report(t, p.ingestion.IngestManufacturerArchive(ctx, payload.FilePath, payload.FileName))
}

// HandleResolveAnalogs resolves an uploaded sheet into a report kept in scratch storage
func (p *Processor) HandleResolveAnalogs(ctx context.Context, t *asynq.Task) error {
	var payload domain.ResolveAnalogsPayload
	if err := decode(t, &payload); err != nil {
		return err
	}
	return report(t, p.resolver.ResolveToStorage(ctx, payload.FilePath))
}

// HandleSweep removes stale scratch files
func (p *Processor) HandleSweep(ctx context.Context, t *asynq.Task) error {
	result := domain.JobOK()
	if _, err := p.storage.Sweep(p.maxAge, p.now()); err != nil {
		log.Printf("[SWEEP] Incomplete sweep: %v", err)
		result = domain.JobFail()
	}
	return report(t, result)
}

// decode unmarshals a task payload. A malformed payload is never retried.
func decode(t *asynq.Task, v interface{}) error {
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		log.Printf("[WORKER] Bad %s payload: %v", t.Type(), err)
		return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}

// report stores the job result with the task so that its status can be polled
func report(t *asynq.Task, result domain.JobResult) error {
	log.Printf("[WORKER] %s finished: %s", t.Type(), result.State)

	w := t.ResultWriter()
	if w == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s result: %w", t.Type(), err)
	}
	return nil
}
