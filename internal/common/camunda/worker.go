// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lead-intelligence/internal/common/config"
	"lead-intelligence/internal/common/errors"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/observability"
	"lead-intelligence/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler completes or fails the job itself; a returned error is only logged.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for one task type.
func NewWorker(
	client zbc.Client,
	taskType string,
	cfg config.WorkerConfig,
	handler JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) *CamundaWorker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs, log)).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(config.GetDuration(cfg.Timeout)).
		Name("lead-intelligence").
		Open()

	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": cfg.MaxJobsActive,
		"timeoutMs":     cfg.Timeout,
	})

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   log,
		taskType: taskType,
	}
}

// Instrument adapts a JobHandler to the Zeebe handler signature and records job telemetry.
func Instrument(taskType string, handler JobHandler, obs *observability.Observability, log logger.Logger) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		ctx, span := obs.StartSpan(context.Background(), "job."+taskType)
		defer span.End()

		status := "completed"
		if err := handler.Handle(client, job); err != nil {
			status = "failed"
			span.RecordError(err)
			log.Error("handler returned error", map[string]interface{}{
				"jobKey": job.Key,
				"error":  err.Error(),
			})
		}

		obs.RecordJobProcessed(ctx, taskType, status)
		obs.RecordJobDuration(ctx, taskType, time.Since(start), status)
	}
}

func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

// Stop closes the job worker and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}

// DecodeJob validates the job variables against schema and unmarshals them into out.
func DecodeJob(job entities.Job, schema *validation.Schema, out interface{}) error {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return errors.NewInputParsingFailedError(err)
	}

	result := validation.ValidateInput(variables, schema)
	if !result.Valid {
		return errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	if err := json.Unmarshal([]byte(job.GetVariables()), out); err != nil {
		return errors.NewInputParsingFailedError(err)
	}
	return nil
}

// CompleteJob sends output as the job's result variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("build complete command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("complete job %d: %w", job.GetKey(), err)
	}
	return nil
}
