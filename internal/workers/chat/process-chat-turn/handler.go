// internal/workers/chat/process-chat-turn/handler.go
package processchatturn

import (
	"context"
	"time"

	"lead-intelligence/internal/chat/turn"
	"lead-intelligence/internal/common/camunda"
	apperrors "lead-intelligence/internal/common/errors"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "process-chat-turn"

// ChatProcessor runs one chat turn; *turn.Processor implements it.
type ChatProcessor interface {
	Process(ctx context.Context, req turn.Request) (*turn.Response, error)
}

type Handler struct {
	config    *Config
	processor ChatProcessor
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(cfg *Config, processor ChatProcessor, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    cfg,
		processor: processor,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	output, err := h.run(ctx, job)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.FromError(err).Code)).Inc()
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		return err
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	return nil
}

func (h *Handler) run(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := h.parseInput(job)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := camunda.DecodeJob(job, GetInputSchema(), &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute runs the chat turn and flattens the result into process variables.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	resp, err := h.processor.Process(ctx, input.request())
	if err != nil {
		return nil, err
	}

	output := newOutput(resp)
	h.logger.Info("chat turn processed", map[string]interface{}{
		"sessionId":      output.SessionID,
		"intent":         output.Intent,
		"showCard":       output.ShowCard,
		"intentCategory": output.IntentCategory,
	})
	return output, nil
}
