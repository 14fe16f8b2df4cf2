// internal/workers/lead/persist-lead-intelligence/handler.go
package persistleadintelligence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lead-intelligence/internal/common/camunda"
	apperrors "lead-intelligence/internal/common/errors"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/metrics"
	"lead-intelligence/internal/lead/persistence"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "persist-lead-intelligence"

var (
	ErrStoreNotConfigured = errors.New("STORE_NOT_CONFIGURED")
	ErrStoreWriteFailed   = errors.New("STORE_WRITE_FAILED")
)

// Saver is satisfied by *persistence.Service.
type Saver interface {
	Available() bool
	Save(ctx context.Context, req persistence.SaveRequest) *persistence.SaveResult
}

type Handler struct {
	config *Config
	saver  Saver
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(cfg *Config, saver Saver, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: cfg,
		saver:  saver,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var output *Output
	input, err := h.parseInput(job)
	if err == nil {
		output, err = h.Execute(ctx, input)
	}
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

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := camunda.DecodeJob(job, GetInputSchema(), &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute writes the turn through the persistence service. Unlike the chat path, a failed write
// fails the job so the engine can retry it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.saver == nil || !h.saver.Available() {
		return nil, fmt.Errorf("%w: lead store", ErrStoreNotConfigured)
	}

	result := h.saver.Save(ctx, persistence.SaveRequest{
		SessionID:    input.SessionID,
		Info:         input.UserInfo,
		Messages:     input.Messages,
		Intelligence: input.LeadIntelligence,
	})
	if result == nil || result.User == nil {
		return nil, fmt.Errorf("%w: session %s", ErrStoreWriteFailed, input.SessionID)
	}

	output := &Output{
		Persisted:     true,
		UserID:        result.User.ID,
		NotifyQueued:  result.NotifyQueued,
		WelcomeQueued: result.WelcomeQueued,
		WriteAttempts: result.WriteAttempts,
	}
	if li := result.Intelligence; li != nil {
		output.Version = li.Version
		output.BuyIntentScore = li.BuyIntentScore
		output.IntentCategory = li.IntentCategory
		output.PriorityTier = li.PriorityTier
	}

	h.logger.Info("lead intelligence persisted", map[string]interface{}{
		"userId":        output.UserID,
		"version":       output.Version,
		"priorityTier":  output.PriorityTier,
		"notifyQueued":  output.NotifyQueued,
		"writeAttempts": output.WriteAttempts,
	})
	return output, nil
}
