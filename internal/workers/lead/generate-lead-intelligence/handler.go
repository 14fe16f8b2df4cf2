// internal/workers/lead/generate-lead-intelligence/handler.go
package generateleadintelligence

import (
	"context"
	"time"

	"lead-intelligence/internal/common/camunda"
	apperrors "lead-intelligence/internal/common/errors"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/metrics"
	"lead-intelligence/internal/lead/scoring"
	"lead-intelligence/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "generate-lead-intelligence"

type Handler struct {
	config *Config
	scorer *scoring.Scorer
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(cfg *Config, scorer *scoring.Scorer, log logger.Logger) *Handler {
	if scorer == nil {
		scorer = scoring.NewScorer()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: cfg,
		scorer: scorer,
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

// Execute scores the user side of the conversation. Assistant turns never contribute signals.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	li := h.scorer.Generate(input.UserID, models.UserMessages(input.Messages), input.UserInfo, input.ExistingSignals)

	h.logger.Info("lead intelligence generated", map[string]interface{}{
		"userId":         input.UserID,
		"buyIntentScore": li.BuyIntentScore,
		"intentCategory": li.IntentCategory,
		"priorityTier":   li.PriorityTier,
	})

	return &Output{
		LeadIntelligence:    li,
		BuyIntentScore:      li.BuyIntentScore,
		IntentCategory:      li.IntentCategory,
		Urgency:             li.Urgency,
		QualificationStatus: li.QualificationStatus,
		PriorityTier:        li.PriorityTier,
		SignalCount:         len(li.BehavioralSignals),
	}, nil
}
