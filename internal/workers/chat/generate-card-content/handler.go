// internal/workers/chat/generate-card-content/handler.go
package generatecardcontent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lead-intelligence/internal/chat/cards"
	"lead-intelligence/internal/chat/usercontext"
	"lead-intelligence/internal/common/camunda"
	apperrors "lead-intelligence/internal/common/errors"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/metrics"
	"lead-intelligence/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "generate-card-content"

var ErrUnknownCardType = errors.New("VALIDATION_FAILED")

type Handler struct {
	config *Config
	errors *apperrors.ErrorHandler
	now    func() time.Time
	logger logger.Logger
}

func NewHandler(cfg *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: cfg,
		errors: apperrors.NewErrorHandler(log),
		now:    func() time.Time { return time.Now().UTC() },
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

// Execute builds the card payload from the visitor's context and records the card as shown.
// An empty context yields generic content; a malformed one fails the job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !input.CardType.Valid() {
		return nil, fmt.Errorf("%w: unknown card type %q", ErrUnknownCardType, input.CardType)
	}

	now := h.now()
	uc := usercontext.New(input.SessionID, now)
	if strings.TrimSpace(input.UserContext) != "" {
		restored, err := usercontext.Deserialize(input.UserContext)
		if err != nil {
			return nil, err
		}
		uc = restored
	}

	custom := cards.GenerateCustomizations(input.CardType, uc)
	uc = usercontext.Update(uc, models.ContextUpdate{CardsShown: []string{string(input.CardType)}}, now)

	serialized, err := usercontext.Serialize(uc)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("card content generated", map[string]interface{}{
		"cardType": input.CardType,
		"industry": custom.Industry,
	})
	return &Output{CardType: input.CardType, Customizations: custom, UserContext: serialized}, nil
}
