// internal/workers/notification/sync-mailing-list/handler.go
package syncmailinglist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lead-intelligence/internal/common/camunda"
	apperrors "lead-intelligence/internal/common/errors"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/metrics"
	"lead-intelligence/internal/lead/notify"
	"lead-intelligence/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "sync-mailing-list"

var (
	ErrCRMNotConfigured = errors.New("CRM_NOT_CONFIGURED")
	ErrMissingEmail     = errors.New("VALIDATION_FAILED")
)

// MailingList is satisfied by *notify.ZohoMailingList.
type MailingList interface {
	Subscribe(ctx context.Context, sub models.MailingListSubscriber) (*notify.SubscribeResult, error)
}

type Handler struct {
	config *Config
	list   MailingList
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(cfg *Config, list MailingList, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: cfg,
		list:   list,
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

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

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

// Execute subscribes the contact with tags derived from its intelligence plus any extra tags.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.list == nil {
		return nil, fmt.Errorf("%w: no mailing list configured", ErrCRMNotConfigured)
	}

	info := input.contact()
	if info.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrMissingEmail)
	}

	sub := notify.BuildSubscriber(info, input.LeadIntelligence)
	sub.Tags = mergeTags(sub.Tags, input.Tags)

	result, err := h.list.Subscribe(ctx, sub)
	if errors.Is(err, notify.ErrNotConfigured) {
		return nil, fmt.Errorf("%w: %v", ErrCRMNotConfigured, err)
	}
	if err != nil {
		return nil, err
	}

	h.logger.Info("mailing list synced", map[string]interface{}{
		"contactId": result.ContactID,
		"created":   result.Created,
	})
	return &Output{
		ContactID:  result.ContactID,
		Created:    result.Created,
		Subscribed: true,
		Tags:       sub.Tags,
	}, nil
}

func mergeTags(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, tag := range append(append([]string{}, base...), extra...) {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
