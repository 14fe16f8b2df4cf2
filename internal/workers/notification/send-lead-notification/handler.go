// internal/workers/notification/send-lead-notification/handler.go
package sendleadnotification

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
	"github.com/google/uuid"
)

const TaskType = "send-lead-notification"

var ErrMissingRecord = errors.New("VALIDATION_FAILED")

// Notifier is satisfied by *notify.SalesNotifier.
type Notifier interface {
	NotifySalesTeam(ctx context.Context, rec models.LeadNotification) (*notify.Result, error)
	SendWelcome(ctx context.Context, msg models.WelcomeMessage) (*notify.Result, error)
}

type Handler struct {
	config   *Config
	notifier Notifier
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(cfg *Config, notifier Notifier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   cfg,
		notifier: notifier,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	switch input.Kind {
	case models.NotificationSalesAlert:
		rec, err := salesRecord(input)
		if err != nil {
			return nil, err
		}
		result, err := h.notifier.NotifySalesTeam(ctx, rec)
		if err != nil {
			return nil, err
		}
		return newOutput(input.Kind, rec.ID, result), nil

	case models.NotificationWelcome:
		msg, err := welcomeMessage(input)
		if err != nil {
			return nil, err
		}
		result, err := h.notifier.SendWelcome(ctx, msg)
		if err != nil {
			return nil, err
		}
		return newOutput(input.Kind, msg.ID, result), nil

	default:
		return nil, fmt.Errorf("%w: unknown notification kind %q", ErrMissingRecord, input.Kind)
	}
}

func salesRecord(input *Input) (models.LeadNotification, error) {
	if input.Notification != nil {
		rec := *input.Notification
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		return rec, nil
	}
	if input.UserInfo != nil && input.LeadIntelligence != nil {
		return notify.BuildLeadNotification(*input.UserInfo, input.LeadIntelligence), nil
	}
	return models.LeadNotification{}, fmt.Errorf("%w: sales alert needs a notification or userInfo with leadIntelligence", ErrMissingRecord)
}

func welcomeMessage(input *Input) (models.WelcomeMessage, error) {
	if input.Welcome != nil {
		msg := *input.Welcome
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}
		return msg, nil
	}
	if input.UserInfo != nil && input.UserInfo.Email != "" {
		return notify.BuildWelcome(*input.UserInfo), nil
	}
	return models.WelcomeMessage{}, fmt.Errorf("%w: welcome needs a recipient", ErrMissingRecord)
}

func newOutput(kind models.NotificationKind, id string, result *notify.Result) *Output {
	return &Output{
		Kind:             kind,
		NotificationID:   id,
		NotificationSent: !result.Skipped,
		Skipped:          result.Skipped,
		EmailMessageID:   result.EmailMessageID,
		SMSMessageIDs:    result.SMSMessageIDs,
	}
}
