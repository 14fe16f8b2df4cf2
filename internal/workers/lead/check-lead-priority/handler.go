// internal/workers/lead/check-lead-priority/handler.go
package checkleadpriority

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lead-intelligence/internal/common/camunda"
	apperrors "lead-intelligence/internal/common/errors"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/metrics"
	"lead-intelligence/internal/lead/store"
	"lead-intelligence/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "check-lead-priority"

var (
	ErrMissingUserID      = errors.New("VALIDATION_FAILED")
	ErrStoreNotConfigured = errors.New("STORE_NOT_CONFIGURED")
)

// PriorityCache is satisfied by *store.ContextCache.
type PriorityCache interface {
	GetPriority(ctx context.Context, userID string) (*store.PriorityRecord, error)
	SetPriority(ctx context.Context, rec store.PriorityRecord) error
}

// IntelligenceReader is satisfied by *store.PostgresStore.
type IntelligenceReader interface {
	GetLeadIntelligence(ctx context.Context, userID string) (*models.LeadIntelligence, error)
}

type Handler struct {
	config  *Config
	cache   PriorityCache
	records IntelligenceReader
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

// NewHandler accepts a nil cache; lookups then go straight to the store.
func NewHandler(cfg *Config, cache PriorityCache, records IntelligenceReader, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  cfg,
		cache:   cache,
		records: records,
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := job.GetVariablesAs(&input); err != nil {
		err = apperrors.NewInputParsingFailedError(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeInputParsingFailed)).Inc()
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.Execute(ctx, &input)
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

// Execute reads the routing view from Redis, falling back to Postgres and backfilling the cache.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrMissingUserID)
	}

	if rec := h.cached(ctx, userID); rec != nil {
		return h.output(*rec, SourceCache), nil
	}

	if h.records == nil {
		return nil, fmt.Errorf("%w: lead store", ErrStoreNotConfigured)
	}
	li, err := h.records.GetLeadIntelligence(ctx, userID)
	if err != nil {
		return nil, err
	}
	if li == nil {
		h.logger.Info("no lead intelligence stored", map[string]interface{}{"userId": userID})
		return &Output{UserID: userID, Source: SourceNone}, nil
	}

	rec := store.NewPriorityRecord(li)
	if h.cache != nil {
		if err := h.cache.SetPriority(ctx, rec); err != nil {
			h.logger.Warn("priority cache backfill failed", map[string]interface{}{"userId": userID, "error": err.Error()})
		}
	}
	return h.output(rec, SourceStore), nil
}

func (h *Handler) cached(ctx context.Context, userID string) *store.PriorityRecord {
	if h.cache == nil {
		return nil
	}
	rec, err := h.cache.GetPriority(ctx, userID)
	if err != nil {
		h.logger.Warn("priority cache read failed", map[string]interface{}{"userId": userID, "error": err.Error()})
		return nil
	}
	return rec
}

func (h *Handler) output(rec store.PriorityRecord, source string) *Output {
	out := &Output{
		UserID:         rec.UserID,
		Found:          true,
		PriorityTier:   rec.PriorityTier,
		IntentCategory: rec.IntentCategory,
		BuyIntentScore: rec.BuyIntentScore,
		Urgency:        rec.Urgency,
		ShouldNotify:   h.shouldNotify(rec),
		Source:         source,
	}
	h.logger.Info("lead priority resolved", map[string]interface{}{
		"userId":       out.UserID,
		"priorityTier": out.PriorityTier,
		"shouldNotify": out.ShouldNotify,
		"source":       source,
	})
	return out
}

func (h *Handler) shouldNotify(rec store.PriorityRecord) bool {
	if rec.IntentCategory == models.IntentCategoryHot {
		return true
	}
	for _, tier := range h.config.NotifyTiers {
		if rec.PriorityTier == tier {
			return true
		}
	}
	return false
}
