// internal/lead/persistence/service.go
package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/metrics"
	"lead-intelligence/internal/common/observability"
	"lead-intelligence/internal/lead/notify"
	"lead-intelligence/internal/lead/store"
	"lead-intelligence/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultWriteAttempts = 3

// RecordStore is the durable side of the service; store.PostgresStore implements it.
type RecordStore interface {
	GetUserBySession(ctx context.Context, sessionID string) (*models.User, error)
	UpsertUser(ctx context.Context, sessionID string, info models.UserInfo) (*models.User, error)
	UpsertConversation(ctx context.Context, conv *models.Conversation) error
	GetLeadIntelligence(ctx context.Context, userID string) (*models.LeadIntelligence, error)
	InsertLeadIntelligence(ctx context.Context, li *models.LeadIntelligence) error
	UpdateLeadIntelligence(ctx context.Context, li *models.LeadIntelligence) error
}

// LeadCache holds routing data and the one-time welcome marker; store.ContextCache implements it.
type LeadCache interface {
	SetPriority(ctx context.Context, rec store.PriorityRecord) error
	MarkWelcomeSent(ctx context.Context, userID string) (bool, error)
}

type Notifier interface {
	NotifySalesTeam(ctx context.Context, rec models.LeadNotification) (*notify.Result, error)
	SendWelcome(ctx context.Context, msg models.WelcomeMessage) (*notify.Result, error)
}

type MailingList interface {
	Subscribe(ctx context.Context, sub models.MailingListSubscriber) (*notify.SubscribeResult, error)
}

type Indexer interface {
	IndexLead(ctx context.Context, info models.UserInfo, li *models.LeadIntelligence) error
}

// Options wires the optional collaborators. Any nil field disables that side effect.
type Options struct {
	Cache         LeadCache
	Notifier      Notifier
	MailingList   MailingList
	Indexer       Indexer
	Observability *observability.Observability
	WriteAttempts int
	// DispatchTimeout bounds each background side effect.
	DispatchTimeout time.Duration
}

type SaveRequest struct {
	SessionID    string
	Info         models.UserInfo
	Messages     []models.ChatMessage
	Intelligence *models.LeadIntelligence
}

type SaveResult struct {
	User          *models.User             `json:"user"`
	Intelligence  *models.LeadIntelligence `json:"intelligence,omitempty"`
	NotifyQueued  bool                     `json:"notifyQueued"`
	WelcomeQueued bool                     `json:"welcomeQueued"`
	WriteAttempts int                      `json:"writeAttempts"`
}

// Service persists a scored chat turn and fans out best-effort notifications.
type Service struct {
	records         RecordStore
	cache           LeadCache
	notifier        Notifier
	mailingList     MailingList
	indexer         Indexer
	obs             *observability.Observability
	writeAttempts   int
	dispatchTimeout time.Duration
	logger          logger.Logger

	wg sync.WaitGroup
}

// NewService accepts a nil RecordStore; Save then degrades to a logged no-op.
func NewService(records RecordStore, opts Options, log logger.Logger) *Service {
	attempts := opts.WriteAttempts
	if attempts <= 0 {
		attempts = defaultWriteAttempts
	}
	timeout := opts.DispatchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		records:         records,
		cache:           opts.Cache,
		notifier:        opts.Notifier,
		mailingList:     opts.MailingList,
		indexer:         opts.Indexer,
		obs:             opts.Observability,
		writeAttempts:   attempts,
		dispatchTimeout: timeout,
		logger:          log.WithFields(map[string]interface{}{"component": "lead-persistence"}),
	}
}

func (s *Service) Available() bool {
	return s != nil && s.records != nil
}

// Save returns nil when the store is unavailable or a write fails; callers treat that as
// "intelligence unavailable this turn".
func (s *Service) Save(ctx context.Context, req SaveRequest) *SaveResult {
	if s == nil {
		return nil
	}
	if s.records == nil {
		s.logger.Warn("record store not configured, skipping persistence", map[string]interface{}{"sessionId": req.SessionID})
		return nil
	}

	ctx, span := s.obs.StartSpan(ctx, "lead.persist", attribute.String("session.id", req.SessionID))
	defer span.End()

	previous, err := s.records.GetUserBySession(ctx, req.SessionID)
	if err != nil {
		s.fail(span, "failed to load user", req.SessionID, err)
		return nil
	}

	user, err := s.records.UpsertUser(ctx, req.SessionID, req.Info)
	if err != nil {
		s.fail(span, "failed to upsert user", req.SessionID, err)
		return nil
	}

	conv := &models.Conversation{SessionID: req.SessionID, UserID: user.ID, Messages: req.Messages}
	if err := s.records.UpsertConversation(ctx, conv); err != nil {
		s.fail(span, "failed to upsert conversation", req.SessionID, err)
		return nil
	}

	result := &SaveResult{User: user}
	if req.Intelligence == nil {
		return result
	}

	info := user.Info()
	incoming := *req.Intelligence
	incoming.UserID = user.ID

	stored, merged, attempts, err := s.writeIntelligence(ctx, &incoming, info)
	result.WriteAttempts = attempts
	if err != nil {
		s.fail(span, "failed to write lead intelligence", req.SessionID, err)
		return nil
	}
	result.Intelligence = merged
	span.SetAttributes(
		attribute.Int("lead.score", merged.BuyIntentScore),
		attribute.String("lead.tier", string(merged.PriorityTier)),
		attribute.Int("lead.write_attempts", attempts),
	)

	metrics.LeadIntelligenceScored.WithLabelValues(string(merged.IntentCategory)).Inc()
	metrics.LeadPriorityTier.WithLabelValues(string(merged.PriorityTier)).Inc()

	s.dispatch("index", func(ctx context.Context) error {
		if s.indexer == nil {
			return nil
		}
		return s.indexer.IndexLead(ctx, info, merged)
	})
	s.dispatch("priority-cache", func(ctx context.Context) error {
		if s.cache == nil {
			return nil
		}
		return s.cache.SetPriority(ctx, store.NewPriorityRecord(merged))
	})

	if s.notifier != nil && notifiable(merged) && routingChanged(stored, merged) {
		result.NotifyQueued = true
		rec := notify.BuildLeadNotification(info, merged)
		s.dispatch("sales-notification", func(ctx context.Context) error {
			_, err := s.notifier.NotifySalesTeam(ctx, rec)
			return err
		})
	}

	if contactJustCompleted(previous.Info(), info) {
		result.WelcomeQueued = true
		s.dispatch("welcome", func(ctx context.Context) error {
			return s.welcome(ctx, info, merged)
		})
	}

	s.logger.Info("lead intelligence persisted", map[string]interface{}{
		"userId":         user.ID,
		"buyIntentScore": merged.BuyIntentScore,
		"priorityTier":   merged.PriorityTier,
		"version":        merged.Version,
	})
	return result
}

// Wait blocks until every background dispatch has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// writeIntelligence runs the read-merge-write cycle, retrying only on version conflicts. It returns
// the record read by the successful attempt (nil for a first write) alongside the merged one.
func (s *Service) writeIntelligence(ctx context.Context, incoming *models.LeadIntelligence, info models.UserInfo) (*models.LeadIntelligence, *models.LeadIntelligence, int, error) {
	for attempt := 1; attempt <= s.writeAttempts; attempt++ {
		stored, err := s.records.GetLeadIntelligence(ctx, incoming.UserID)
		if err != nil {
			return nil, nil, attempt, err
		}
		var before *models.LeadIntelligence
		if stored != nil {
			snapshot := *stored
			before = &snapshot
		}

		merged := Merge(stored, incoming, info)
		if stored == nil {
			err = s.records.InsertLeadIntelligence(ctx, merged)
		} else {
			err = s.records.UpdateLeadIntelligence(ctx, merged)
		}
		if err == nil {
			return before, merged, attempt, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, nil, attempt, err
		}
		s.logger.Debug("lead intelligence version conflict, retrying", map[string]interface{}{
			"userId":  incoming.UserID,
			"attempt": attempt,
		})
	}
	return nil, nil, s.writeAttempts, fmt.Errorf("%w: user %s after %d attempts", store.ErrVersionConflict, incoming.UserID, s.writeAttempts)
}

func notifiable(li *models.LeadIntelligence) bool {
	return li.PriorityTier == models.PriorityTier1 || li.IntentCategory == models.IntentCategoryHot
}

// routingChanged reports whether this write moved the lead into a new tier or category.
func routingChanged(stored, merged *models.LeadIntelligence) bool {
	if stored == nil {
		return true
	}
	return stored.PriorityTier != merged.PriorityTier || stored.IntentCategory != merged.IntentCategory
}

func (s *Service) welcome(ctx context.Context, info models.UserInfo, li *models.LeadIntelligence) error {
	if s.cache != nil {
		first, err := s.cache.MarkWelcomeSent(ctx, li.UserID)
		if err != nil {
			return err
		}
		if !first {
			return nil
		}
	}

	var errs []error
	if s.notifier != nil {
		if _, err := s.notifier.SendWelcome(ctx, notify.BuildWelcome(info)); err != nil {
			errs = append(errs, err)
		}
	}
	if s.mailingList != nil {
		if _, err := s.mailingList.Subscribe(ctx, notify.BuildSubscriber(info, li)); err != nil && !errors.Is(err, notify.ErrNotConfigured) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// dispatch runs fn on its own goroutine, detached from the caller's cancellation.
func (s *Service) dispatch(name string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Warn("background dispatch failed", map[string]interface{}{
				"dispatch": name,
				"error":    err.Error(),
			})
		}
	}()
}

func (s *Service) fail(span trace.Span, msg, sessionID string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.Error(msg, map[string]interface{}{"sessionId": sessionID, "error": err.Error()})
}

func contactJustCompleted(before, after models.UserInfo) bool {
	complete := func(u models.UserInfo) bool { return u.Email != "" && u.Name != "" }
	return complete(after) && !complete(before)
}
