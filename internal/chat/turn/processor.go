// internal/chat/turn/processor.go
package turn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lead-intelligence/internal/chat/cards"
	"lead-intelligence/internal/chat/extraction"
	"lead-intelligence/internal/chat/intent"
	"lead-intelligence/internal/chat/usercontext"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/metrics"
	"lead-intelligence/internal/common/observability"
	"lead-intelligence/internal/lead/persistence"
	"lead-intelligence/internal/lead/scoring"
	"lead-intelligence/internal/lead/signals"
	"lead-intelligence/internal/llm"
	"lead-intelligence/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyMessage = errors.New("VALIDATION_FAILED")

// ContextStore mirrors serialized contexts upstream; store.ContextCache implements it.
type ContextStore interface {
	GetContext(ctx context.Context, sessionID string) (string, error)
	SetContext(ctx context.Context, sessionID, serialized string) error
}

type Responder interface {
	Configured() bool
	Respond(ctx context.Context, req llm.Request) (string, error)
}

// Saver persists a scored turn; *persistence.Service implements it.
type Saver interface {
	Save(ctx context.Context, req persistence.SaveRequest) *persistence.SaveResult
}

type Options struct {
	Contexts      ContextStore
	Responder     Responder
	Saver         Saver
	Random        usercontext.RandomSource
	Observability *observability.Observability
	LLMTimeout    time.Duration
	Now           func() time.Time
}

// Processor runs one chat turn end to end.
type Processor struct {
	contexts   ContextStore
	responder  Responder
	saver      Saver
	scorer     *scoring.Scorer
	random     usercontext.RandomSource
	obs        *observability.Observability
	llmTimeout time.Duration
	now        func() time.Time
	logger     logger.Logger
}

func NewProcessor(opts Options, log logger.Logger) *Processor {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	rnd := opts.Random
	if rnd == nil {
		rnd = usercontext.NewRandomSource(0)
	}
	timeout := opts.LLMTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Processor{
		contexts:   opts.Contexts,
		responder:  opts.Responder,
		saver:      opts.Saver,
		scorer:     &scoring.Scorer{Now: now},
		random:     rnd,
		obs:        opts.Observability,
		llmTimeout: timeout,
		now:        now,
		logger:     log.WithFields(map[string]interface{}{"component": "chat-turn"}),
	}
}

// perception is everything read off the inbound message before any state changes.
type perception struct {
	entities models.ExtractedEntities
	email    string
	label    intent.Label
	signals  []models.BehavioralSignal
}

// Process never fails on collaborator errors; only an empty message is rejected.
func (p *Processor) Process(ctx context.Context, req Request) (*Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrEmptyMessage)
	}

	ctx, span := p.obs.StartSpan(ctx, "chat.turn")
	defer span.End()

	now := p.now()
	uc := p.loadContext(ctx, req, now)
	span.SetAttributes(attribute.String("session.id", uc.SessionID))

	seen, err := p.perceive(ctx, message, uc, now)
	if err != nil {
		return nil, err
	}

	uc = usercontext.MergeEntities(uc, seen.entities, now)
	uc = usercontext.Update(uc, p.turnUpdate(uc, seen, req.PageContext), now)

	history := req.ConversationHistory
	messageCount := len(models.UserMessages(history)) + 1

	var morph *MorphTrigger
	if trigger := cards.DetectTrigger(message, uc, history); trigger != nil {
		custom := cards.Merge(trigger.Customizations, cards.GenerateCustomizations(trigger.CardType, uc))
		morph = &MorphTrigger{Type: trigger.CardType, Confidence: trigger.Confidence, Reason: trigger.Reason, Customizations: custom}
		uc = usercontext.Update(uc, models.ContextUpdate{CardsShown: []string{string(trigger.CardType)}}, now)
		metrics.ChatCardsTriggered.WithLabelValues(string(trigger.CardType)).Inc()
	}

	level := usercontext.EngagementLevel(uc, messageCount)
	uc = usercontext.Update(uc, models.ContextUpdate{EngagementLevel: &level}, now)

	var question *usercontext.ProfilingQuestion
	if usercontext.ShouldAskProfilingQuestion(messageCount, history, p.random) {
		if question = usercontext.SelectNextQuestion(uc, history); question != nil {
			uc = usercontext.Update(uc, models.ContextUpdate{QuestionsAsked: []string{question.ID}}, now)
		}
	}

	reply := p.reply(ctx, message, history, uc, seen.label)
	if question != nil {
		reply = reply + "\n\n" + question.Text
	}

	info := contactInfo(uc)
	userMessages := append(models.UserMessages(history), message)
	li := p.scorer.Generate("", userMessages, info, nil)
	if uc.CompanySize == nil && li.CompanySize != models.CompanySizeUnknown {
		size := li.CompanySize
		uc = usercontext.Update(uc, models.ContextUpdate{CompanySize: &size}, now)
	}

	transcript := make([]models.ChatMessage, 0, len(history)+2)
	transcript = append(transcript, history...)
	transcript = append(transcript,
		models.ChatMessage{Role: models.RoleUser, Content: message},
		models.ChatMessage{Role: models.RoleAssistant, Content: reply},
	)

	resp := &Response{
		Response:       reply,
		SessionID:      uc.SessionID,
		ContextSummary: usercontext.Summarize(uc),
		ExtractedInfo:  extractedInfo(seen, req.PageContext),
		MorphTrigger:   morph,
		Intent:         string(seen.label),
		Signals:        signals.Types(seen.signals),
		Lead:           newLeadSummary(li),
	}

	if p.saver != nil {
		if saved := p.saver.Save(ctx, persistence.SaveRequest{
			SessionID:    uc.SessionID,
			Info:         info,
			Messages:     transcript,
			Intelligence: li,
		}); saved != nil && saved.Intelligence != nil {
			resp.Lead = newLeadSummary(saved.Intelligence)
			resp.UserID = saved.User.ID
		}
	}

	serialized, err := usercontext.Serialize(uc)
	if err != nil {
		return nil, err
	}
	resp.UserContext = serialized
	p.storeContext(ctx, uc.SessionID, serialized)

	span.SetAttributes(
		attribute.String("chat.intent", string(seen.label)),
		attribute.Int("chat.signals", len(seen.signals)),
		attribute.Bool("chat.card", morph != nil),
	)
	return resp, nil
}

// loadContext prefers the client copy, then the cache, and falls back to a fresh context.
func (p *Processor) loadContext(ctx context.Context, req Request, now time.Time) *models.UserContext {
	raw := req.UserContext
	if raw == "" && p.contexts != nil && req.SessionID != "" {
		cached, err := p.contexts.GetContext(ctx, req.SessionID)
		if err != nil {
			p.logger.Warn("context cache read failed", map[string]interface{}{"sessionId": req.SessionID, "error": err.Error()})
		}
		raw = cached
	}
	if raw != "" {
		uc, err := usercontext.Deserialize(raw)
		if err == nil {
			return uc
		}
		p.logger.Warn("discarding malformed user context", map[string]interface{}{"sessionId": req.SessionID, "error": err.Error()})
	}
	return usercontext.New(req.SessionID, now)
}

// perceive runs the extractor, classifier and signal detector side by side.
func (p *Processor) perceive(ctx context.Context, message string, uc *models.UserContext, now time.Time) (perception, error) {
	var out perception
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.entities = extraction.ExtractEntities(message)
		out.email, _ = extraction.ExtractEmail(message)
		return nil
	})
	g.Go(func() error {
		out.label = intent.Detect(message, uc)
		return nil
	})
	g.Go(func() error {
		out.signals = signals.DetectAt(message, now)
		return nil
	})
	return out, g.Wait()
}

func (p *Processor) turnUpdate(uc *models.UserContext, seen perception, page PageContext) models.ContextUpdate {
	label := string(seen.label)
	upd := models.ContextUpdate{
		CurrentIntent: &label,
		BuyingSignals: signals.Types(seen.signals),
	}
	if seen.label.IsTopic() {
		upd.TopicsDiscussed = []string{label}
	}

	if email := firstNonEmpty(page.UserEmail, seen.email); email != "" {
		upd.Email = &email
	}
	if name := strings.TrimSpace(page.UserName); name != "" {
		upd.Name = &name
	}
	if company := strings.TrimSpace(page.UserCompany); company != "" && (uc.CompanyName == nil || *uc.CompanyName == "") {
		upd.CompanyName = &company
	}
	return upd
}

func (p *Processor) reply(ctx context.Context, message string, history []models.ChatMessage, uc *models.UserContext, label intent.Label) string {
	if p.responder == nil || !p.responder.Configured() {
		return llm.FallbackResponse(string(label))
	}

	ctx, cancel := context.WithTimeout(ctx, p.llmTimeout)
	defer cancel()

	text, err := p.responder.Respond(ctx, llm.Request{
		Message: message,
		History: history,
		Profile: profile(uc),
	})
	if err != nil {
		p.logger.Warn("completion failed, using fallback reply", map[string]interface{}{
			"sessionId": uc.SessionID,
			"error":     err.Error(),
		})
		return llm.FallbackResponse(string(label))
	}
	return text
}

func (p *Processor) storeContext(ctx context.Context, sessionID, serialized string) {
	if p.contexts == nil {
		return
	}
	if err := p.contexts.SetContext(ctx, sessionID, serialized); err != nil {
		p.logger.Warn("context cache write failed", map[string]interface{}{"sessionId": sessionID, "error": err.Error()})
	}
}

func contactInfo(uc *models.UserContext) models.UserInfo {
	return models.UserInfo{
		Email:    deref(uc.Email),
		Name:     deref(uc.Name),
		Company:  deref(uc.CompanyName),
		JobTitle: deref(uc.Role),
	}
}

func extractedInfo(seen perception, page PageContext) ExtractedInfo {
	info := ExtractedInfo{
		Email:   firstNonEmpty(page.UserEmail, seen.email),
		Name:    strings.TrimSpace(page.UserName),
		Company: strings.TrimSpace(page.UserCompany),
	}
	if seen.entities.CompanyName != nil && info.Company == "" {
		info.Company = *seen.entities.CompanyName
	}
	if seen.entities.Industry != nil {
		info.Industry = *seen.entities.Industry
	}
	info.AgentCount = seen.entities.AgentCount
	return info
}

func profile(uc *models.UserContext) string {
	var parts []string
	if uc.Industry != nil {
		parts = append(parts, "industry "+*uc.Industry)
	}
	if uc.CompanyName != nil {
		parts = append(parts, "company "+*uc.CompanyName)
	}
	if len(uc.PainPoints) > 0 {
		parts = append(parts, "pain points "+strings.Join(uc.PainPoints, ", "))
	}
	if len(uc.ComplianceFrameworks) > 0 {
		parts = append(parts, "compliance "+strings.Join(uc.ComplianceFrameworks, ", "))
	}
	if uc.AIAgentCount != nil {
		parts = append(parts, fmt.Sprintf("%d AI agents", *uc.AIAgentCount))
	}
	return strings.Join(parts, "; ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
