// internal/lead/persistence/service_test.go
package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/lead/notify"
	"lead-intelligence/internal/lead/store"
	"lead-intelligence/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test doubles
// ==========================

type memoryStore struct {
	mu            sync.Mutex
	users         map[string]*models.User
	conversations map[string]*models.Conversation
	leads         map[string]models.LeadIntelligence

	conflicts int
	writeErr  error
	readErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         map[string]*models.User{},
		conversations: map[string]*models.Conversation{},
		leads:         map[string]models.LeadIntelligence{},
	}
}

func (m *memoryStore) GetUserBySession(_ context.Context, sessionID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	u, ok := m.users[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memoryStore) UpsertUser(_ context.Context, sessionID string, info models.UserInfo) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	u, ok := m.users[sessionID]
	if !ok {
		u = &models.User{ID: "user-" + sessionID, SessionID: sessionID}
		m.users[sessionID] = u
	}
	setIf(&u.Email, info.Email)
	setIf(&u.Name, info.Name)
	setIf(&u.Company, info.Company)
	setIf(&u.JobTitle, info.JobTitle)
	cp := *u
	return &cp, nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (m *memoryStore) UpsertConversation(_ context.Context, conv *models.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *conv
	m.conversations[conv.SessionID] = &cp
	return nil
}

func (m *memoryStore) GetLeadIntelligence(_ context.Context, userID string) (*models.LeadIntelligence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	li, ok := m.leads[userID]
	if !ok {
		return nil, nil
	}
	return &li, nil
}

func (m *memoryStore) InsertLeadIntelligence(_ context.Context, li *models.LeadIntelligence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leads[li.UserID]; ok {
		return store.ErrVersionConflict
	}
	li.Version = 1
	m.leads[li.UserID] = *li
	return nil
}

func (m *memoryStore) UpdateLeadIntelligence(_ context.Context, li *models.LeadIntelligence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts > 0 {
		m.conflicts--
		return store.ErrVersionConflict
	}
	if m.leads[li.UserID].Version != li.Version {
		return store.ErrVersionConflict
	}
	li.Version++
	m.leads[li.UserID] = *li
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	sales    []models.LeadNotification
	welcomes []models.WelcomeMessage
	err      error
}

func (r *recordingNotifier) NotifySalesTeam(_ context.Context, rec models.LeadNotification) (*notify.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = append(r.sales, rec)
	return &notify.Result{}, r.err
}

func (r *recordingNotifier) SendWelcome(_ context.Context, msg models.WelcomeMessage) (*notify.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.welcomes = append(r.welcomes, msg)
	return &notify.Result{}, r.err
}

type recordingList struct {
	mu   sync.Mutex
	subs []models.MailingListSubscriber
}

func (r *recordingList) Subscribe(_ context.Context, sub models.MailingListSubscriber) (*notify.SubscribeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
	return &notify.SubscribeResult{Created: true}, nil
}

type recordingIndexer struct {
	mu     sync.Mutex
	scores []int
}

func (r *recordingIndexer) IndexLead(_ context.Context, _ models.UserInfo, li *models.LeadIntelligence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = append(r.scores, li.BuyIntentScore)
	return nil
}

// slowFirstCache holds back the first priority write so it lands after later ones.
type slowFirstCache struct {
	*store.ContextCache
	once  sync.Once
	delay time.Duration
}

func (c *slowFirstCache) SetPriority(ctx context.Context, rec store.PriorityRecord) error {
	c.once.Do(func() { time.Sleep(c.delay) })
	return c.ContextCache.SetPriority(ctx, rec)
}

func newCache(t *testing.T) (*store.ContextCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return store.NewContextCache(client, time.Hour, time.Hour), mr
}

func scored(score int, urgency models.Urgency, sigs ...models.SignalType) *models.LeadIntelligence {
	li := &models.LeadIntelligence{
		BuyIntentScore: score,
		Urgency:        urgency,
		CompanySize:    models.CompanySizeUnknown,
		UpdatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	for i, s := range sigs {
		li.BehavioralSignals = append(li.BehavioralSignals, models.BehavioralSignal{
			Type:       s,
			Content:    fmt.Sprintf("%s message %d", s, i),
			Confidence: 0.8,
		})
	}
	return li
}

// ==========================
// Save
// ==========================

func TestSave_UnavailableStore(t *testing.T) {
	svc := NewService(nil, Options{}, logger.NewTestLogger(t))
	assert.Nil(t, svc.Save(context.Background(), SaveRequest{SessionID: "s-1"}))

	var nilSvc *Service
	assert.Nil(t, nilSvc.Save(context.Background(), SaveRequest{SessionID: "s-1"}))
}

func TestSave_WriteFailureReturnsNil(t *testing.T) {
	records := newMemoryStore()
	records.writeErr = errors.New("connection refused")
	notifier := &recordingNotifier{}

	svc := NewService(records, Options{Notifier: notifier}, logger.NewTestLogger(t))
	res := svc.Save(context.Background(), SaveRequest{SessionID: "s-1", Intelligence: scored(90, models.UrgencyHigh)})
	svc.Wait()

	assert.Nil(t, res)
	assert.Empty(t, notifier.sales)
}

func TestSave_ScoreNeverDecreases(t *testing.T) {
	records := newMemoryStore()
	svc := NewService(records, Options{}, logger.NewTestLogger(t))
	ctx := context.Background()

	first := svc.Save(ctx, SaveRequest{SessionID: "s-1", Intelligence: scored(65, models.UrgencyHigh, models.SignalDemoRequest)})
	require.NotNil(t, first)
	assert.Equal(t, 65, first.Intelligence.BuyIntentScore)

	second := svc.Save(ctx, SaveRequest{SessionID: "s-1", Intelligence: scored(20, models.UrgencyLow, models.SignalFeatureInterest)})
	svc.Wait()

	require.NotNil(t, second)
	assert.Equal(t, 65, second.Intelligence.BuyIntentScore)
	assert.Equal(t, models.IntentCategoryHot, second.Intelligence.IntentCategory)
	assert.Equal(t, models.UrgencyHigh, second.Intelligence.Urgency)
	assert.Len(t, second.Intelligence.BehavioralSignals, 2)
	assert.Equal(t, 2, records.leads["user-s-1"].Version)
}

func TestSave_PriorityCacheIgnoresOutOfOrderWrites(t *testing.T) {
	cache, _ := newCache(t)
	slow := &slowFirstCache{ContextCache: cache, delay: 50 * time.Millisecond}
	svc := NewService(newMemoryStore(), Options{Cache: slow}, logger.NewTestLogger(t))
	ctx := context.Background()

	require.NotNil(t, svc.Save(ctx, SaveRequest{SessionID: "s-1", Intelligence: scored(40, models.UrgencyLow)}))
	require.NotNil(t, svc.Save(ctx, SaveRequest{SessionID: "s-1", Intelligence: scored(85, models.UrgencyLow)}))
	svc.Wait()

	rec, err := cache.GetPriority(ctx, "user-s-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 85, rec.BuyIntentScore)
	assert.Equal(t, models.PriorityTier1, rec.PriorityTier)
	assert.Equal(t, 2, rec.Version)
}

func TestSave_RetriesVersionConflicts(t *testing.T) {
	records := newMemoryStore()
	svc := NewService(records, Options{}, logger.NewTestLogger(t))
	ctx := context.Background()

	require.NotNil(t, svc.Save(ctx, SaveRequest{SessionID: "s-1", Intelligence: scored(30, models.UrgencyLow)}))

	records.conflicts = 2
	res := svc.Save(ctx, SaveRequest{SessionID: "s-1", Intelligence: scored(50, models.UrgencyLow)})
	require.NotNil(t, res)
	assert.Equal(t, 3, res.WriteAttempts)
	assert.Equal(t, 50, res.Intelligence.BuyIntentScore)

	records.conflicts = 3
	assert.Nil(t, svc.Save(ctx, SaveRequest{SessionID: "s-1", Intelligence: scored(55, models.UrgencyLow)}))
	svc.Wait()
}

func TestSave_NotifiesHotOrTier1(t *testing.T) {
	tests := []struct {
		name   string
		lead   *models.LeadIntelligence
		notify bool
	}{
		{name: "hot", lead: scored(62, models.UrgencyLow), notify: true},
		{name: "immediate urgency", lead: scored(10, models.UrgencyImmediate), notify: true},
		{name: "warm tier2", lead: scored(45, models.UrgencyMedium), notify: false},
		{name: "cold tier3", lead: scored(5, models.UrgencyLow), notify: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			svc := NewService(newMemoryStore(), Options{Notifier: notifier}, logger.NewTestLogger(t))

			res := svc.Save(context.Background(), SaveRequest{SessionID: "s-1", Intelligence: tt.lead})
			svc.Wait()

			require.NotNil(t, res)
			assert.Equal(t, tt.notify, res.NotifyQueued)
			assert.Equal(t, tt.notify, len(notifier.sales) == 1)
		})
	}
}

func TestSave_SalesAlertOncePerRoutingChange(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newMemoryStore(), Options{Notifier: notifier}, logger.NewTestLogger(t))
	ctx := context.Background()

	steps := []struct {
		name   string
		lead   *models.LeadIntelligence
		queued bool
		sales  int
	}{
		{name: "warm tier2", lead: scored(45, models.UrgencyMedium), queued: false, sales: 0},
		{name: "turns hot", lead: scored(62, models.UrgencyLow), queued: true, sales: 1},
		{name: "still hot", lead: scored(65, models.UrgencyLow), queued: false, sales: 1},
		{name: "hot again", lead: scored(30, models.UrgencyLow), queued: false, sales: 1},
		{name: "promoted to tier1", lead: scored(75, models.UrgencyLow), queued: true, sales: 2},
		{name: "tier1 repeat", lead: scored(80, models.UrgencyLow), queued: false, sales: 2},
	}
	for _, step := range steps {
		res := svc.Save(ctx, SaveRequest{SessionID: "s-1", Intelligence: step.lead})
		svc.Wait()

		require.NotNil(t, res, step.name)
		assert.Equal(t, step.queued, res.NotifyQueued, step.name)
		assert.Len(t, notifier.sales, step.sales, step.name)
	}
	assert.Equal(t, models.PriorityTier1, notifier.sales[1].PriorityTier)
}

func TestSave_NotificationFailureDoesNotBlockWrite(t *testing.T) {
	records := newMemoryStore()
	notifier := &recordingNotifier{err: errors.New("ses unavailable")}
	svc := NewService(records, Options{Notifier: notifier}, logger.NewTestLogger(t))

	res := svc.Save(context.Background(), SaveRequest{
		SessionID:    "s-1",
		Info:         models.UserInfo{Email: "jane@acme.com", Name: "Jane"},
		Intelligence: scored(80, models.UrgencyHigh),
	})
	svc.Wait()

	require.NotNil(t, res)
	assert.Equal(t, 80, records.leads["user-s-1"].BuyIntentScore)
	assert.Len(t, notifier.sales, 1)
}

func TestSave_WelcomeOnceWhenContactCompletes(t *testing.T) {
	records := newMemoryStore()
	notifier := &recordingNotifier{}
	list := &recordingList{}
	indexer := &recordingIndexer{}
	cache, mr := newCache(t)

	svc := NewService(records, Options{
		Cache:       cache,
		Notifier:    notifier,
		MailingList: list,
		Indexer:     indexer,
	}, logger.NewTestLogger(t))
	ctx := context.Background()

	res := svc.Save(ctx, SaveRequest{SessionID: "s-1", Info: models.UserInfo{Email: "jane@acme.com"}, Intelligence: scored(10, models.UrgencyLow)})
	svc.Wait()
	require.NotNil(t, res)
	assert.False(t, res.WelcomeQueued)

	res = svc.Save(ctx, SaveRequest{SessionID: "s-1", Info: models.UserInfo{Name: "Jane Doe"}, Intelligence: scored(12, models.UrgencyLow)})
	svc.Wait()
	require.NotNil(t, res)
	assert.True(t, res.WelcomeQueued)

	res = svc.Save(ctx, SaveRequest{SessionID: "s-1", Info: models.UserInfo{Company: "Acme"}, Intelligence: scored(14, models.UrgencyLow)})
	svc.Wait()
	require.NotNil(t, res)
	assert.False(t, res.WelcomeQueued)

	require.Len(t, notifier.welcomes, 1)
	assert.Equal(t, "jane@acme.com", notifier.welcomes[0].Email)
	require.Len(t, list.subs, 1)
	assert.Equal(t, "Jane", list.subs[0].FirstName)
	assert.Equal(t, []int{10, 12, 14}, indexer.scores)

	assert.True(t, mr.Exists("lead:priority:user-s-1"))
	assert.True(t, mr.Exists("lead:welcome:user-s-1"))
}

func TestSave_ConversationReplacedWholesale(t *testing.T) {
	records := newMemoryStore()
	svc := NewService(records, Options{}, logger.NewTestLogger(t))
	ctx := context.Background()

	svc.Save(ctx, SaveRequest{SessionID: "s-1", Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}}})
	svc.Save(ctx, SaveRequest{SessionID: "s-1", Messages: []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello"},
		{Role: models.RoleUser, Content: "pricing?"},
	}})

	assert.Len(t, records.conversations["s-1"].Messages, 3)
	assert.Equal(t, "user-s-1", records.conversations["s-1"].UserID)
}

// ==========================
// Merge
// ==========================

func TestMerge_CapsSignals(t *testing.T) {
	stored := scored(40, models.UrgencyLow)
	for i := 0; i < 48; i++ {
		stored.BehavioralSignals = append(stored.BehavioralSignals, models.BehavioralSignal{
			Type: models.SignalPainPoint, Content: fmt.Sprintf("old pain %d", i), Confidence: 0.5,
		})
	}
	incoming := scored(30, models.UrgencyLow, models.SignalDemoRequest, models.SignalPricingInterest, models.SignalTimelineMention, models.SignalPainPoint)

	merged := Merge(stored, incoming, models.UserInfo{})

	require.Len(t, merged.BehavioralSignals, models.MaxStoredSignals)
	assert.Equal(t, "old pain 2", merged.BehavioralSignals[0].Content)
	assert.Equal(t, models.SignalPainPoint, merged.BehavioralSignals[49].Type)
}

func TestMerge_UpgradedDuplicateSurvivesCap(t *testing.T) {
	stored := scored(40, models.UrgencyLow, models.SignalPricingInterest)
	stored.BehavioralSignals[0].Confidence = 0.4
	for i := 0; i < 49; i++ {
		stored.BehavioralSignals = append(stored.BehavioralSignals, models.BehavioralSignal{
			Type: models.SignalPainPoint, Content: fmt.Sprintf("old pain %d", i), Confidence: 0.5,
		})
	}
	incoming := scored(30, models.UrgencyLow, models.SignalDemoRequest)
	incoming.BehavioralSignals = append(incoming.BehavioralSignals, models.BehavioralSignal{
		Type: models.SignalPricingInterest, Content: "PRICING_INTEREST MESSAGE 0", Confidence: 0.9,
	})

	merged := Merge(stored, incoming, models.UserInfo{})

	require.Len(t, merged.BehavioralSignals, models.MaxStoredSignals)
	last := merged.BehavioralSignals[len(merged.BehavioralSignals)-1]
	assert.Equal(t, models.SignalPricingInterest, last.Type)
	assert.Equal(t, 0.9, last.Confidence)
	assert.Equal(t, "old pain 1", merged.BehavioralSignals[0].Content)
}

func TestMerge_ResearchAndSize(t *testing.T) {
	stored := scored(55, models.UrgencyMedium)
	stored.CompanySize = models.CompanySizeEnterprise
	stored.CompanyResearch = &models.CompanyResearch{Industry: "healthcare", ComplianceRequirements: []string{"HIPAA"}}
	stored.UserResearch = &models.UserResearch{RoleSeniority: models.SeniorityCLevel, JobTitle: "CTO"}

	incoming := scored(20, models.UrgencyLow)
	incoming.CompanyResearch = &models.CompanyResearch{Industry: "finance", ComplianceRequirements: []string{"SOC 2", "HIPAA"}}
	incoming.UserResearch = &models.UserResearch{RoleSeniority: models.SeniorityUnknown}

	merged := Merge(stored, incoming, models.UserInfo{Email: "cto@acme.com"})

	assert.Equal(t, models.CompanySizeEnterprise, merged.CompanySize)
	assert.Equal(t, "healthcare", merged.Industry())
	assert.Equal(t, []string{"HIPAA", "SOC 2"}, merged.ComplianceRequirements())
	assert.Equal(t, models.SeniorityCLevel, merged.UserResearch.RoleSeniority)
	assert.Equal(t, models.QualificationQualified, merged.QualificationStatus)
	assert.Equal(t, models.PriorityTier1, merged.PriorityTier)
	assert.Equal(t, models.UrgencyMedium, merged.Urgency)
}

func TestMerge_FirstWrite(t *testing.T) {
	incoming := scored(35, models.UrgencyLow, models.SignalPricingInterest)
	merged := Merge(nil, incoming, models.UserInfo{Company: "Acme"})

	assert.Equal(t, models.IntentCategoryWarm, merged.IntentCategory)
	assert.Equal(t, models.QualificationNurture, merged.QualificationStatus)
	assert.Equal(t, models.PriorityTier2, merged.PriorityTier)
	assert.NotSame(t, incoming, merged)
}
