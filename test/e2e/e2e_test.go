//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-intelligence/internal/chat/turn"
	"lead-intelligence/internal/common/config"
	"lead-intelligence/internal/common/database"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/lead/notify"
	"lead-intelligence/internal/lead/persistence"
	"lead-intelligence/internal/lead/store"
	"lead-intelligence/internal/models"

	checkleadpriority "lead-intelligence/internal/workers/lead/check-lead-priority"
	generateleadintelligence "lead-intelligence/internal/workers/lead/generate-lead-intelligence"
	persistleadintelligence "lead-intelligence/internal/workers/lead/persist-lead-intelligence"
)

// Runs against the stores named in configs/config.yaml (or the environment):
//
//	go test -tags e2e ./test/e2e/...

const scenarioA = "We're a healthcare company struggling with HIPAA audit trails, can we get a demo?"

// capturingNotifier records dispatches instead of sending email.
type capturingNotifier struct {
	mu       sync.Mutex
	sales    []models.LeadNotification
	welcomes []models.WelcomeMessage
}

func (c *capturingNotifier) NotifySalesTeam(_ context.Context, rec models.LeadNotification) (*notify.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sales = append(c.sales, rec)
	return &notify.Result{EmailMessageID: "e2e"}, nil
}

func (c *capturingNotifier) SendWelcome(_ context.Context, msg models.WelcomeMessage) (*notify.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.welcomes = append(c.welcomes, msg)
	return &notify.Result{EmailMessageID: "e2e"}, nil
}

type environment struct {
	records  *store.PostgresStore
	cache    *store.ContextCache
	notifier *capturingNotifier
	service  *persistence.Service
	log      logger.Logger
}

func setup(t *testing.T) *environment {
	t.Helper()
	if os.Getenv("ZEEBE_ADDRESS") == "" {
		// The loader insists on a broker address even though these tests never dial Zeebe.
		t.Setenv("ZEEBE_ADDRESS", "localhost:26500")
	}
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	ctx := context.Background()
	stores := database.Connect(ctx, cfg.Database, log)
	t.Cleanup(stores.Close)
	if stores.Postgres == nil || stores.Redis == nil {
		t.Skip("postgres and redis are required for e2e tests")
	}
	require.NoError(t, stores.Postgres.Migrate(ctx, store.Schema))

	env := &environment{
		records:  store.NewPostgresStore(stores.Postgres.DB),
		cache:    store.NewContextCache(stores.Redis.Client, time.Hour, time.Minute),
		notifier: &capturingNotifier{},
		log:      log,
	}
	env.service = persistence.NewService(env.records, persistence.Options{
		Cache:    env.cache,
		Notifier: env.notifier,
	}, log)
	return env
}

// ==========================
// Worker chain
// ==========================

func TestLeadPipeline(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	sessionID := uuid.New().String()
	info := models.UserInfo{
		Email:   fmt.Sprintf("e2e-%s@example.com", sessionID[:8]),
		Name:    "E2E Tester",
		Company: "Acme Health",
	}
	messages := []models.ChatMessage{{Role: models.RoleUser, Content: scenarioA}}

	generate := generateleadintelligence.NewHandler(generateleadintelligence.DefaultConfig(), nil, env.log)
	scored, err := generate.Execute(ctx, &generateleadintelligence.Input{Messages: messages, UserInfo: info})
	require.NoError(t, err)
	assert.Equal(t, models.IntentCategoryHot, scored.IntentCategory)
	assert.Equal(t, models.PriorityTier1, scored.PriorityTier)

	persist := persistleadintelligence.NewHandler(persistleadintelligence.DefaultConfig(), env.service, env.log)
	saved, err := persist.Execute(ctx, &persistleadintelligence.Input{
		SessionID:        sessionID,
		UserInfo:         info,
		Messages:         messages,
		LeadIntelligence: scored.LeadIntelligence,
	})
	require.NoError(t, err)
	require.True(t, saved.Persisted)
	require.NotEmpty(t, saved.UserID)
	assert.True(t, saved.NotifyQueued)
	assert.True(t, saved.WelcomeQueued)
	env.service.Wait()

	env.notifier.mu.Lock()
	require.Len(t, env.notifier.sales, 1)
	assert.Equal(t, info.Email, env.notifier.sales[0].Email)
	require.Len(t, env.notifier.welcomes, 1)
	env.notifier.mu.Unlock()

	check := checkleadpriority.NewHandler(checkleadpriority.DefaultConfig(), env.cache, env.records, env.log)
	priority, err := check.Execute(ctx, &checkleadpriority.Input{UserID: saved.UserID})
	require.NoError(t, err)
	assert.True(t, priority.Found)
	assert.Equal(t, checkleadpriority.SourceCache, priority.Source)
	assert.Equal(t, models.PriorityTier1, priority.PriorityTier)
	assert.True(t, priority.ShouldNotify)

	// A weaker follow-up turn never lowers the stored score.
	followUp := []models.ChatMessage{{Role: models.RoleUser, Content: "thanks"}}
	weaker, err := generate.Execute(ctx, &generateleadintelligence.Input{Messages: followUp, UserInfo: info})
	require.NoError(t, err)
	again, err := persist.Execute(ctx, &persistleadintelligence.Input{
		SessionID:        sessionID,
		UserInfo:         info,
		Messages:         append(messages, followUp...),
		LeadIntelligence: weaker.LeadIntelligence,
	})
	require.NoError(t, err)
	env.service.Wait()
	assert.Equal(t, saved.BuyIntentScore, again.BuyIntentScore)
	assert.Greater(t, again.Version, saved.Version)
	assert.False(t, again.WelcomeQueued)

	stored, err := env.records.GetLeadIntelligence(ctx, saved.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, again.Version, stored.Version)
}

// ==========================
// Chat turn over real stores
// ==========================

func TestChatTurnPersists(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	sessionID := uuid.New().String()

	processor := turn.NewProcessor(turn.Options{Contexts: env.cache, Saver: env.service}, env.log)
	first, err := processor.Process(ctx, turn.Request{Message: scenarioA, SessionID: sessionID})
	require.NoError(t, err)
	require.NotEmpty(t, first.UserID)
	require.NotNil(t, first.Lead)
	assert.Equal(t, models.PriorityTier1, first.Lead.PriorityTier)

	cached, err := env.cache.GetContext(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, first.UserContext, cached)

	second, err := processor.Process(ctx, turn.Request{
		Message:   "Can we see a demo next week?",
		SessionID: sessionID,
		ConversationHistory: []models.ChatMessage{
			{Role: models.RoleUser, Content: scenarioA},
			{Role: models.RoleAssistant, Content: first.Response},
		},
	})
	require.NoError(t, err)
	env.service.Wait()

	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, "healthcare", second.ContextSummary.Industry)
	assert.GreaterOrEqual(t, second.Lead.BuyIntentScore, first.Lead.BuyIntentScore)
}
