// internal/lead/store/cache_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"lead-intelligence/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*ContextCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewContextCache(client, time.Hour, 5*time.Minute), mr
}

func TestContextCache_RoundTrip(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	got, err := cache.GetContext(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, cache.SetContext(ctx, "sess-1", `{"sessionId":"sess-1"}`))

	got, err = cache.GetContext(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, `{"sessionId":"sess-1"}`, got)
	assert.Equal(t, time.Hour, mr.TTL("chat:context:sess-1"))
}

func TestContextCache_MarkWelcomeSentOnce(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	first, err := cache.MarkWelcomeSent(ctx, "u-1")
	require.NoError(t, err)
	second, err := cache.MarkWelcomeSent(ctx, "u-1")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestContextCache_Priority(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	miss, err := cache.GetPriority(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, miss)

	rec := NewPriorityRecord(&models.LeadIntelligence{
		UserID:         "u-1",
		PriorityTier:   models.PriorityTier1,
		IntentCategory: models.IntentCategoryHot,
		BuyIntentScore: 73,
		Urgency:        models.UrgencyHigh,
	})
	require.NoError(t, cache.SetPriority(ctx, rec))

	got, err := cache.GetPriority(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)

	mr.FastForward(6 * time.Minute)
	expired, err := cache.GetPriority(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestContextCache_PriorityKeepsNewestVersion(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	newer := PriorityRecord{UserID: "u-1", PriorityTier: models.PriorityTier1, IntentCategory: models.IntentCategoryHot, BuyIntentScore: 85, Version: 2}
	older := PriorityRecord{UserID: "u-1", PriorityTier: models.PriorityTier2, IntentCategory: models.IntentCategoryWarm, BuyIntentScore: 40, Version: 1}

	require.NoError(t, cache.SetPriority(ctx, newer))
	require.NoError(t, cache.SetPriority(ctx, older))

	got, err := cache.GetPriority(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer, *got)
	assert.Equal(t, 5*time.Minute, mr.TTL("lead:priority:u-1:version"))

	// Same version rewrites, as a store backfill does.
	backfill := newer
	backfill.Urgency = models.UrgencyHigh
	require.NoError(t, cache.SetPriority(ctx, backfill))

	got, err = cache.GetPriority(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyHigh, got.Urgency)

	newest := PriorityRecord{UserID: "u-1", PriorityTier: models.PriorityTier1, IntentCategory: models.IntentCategoryHot, BuyIntentScore: 90, Version: 3}
	require.NoError(t, cache.SetPriority(ctx, newest))

	got, err = cache.GetPriority(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 90, got.BuyIntentScore)
}

func TestContextCache_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewContextCache(client, time.Hour, time.Minute)
	ctx := context.Background()

	mock.ExpectGet("chat:context:sess-1").SetErr(errors.New("connection refused"))
	_, err := cache.GetContext(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrReadFailed)

	mock.ExpectSet("chat:context:sess-1", "{}", time.Hour).SetErr(errors.New("READONLY"))
	err = cache.SetContext(ctx, "sess-1", "{}")
	assert.ErrorIs(t, err, ErrWriteFailed)

	mock.ExpectEval(setPriorityScript,
		[]string{"lead:priority:u-1", "lead:priority:u-1:version"},
		3, `{"userId":"u-1","priorityTier":"","intentCategory":"","buyIntentScore":0,"urgency":"","version":3}`, int64(60000),
	).SetErr(errors.New("NOSCRIPT"))
	err = cache.SetPriority(ctx, PriorityRecord{UserID: "u-1", Version: 3})
	assert.ErrorIs(t, err, ErrWriteFailed)

	mock.ExpectGet("lead:priority:u-1").SetVal("not-json")
	_, err = cache.GetPriority(ctx, "u-1")
	assert.ErrorIs(t, err, ErrReadFailed)

	assert.NoError(t, mock.ExpectationsWereMet())
}
