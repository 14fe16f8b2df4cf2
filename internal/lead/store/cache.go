// internal/lead/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lead-intelligence/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	contextKeyPrefix  = "chat:context:"
	welcomeKeyPrefix  = "lead:welcome:"
	priorityKeyPrefix = "lead:priority:"
	versionKeySuffix  = ":version"

	welcomeMarkerTTL = 365 * 24 * time.Hour
)

// PriorityRecord is the cached routing view of a user's lead intelligence.
type PriorityRecord struct {
	UserID         string                `json:"userId"`
	PriorityTier   models.PriorityTier   `json:"priorityTier"`
	IntentCategory models.IntentCategory `json:"intentCategory"`
	BuyIntentScore int                   `json:"buyIntentScore"`
	Urgency        models.Urgency        `json:"urgency"`
	// Version is the lead_intelligence row version the record was built from.
	Version int `json:"version"`
}

func NewPriorityRecord(li *models.LeadIntelligence) PriorityRecord {
	return PriorityRecord{
		UserID:         li.UserID,
		PriorityTier:   li.PriorityTier,
		IntentCategory: li.IntentCategory,
		BuyIntentScore: li.BuyIntentScore,
		Urgency:        li.Urgency,
		Version:        li.Version,
	}
}

// ContextCache mirrors serialized session contexts and lead routing data in Redis.
type ContextCache struct {
	client      redis.Cmdable
	contextTTL  time.Duration
	priorityTTL time.Duration
}

func NewContextCache(client redis.Cmdable, contextTTL, priorityTTL time.Duration) *ContextCache {
	return &ContextCache{client: client, contextTTL: contextTTL, priorityTTL: priorityTTL}
}

// GetContext returns "" when the session has no cached context.
func (c *ContextCache) GetContext(ctx context.Context, sessionID string) (string, error) {
	val, err := c.client.Get(ctx, contextKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: context cache: %v", ErrReadFailed, err)
	}
	return val, nil
}

// SetContext stores the serialized context. Concurrent turns for one session are last-write-wins.
func (c *ContextCache) SetContext(ctx context.Context, sessionID, serialized string) error {
	if err := c.client.Set(ctx, contextKeyPrefix+sessionID, serialized, c.contextTTL).Err(); err != nil {
		return fmt.Errorf("%w: context cache: %v", ErrWriteFailed, err)
	}
	return nil
}

// MarkWelcomeSent reports true only for the first caller for a given user.
func (c *ContextCache) MarkWelcomeSent(ctx context.Context, userID string) (bool, error) {
	ok, err := c.client.SetNX(ctx, welcomeKeyPrefix+userID, time.Now().UTC().Format(time.RFC3339), welcomeMarkerTTL).Result()
	if err != nil {
		return false, fmt.Errorf("%w: welcome marker: %v", ErrWriteFailed, err)
	}
	return ok, nil
}

// setPriorityScript writes the record only when its version is not older than the cached one.
// KEYS[1] record, KEYS[2] version; ARGV[1] version, ARGV[2] payload, ARGV[3] ttl in ms (0 keeps forever).
const setPriorityScript = `
local current = tonumber(redis.call('GET', KEYS[2]) or '-1')
if tonumber(ARGV[1]) < current then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
	redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
	redis.call('SET', KEYS[2], ARGV[1])
end
return 1
`

// SetPriority stores rec unless a newer version is already cached. Writes from concurrent turns
// may arrive out of order; a stale record never replaces a fresher one.
func (c *ContextCache) SetPriority(ctx context.Context, rec PriorityRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: priority cache: %v", ErrWriteFailed, err)
	}
	key := priorityKeyPrefix + rec.UserID
	err = c.client.Eval(ctx, setPriorityScript,
		[]string{key, key + versionKeySuffix},
		rec.Version, string(payload), c.priorityTTL.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: priority cache: %v", ErrWriteFailed, err)
	}
	return nil
}

// GetPriority returns nil on a cache miss.
func (c *ContextCache) GetPriority(ctx context.Context, userID string) (*PriorityRecord, error) {
	val, err := c.client.Get(ctx, priorityKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: priority cache: %v", ErrReadFailed, err)
	}

	var rec PriorityRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("%w: priority cache: %v", ErrReadFailed, err)
	}
	return &rec, nil
}
