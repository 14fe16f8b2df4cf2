// internal/common/database/stores.go
package database

import (
	"context"
	"errors"
	"time"

	"lead-intelligence/internal/common/config"
	"lead-intelligence/internal/common/logger"
)

var ErrNotConfigured = errors.New("STORE_NOT_CONFIGURED")

// Stores holds whichever backends were reachable at startup. Nil fields mean degraded mode.
type Stores struct {
	Postgres      *PostgresClient
	Redis         *RedisClient
	Elasticsearch *ElasticsearchClient
}

// Connect dials every configured backend. Unconfigured or unreachable backends are logged and left nil.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) *Stores {
	s := &Stores{}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if pg, err := NewPostgres(cfg.Postgres); err != nil {
		log.Warn("postgres disabled", map[string]interface{}{"error": err.Error()})
	} else if err := pg.Ping(pingCtx); err != nil {
		log.Warn("postgres unreachable", map[string]interface{}{"error": err.Error()})
		_ = pg.Close()
	} else {
		s.Postgres = pg
	}

	if rdb, err := NewRedis(cfg.Redis); err != nil {
		log.Warn("redis disabled", map[string]interface{}{"error": err.Error()})
	} else if err := rdb.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
	} else {
		s.Redis = rdb
	}

	if es, err := NewElasticsearch(cfg.Elasticsearch); err != nil {
		log.Warn("elasticsearch disabled", map[string]interface{}{"error": err.Error()})
	} else if err := es.Ping(pingCtx); err != nil {
		log.Warn("elasticsearch unreachable", map[string]interface{}{"error": err.Error()})
	} else {
		s.Elasticsearch = es
	}

	return s
}

// Ready reports the reachability of each backend for the readiness probe.
func (s *Stores) Ready(ctx context.Context) map[string]bool {
	status := map[string]bool{"postgres": false, "redis": false, "elasticsearch": false}
	if s.Postgres != nil {
		status["postgres"] = s.Postgres.Ping(ctx) == nil
	}
	if s.Redis != nil {
		status["redis"] = s.Redis.Ping(ctx) == nil
	}
	if s.Elasticsearch != nil {
		status["elasticsearch"] = s.Elasticsearch.Ping(ctx) == nil
	}
	return status
}

func (s *Stores) Close() {
	if s.Postgres != nil {
		_ = s.Postgres.Close()
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
}
