// internal/common/database/database_test.go
package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"lead-intelligence/internal/common/config"
	"lead-intelligence/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotConfigured(t *testing.T) {
	_, err := NewPostgres(config.PostgresConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewRedis(config.RedisConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewElasticsearch(config.ElasticsearchConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestConnect_DegradedMode(t *testing.T) {
	mr := miniredis.RunT(t)

	stores := Connect(context.Background(), config.DatabaseConfig{
		Redis: config.RedisConfig{Address: mr.Addr()},
	}, logger.NewTestLogger(t))
	defer stores.Close()

	assert.Nil(t, stores.Postgres)
	assert.Nil(t, stores.Elasticsearch)
	require.NotNil(t, stores.Redis)

	ready := stores.Ready(context.Background())
	assert.True(t, ready["redis"])
	assert.False(t, ready["postgres"])
	assert.False(t, ready["elasticsearch"])
}

func TestPostgresClient_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE conversations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	client := &PostgresClient{DB: db}
	err = client.Migrate(context.Background(), "CREATE TABLE users (id TEXT)", "CREATE TABLE conversations (id TEXT)")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_MigrateRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE users").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	client := &PostgresClient{DB: db}
	err = client.Migrate(context.Background(), "CREATE TABLE users (id TEXT)")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestElasticsearchClient_EnsureIndex(t *testing.T) {
	var created bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			created = true
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{server.URL}})
	require.NoError(t, err)

	err = client.EnsureIndex(context.Background(), "lead-intelligence", `{"mappings":{}}`)
	require.NoError(t, err)
	assert.True(t, created)
}
