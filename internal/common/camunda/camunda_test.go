// internal/common/camunda/camunda_test.go
package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "lead-intelligence/internal/common/errors"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
)

func testClient() *Client {
	return &Client{config: &ClientConfig{
		ConnectionTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

func TestExecuteWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  []error
		wantCalls int
		wantErr   bool
	}{
		{"succeeds first time", nil, 1, false},
		{"recovers from transient", []error{errors.New("rpc error: Unavailable")}, 2, false},
		{"gives up after max retries", []error{
			errors.New("connection refused"),
			errors.New("connection refused"),
			errors.New("connection refused"),
		}, 3, true},
		{"permanent error not retried", []error{errors.New("permission denied")}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := testClient().ExecuteWithRetry(context.Background(), "topology", func(ctx context.Context) error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	cfg := &RetryConfig{BaseDelay: time.Second, MaxDelay: 3 * time.Second}
	assert.Equal(t, time.Second, backoff(cfg, 0))
	assert.Equal(t, 2*time.Second, backoff(cfg, 1))
	assert.Equal(t, 3*time.Second, backoff(cfg, 2))
}

type stubHandler struct {
	err   error
	calls int
}

func (s *stubHandler) Handle(client worker.JobClient, job entities.Job) error {
	s.calls++
	return s.err
}

func TestInstrument(t *testing.T) {
	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: "check-lead-priority"}}

	ok := &stubHandler{}
	Instrument("check-lead-priority", ok, nil, logger.NewTestLogger(t))(nil, job)
	assert.Equal(t, 1, ok.calls)

	failing := &stubHandler{err: errors.New("boom")}
	Instrument("check-lead-priority", failing, nil, logger.NewTestLogger(t))(nil, job)
	assert.Equal(t, 1, failing.calls)
}

var testSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["userId"],
	"properties": {"userId": {"type": "string", "minLength": 1}}
}`)

func TestDecodeJob(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantCode  apperrors.ErrorCode
		wantUser  string
	}{
		{name: "valid", variables: `{"userId":"u-1","extra":true}`, wantUser: "u-1"},
		{name: "missing field", variables: `{"extra":true}`, wantCode: apperrors.ErrCodeValidationFailed},
		{name: "not json", variables: `{`, wantCode: apperrors.ErrCodeInputParsingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Variables: tt.variables}}
			var out struct {
				UserID string `json:"userId"`
			}

			err := DecodeJob(job, testSchema, &out)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUser, out.UserID)
				return
			}
			var stdErr *apperrors.StandardError
			if assert.ErrorAs(t, err, &stdErr) {
				assert.Equal(t, tt.wantCode, stdErr.Code)
			}
		})
	}
}
