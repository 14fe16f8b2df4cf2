// internal/workers/chat/process-chat-turn/handler_test.go
package processchatturn

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"lead-intelligence/internal/chat/turn"
	"lead-intelligence/internal/common/config"
	apperrors "lead-intelligence/internal/common/errors"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Job Helper
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "chat-assistant",
		ElementId:          "Activity_ProcessChatTurn",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newTestHandler(t *testing.T) *Handler {
	processor := turn.NewProcessor(turn.Options{
		Now: func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}, logger.NewTestLogger(t))
	return NewHandler(DefaultConfig(), processor, logger.NewTestLogger(t))
}

// ==========================
// Input Parsing Tests
// ==========================

func TestParseInput(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name      string
		variables map[string]interface{}
		wantCode  apperrors.ErrorCode
	}{
		{
			name: "message with history",
			variables: map[string]interface{}{
				"message":   "Do you integrate with LangChain?",
				"sessionId": "s-1",
				"conversationHistory": []map[string]interface{}{
					{"role": "user", "content": "hi"},
					{"role": "assistant", "content": "Hello!"},
				},
				"pageContext": map[string]interface{}{"currentPage": "/docs"},
			},
		},
		{
			name:      "missing message",
			variables: map[string]interface{}{"sessionId": "s-1"},
			wantCode:  apperrors.ErrCodeValidationFailed,
		},
		{
			name:      "empty message",
			variables: map[string]interface{}{"message": ""},
			wantCode:  apperrors.ErrCodeValidationFailed,
		},
		{
			name: "bad history role",
			variables: map[string]interface{}{
				"message":             "hi",
				"conversationHistory": []map[string]interface{}{{"role": "system", "content": "x"}},
			},
			wantCode: apperrors.ErrCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(createMockJob(1, tt.variables))
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.variables["message"], input.Message)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.FromError(err).Code)
		})
	}
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_FlattensTurn(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Message:   "We're a healthcare company struggling with HIPAA audit trails, can we get a demo?",
		SessionID: "s-42",
	})
	require.NoError(t, err)

	assert.Equal(t, "s-42", out.SessionID)
	assert.NotEmpty(t, out.ChatResponse)
	assert.NotEmpty(t, out.UserContext)
	assert.Equal(t, "demo_request", out.Intent)
	assert.True(t, out.ShowCard)
	assert.Equal(t, models.CardCaseStudy, out.MorphTrigger.Type)
	assert.Equal(t, models.IntentCategoryHot, out.IntentCategory)
	assert.Equal(t, models.PriorityTier1, out.PriorityTier)
	assert.Equal(t, "healthcare", out.ContextSummary.Industry)
}

func TestExecute_EmptyMessageIsValidationFailure(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Message: "  "})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.FromError(err).Code)
}

func TestExecute_SignalsNeverNil(t *testing.T) {
	out, err := newTestHandler(t).Execute(context.Background(), &Input{Message: "hello"})
	require.NoError(t, err)
	assert.NotNil(t, out.Signals)
	assert.False(t, out.ShowCard)
}

// ==========================
// Config Tests
// ==========================

func TestCreateConfigFromAppConfig(t *testing.T) {
	cfg := CreateConfigFromAppConfig(&config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: false, MaxJobsActive: 3, Timeout: 5000},
	}})
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.MaxJobsActive)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	assert.Equal(t, DefaultConfig(), CreateConfigFromAppConfig(nil))
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{MaxJobsActive: 1}).Validate())
}
