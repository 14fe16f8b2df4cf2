// internal/chat/usercontext/serialize_test.go
package usercontext

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-intelligence/internal/models"
)

func TestSerialize_RoundTrip(t *testing.T) {
	size := models.CompanySizeMidMarket
	ctx := New("session-42", t0)
	ctx.CompanyName = strPtr("Acme Health")
	ctx.Industry = strPtr("healthcare")
	ctx.CompanySize = &size
	ctx.PainPoints = []string{"audit_trail", "shadow_ai"}
	ctx.UseCases = []string{"clinical_documentation"}
	ctx.ComplianceFrameworks = []string{"hipaa"}
	ctx.HasExistingAI = boolPtr(true)
	ctx.AIAgentCount = intPtr(0)
	ctx.CurrentIntent = "demo_request"
	ctx.QuestionsAsked = []string{"industry"}
	ctx.TopicsDiscussed = []string{"demo_request"}
	ctx.CardsShown = []string{"casestudy"}
	ctx.EngagementLevel = models.EngagementMedium
	ctx.BuyingSignals = []string{"demo_request", "compliance_mention"}
	ctx.Email = strPtr("cto@acme.health")
	ctx.Name = strPtr("Jane")
	ctx.LastActiveAt = t1.Add(123456789)

	raw, err := Serialize(ctx)
	require.NoError(t, err)
	assert.Contains(t, raw, `"createdAt":"2026-03-01T09:00:00Z"`)

	back, err := Deserialize(raw)
	require.NoError(t, err)
	assert.Equal(t, ctx, back)
}

func TestSerialize_RoundTripEmpty(t *testing.T) {
	ctx := New("s", t0)
	raw, err := Serialize(ctx)
	require.NoError(t, err)

	back, err := Deserialize(raw)
	require.NoError(t, err)
	assert.Equal(t, ctx, back)
}

func TestDeserialize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "{not json"},
		{"missing session", `{"createdAt":"2026-03-01T09:00:00Z","lastActiveAt":"2026-03-01T09:00:00Z"}`},
		{"bad size", `{"sessionId":"s","companySize":"huge","createdAt":"2026-03-01T09:00:00Z","lastActiveAt":"2026-03-01T09:00:00Z"}`},
		{"bad date", `{"sessionId":"s","createdAt":"yesterday","lastActiveAt":"2026-03-01T09:00:00Z"}`},
		{"wrong type", `{"sessionId":"s","painPoints":"audit","createdAt":"2026-03-01T09:00:00Z","lastActiveAt":"2026-03-01T09:00:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidContext))
		})
	}
}
