// internal/chat/extraction/extractor_test.go
package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEntities_HealthcareScenario(t *testing.T) {
	got := ExtractEntities("We're a healthcare company struggling with HIPAA audit trails, can we get a demo?")

	require.NotNil(t, got.Industry)
	assert.Equal(t, "healthcare", *got.Industry)
	assert.Equal(t, []string{"hipaa"}, got.ComplianceFrameworks)
	assert.Contains(t, got.PainPoints, "audit_trail")
	assert.Nil(t, got.CompanyName)
	assert.Nil(t, got.AgentCount)
}

func TestExtractEntities_NoMatch(t *testing.T) {
	got := ExtractEntities("hello there")
	assert.True(t, got.IsEmpty())

	got = ExtractEntities("   ")
	assert.True(t, got.IsEmpty())
}

func TestExtractEntities_FirstIndustryWins(t *testing.T) {
	// healthcare is listed before insurance
	got := ExtractEntities("We sell insurance to hospitals")
	require.NotNil(t, got.Industry)
	assert.Equal(t, "healthcare", *got.Industry)
}

func TestExtractEntities_MultiValued(t *testing.T) {
	got := ExtractEntities("We need SOC 2 and GDPR coverage, plus guardrails against data leakage in customer support and fraud detection")

	assert.Equal(t, []string{"soc2", "gdpr"}, got.ComplianceFrameworks)
	assert.ElementsMatch(t, []string{"data_leakage", "policy_enforcement"}, got.PainPoints)
	assert.ElementsMatch(t, []string{"customer_service", "fraud_detection"}, got.UseCases)
}

func TestExtractAgentCount(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    int
		ok      bool
	}{
		{"agents", "we run 40 agents in production", 40, true},
		{"ai agents", "About 12 AI agents today", 12, true},
		{"single workflow", "just 1 workflow so far", 1, true},
		{"bots", "300 bots", 300, true},
		{"no number", "a few agents", 0, false},
		{"unrelated number", "we have 40 employees", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAgentCount(tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractCompanyName(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
		ok      bool
	}{
		{"work at", "I work at Acme Health. We have agents", "Acme Health", true},
		{"i'm with", "Hi, I'm with Globex Corp", "Globex Corp", true},
		{"from", "Jane from Initech, here", "Initech", true},
		{"lowercase follows", "we're a bank", "", false},
		{"no connector", "Acme is great", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractCompanyName(tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractEmail(t *testing.T) {
	got, ok := ExtractEmail("reach me at Jane.Doe@Example.com please")
	assert.True(t, ok)
	assert.Equal(t, "jane.doe@example.com", got)

	_, ok = ExtractEmail("no address here")
	assert.False(t, ok)
}

func BenchmarkExtractEntities(b *testing.B) {
	msg := "We're a healthcare company struggling with HIPAA audit trails, can we get a demo?"
	for i := 0; i < b.N; i++ {
		ExtractEntities(msg)
	}
}
