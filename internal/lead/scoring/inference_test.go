// internal/lead/scoring/inference_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lead-intelligence/internal/models"
)

func TestInferUrgency(t *testing.T) {
	demo := []models.BehavioralSignal{sig(models.SignalDemoRequest, 0.9)}
	timeline := []models.BehavioralSignal{sig(models.SignalTimelineMention, 0.75)}

	tests := []struct {
		name string
		text string
		sigs []models.BehavioralSignal
		want models.Urgency
	}{
		{"asap beats demo", "we need this asap", demo, models.UrgencyImmediate},
		{"urgent", "This is URGENT", nil, models.UrgencyImmediate},
		{"demo signal", "show me", demo, models.UrgencyHigh},
		{"next week", "maybe next week", nil, models.UrgencyHigh},
		{"timeline signal", "when", timeline, models.UrgencyMedium},
		{"quarter", "budget opens next quarter", nil, models.UrgencyMedium},
		{"q3", "we go live in q3", nil, models.UrgencyMedium},
		{"no partial word", "the aq10 model is nice", nil, models.UrgencyLow},
		{"todays does not match today", "todays news", nil, models.UrgencyLow},
		{"nothing", "just browsing", nil, models.UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferUrgency(tt.text, tt.sigs))
		})
	}
}

func TestInferCompanySize(t *testing.T) {
	tests := []struct {
		text string
		want models.CompanySize
	}{
		{"we're a fortune 500 company", models.CompanySizeEnterprise},
		{"a global bank with 50,000 employees", models.CompanySizeEnterprise},
		{"about 2,000 employees", models.CompanySizeMidMarket},
		{"we are a mid-sized insurer", models.CompanySizeMidMarket},
		{"early startup, 12 people", models.CompanySizeStartup},
		{"we have 150 employees", models.CompanySizeSMB},
		{"a small business", models.CompanySizeSMB},
		{"no idea", models.CompanySizeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCompanySize(tt.text))
		})
	}
}

func TestInferSeniority(t *testing.T) {
	tests := []struct {
		name  string
		title string
		text  string
		want  models.RoleSeniority
	}{
		{"cto title", "CTO", "", models.SeniorityCLevel},
		{"chief officer", "Chief Information Security Officer", "", models.SeniorityCLevel},
		{"head of", "Head of AI", "", models.SeniorityVP},
		{"director", "Director of Compliance", "", models.SeniorityDirector},
		{"manager", "Product Manager", "", models.SeniorityManager},
		{"engineer", "ML Engineer", "", models.SeniorityIndividual},
		{"title beats text", "Engineer", "i'm the ceo here", models.SeniorityIndividual},
		{"text fallback", "", "hi, i'm the ciso at a bank", models.SeniorityCLevel},
		{"unknown", "", "just looking", models.SeniorityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSeniority(tt.title, tt.text))
		})
	}
}

func TestDetectCompliance(t *testing.T) {
	got := DetectCompliance("We need SOC2 and HIPAA, maybe GDPR later")
	assert.Equal(t, []string{"HIPAA", "SOC 2", "GDPR"}, got)
	assert.Empty(t, DetectCompliance("nothing regulated here"))
}

func TestDetectIndustry(t *testing.T) {
	assert.Equal(t, "healthcare", DetectIndustry("our hospital network"))
	assert.Equal(t, "insurance", DetectIndustry("we process claims"))
	assert.Equal(t, "", DetectIndustry("hello"))
}
