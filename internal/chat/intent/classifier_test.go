// internal/chat/intent/classifier_test.go
package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lead-intelligence/internal/models"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Label
	}{
		{"demo", "Can we get a demo next week?", DemoRequest},
		{"demo beats pricing", "How much is it and can I see a demo?", DemoRequest},
		{"pricing", "What does the pricing look like?", PricingInquiry},
		{"comparison", "How do you compare to Credo?", Comparison},
		{"compliance", "Are you HIPAA compliant?", ComplianceQuestion},
		{"integration", "Does it integrate with LangChain?", IntegrationQuestion},
		{"timeline", "What's a typical implementation timeline?", TimelineDiscussion},
		{"roi", "What ROI do customers see?", ROIInquiry},
		{"case study", "Do you have a case study for banks?", CaseStudyRequest},
		{"technical", "Can it run on-prem in our kubernetes cluster?", TechnicalQuestion},
		{"feature", "What features do you have for monitoring?", FeatureInquiry},
		{"greeting", "Hello!", Greeting},
		{"greeting not mid sentence", "well hello there", GeneralInquiry},
		{"general", "Tell me about your company", GeneralInquiry},
		{"empty", "", GeneralInquiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.message, nil))
		})
	}
}

func TestDetect_AffirmativeKeepsCurrentIntent(t *testing.T) {
	ctx := &models.UserContext{CurrentIntent: string(PricingInquiry)}

	assert.Equal(t, PricingInquiry, Detect("yes please", ctx))
	assert.Equal(t, PricingInquiry, Detect("Sure.", ctx))
	assert.Equal(t, DemoRequest, Detect("yes, book a demo", ctx))

	empty := &models.UserContext{}
	assert.Equal(t, GeneralInquiry, Detect("yes", empty))
}

func TestLabel_IsTopic(t *testing.T) {
	assert.True(t, PricingInquiry.IsTopic())
	assert.False(t, Greeting.IsTopic())
	assert.False(t, GeneralInquiry.IsTopic())
	assert.False(t, Label("").IsTopic())
}
