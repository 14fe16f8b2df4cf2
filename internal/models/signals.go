// internal/models/signals.go
package models

import "time"

type SignalType string

const (
	SignalPricingInterest     SignalType = "pricing_interest"
	SignalCompetitorMention   SignalType = "competitor_mention"
	SignalTimelineMention     SignalType = "timeline_mention"
	SignalPainPoint           SignalType = "pain_point"
	SignalFeatureInterest     SignalType = "feature_interest"
	SignalDemoRequest         SignalType = "demo_request"
	SignalComplianceMention   SignalType = "compliance_mention"
	SignalIntegrationQuestion SignalType = "integration_question"

	// Recorded by other touchpoints (site analytics, forms). The chat detector never emits these
	// and they carry no scoring weight, but they still count toward signal diversity.
	SignalContentDownload SignalType = "content_download"
	SignalReturnVisit     SignalType = "return_visit"
	SignalContactShared   SignalType = "contact_shared"
)

// MaxSignalContentLength bounds the stored snippet of the message that produced a signal.
const MaxSignalContentLength = 200

// BehavioralSignal is one piece of sales-qualification evidence taken from a message.
type BehavioralSignal struct {
	Type       SignalType `json:"type"`
	Content    string     `json:"content"`
	Confidence float64    `json:"confidence"`
	Timestamp  time.Time  `json:"timestamp"`
}
