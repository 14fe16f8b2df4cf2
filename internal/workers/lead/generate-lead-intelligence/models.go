// internal/workers/lead/generate-lead-intelligence/models.go
package generateleadintelligence

import "lead-intelligence/internal/models"

type Input struct {
	UserID          string                    `json:"userId,omitempty"`
	Messages        []models.ChatMessage      `json:"messages"`
	UserInfo        models.UserInfo           `json:"userInfo"`
	ExistingSignals []models.BehavioralSignal `json:"existingSignals,omitempty"`
}

type Output struct {
	LeadIntelligence    *models.LeadIntelligence   `json:"leadIntelligence"`
	BuyIntentScore      int                        `json:"buyIntentScore"`
	IntentCategory      models.IntentCategory      `json:"intentCategory"`
	Urgency             models.Urgency             `json:"urgency"`
	QualificationStatus models.QualificationStatus `json:"qualificationStatus"`
	PriorityTier        models.PriorityTier        `json:"priorityTier"`
	SignalCount         int                        `json:"signalCount"`
}
