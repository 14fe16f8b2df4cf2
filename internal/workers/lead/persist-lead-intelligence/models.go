// internal/workers/lead/persist-lead-intelligence/models.go
package persistleadintelligence

import "lead-intelligence/internal/models"

type Input struct {
	SessionID        string                   `json:"sessionId"`
	UserInfo         models.UserInfo          `json:"userInfo"`
	Messages         []models.ChatMessage     `json:"messages,omitempty"`
	LeadIntelligence *models.LeadIntelligence `json:"leadIntelligence,omitempty"`
}

type Output struct {
	Persisted      bool                  `json:"persisted"`
	UserID         string                `json:"userId"`
	Version        int                   `json:"version"`
	BuyIntentScore int                   `json:"buyIntentScore"`
	IntentCategory models.IntentCategory `json:"intentCategory,omitempty"`
	PriorityTier   models.PriorityTier   `json:"priorityTier,omitempty"`
	NotifyQueued   bool                  `json:"notifyQueued"`
	WelcomeQueued  bool                  `json:"welcomeQueued"`
	WriteAttempts  int                   `json:"writeAttempts"`
}
