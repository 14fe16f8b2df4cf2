// internal/chat/turn/models.go
package turn

import (
	"lead-intelligence/internal/chat/usercontext"
	"lead-intelligence/internal/models"
)

type PageContext struct {
	CurrentPage string `json:"currentPage,omitempty"`
	UserName    string `json:"userName,omitempty"`
	UserEmail   string `json:"userEmail,omitempty"`
	UserCompany string `json:"userCompany,omitempty"`
}

// Request is one inbound chat message with whatever state the client holds.
type Request struct {
	Message             string               `json:"message"`
	SessionID           string               `json:"sessionId,omitempty"`
	UserContext         string               `json:"userContext,omitempty"`
	ConversationHistory []models.ChatMessage `json:"conversationHistory,omitempty"`
	PageContext         PageContext          `json:"pageContext"`
}

// ExtractedInfo carries the contact and profile fields found this turn.
type ExtractedInfo struct {
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	Company    string `json:"company,omitempty"`
	Industry   string `json:"industry,omitempty"`
	AgentCount *int   `json:"agentCount,omitempty"`
}

type MorphTrigger struct {
	Type           models.CardType          `json:"type"`
	Confidence     float64                  `json:"confidence"`
	Reason         string                   `json:"reason"`
	Customizations models.CardCustomization `json:"customizations"`
}

// LeadSummary is the routing view of the visitor's intelligence after this turn.
type LeadSummary struct {
	BuyIntentScore      int                        `json:"buyIntentScore"`
	IntentCategory      models.IntentCategory      `json:"intentCategory"`
	Urgency             models.Urgency             `json:"urgency"`
	QualificationStatus models.QualificationStatus `json:"qualificationStatus"`
	PriorityTier        models.PriorityTier        `json:"priorityTier"`
}

func newLeadSummary(li *models.LeadIntelligence) *LeadSummary {
	if li == nil {
		return nil
	}
	return &LeadSummary{
		BuyIntentScore:      li.BuyIntentScore,
		IntentCategory:      li.IntentCategory,
		Urgency:             li.Urgency,
		QualificationStatus: li.QualificationStatus,
		PriorityTier:        li.PriorityTier,
	}
}

type Response struct {
	Response       string              `json:"response"`
	SessionID      string              `json:"sessionId"`
	UserID         string              `json:"userId,omitempty"`
	UserContext    string              `json:"userContext"`
	ContextSummary usercontext.Summary `json:"contextSummary"`
	ExtractedInfo  ExtractedInfo       `json:"extractedInfo"`
	MorphTrigger   *MorphTrigger       `json:"morphTrigger,omitempty"`
	Intent         string              `json:"intent"`
	Signals        []string            `json:"signals,omitempty"`
	Lead           *LeadSummary        `json:"lead,omitempty"`
}
