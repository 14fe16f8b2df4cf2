// internal/models/user_context.go
package models

import "time"

type CompanySize string

const (
	CompanySizeStartup    CompanySize = "startup"
	CompanySizeSMB        CompanySize = "smb"
	CompanySizeMidMarket  CompanySize = "mid_market"
	CompanySizeEnterprise CompanySize = "enterprise"
	CompanySizeUnknown    CompanySize = "unknown"
)

type EngagementLevel string

const (
	EngagementLow    EngagementLevel = "low"
	EngagementMedium EngagementLevel = "medium"
	EngagementHigh   EngagementLevel = "high"
)

// UserContext accumulates everything learned about a visitor during one chat session.
// Set-valued fields only grow; identity scalars are frozen once populated.
type UserContext struct {
	SessionID string `json:"sessionId"`

	CompanyName *string      `json:"companyName"`
	Industry    *string      `json:"industry"`
	CompanySize *CompanySize `json:"companySize"`

	PainPoints           []string `json:"painPoints"`
	UseCases             []string `json:"useCases"`
	ComplianceFrameworks []string `json:"complianceFrameworks"`

	HasExistingAI *bool `json:"hasExistingAI"`
	AIAgentCount  *int  `json:"aiAgentCount"`

	CurrentIntent   string   `json:"currentIntent"`
	QuestionsAsked  []string `json:"questionsAsked"`
	TopicsDiscussed []string `json:"topicsDiscussed"`
	CardsShown      []string `json:"cardsShown"`

	EngagementLevel EngagementLevel `json:"engagementLevel"`
	BuyingSignals   []string        `json:"buyingSignals"`

	Email *string `json:"email"`
	Name  *string `json:"name"`
	Role  *string `json:"role"`

	CreatedAt    time.Time `json:"createdAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// ContextUpdate carries the fields to apply to a UserContext. Nil fields are left alone.
type ContextUpdate struct {
	CompanyName *string
	Industry    *string
	CompanySize *CompanySize

	PainPoints           []string
	UseCases             []string
	ComplianceFrameworks []string

	HasExistingAI *bool
	AIAgentCount  *int

	CurrentIntent   *string
	QuestionsAsked  []string
	TopicsDiscussed []string
	CardsShown      []string

	EngagementLevel *EngagementLevel
	BuyingSignals   []string

	Email *string
	Name  *string
	Role  *string
}

// ExtractedEntities is the result of scanning a single message. Absent keys mean "not mentioned".
type ExtractedEntities struct {
	Industry             *string  `json:"industry,omitempty"`
	ComplianceFrameworks []string `json:"complianceFrameworks,omitempty"`
	PainPoints           []string `json:"painPoints,omitempty"`
	UseCases             []string `json:"useCases,omitempty"`
	AgentCount           *int     `json:"agentCount,omitempty"`
	CompanyName          *string  `json:"companyName,omitempty"`
}

// IsEmpty reports whether nothing was extracted.
func (e ExtractedEntities) IsEmpty() bool {
	return e.Industry == nil &&
		len(e.ComplianceFrameworks) == 0 &&
		len(e.PainPoints) == 0 &&
		len(e.UseCases) == 0 &&
		e.AgentCount == nil &&
		e.CompanyName == nil
}
