// internal/models/lead.go
package models

import "time"

type IntentCategory string

const (
	IntentCategoryHot  IntentCategory = "hot"
	IntentCategoryWarm IntentCategory = "warm"
	IntentCategoryCold IntentCategory = "cold"
)

type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyHigh      Urgency = "high"
	UrgencyMedium    Urgency = "medium"
	UrgencyLow       Urgency = "low"
)

type QualificationStatus string

const (
	QualificationQualified   QualificationStatus = "qualified"
	QualificationNurture     QualificationStatus = "nurture"
	QualificationUnqualified QualificationStatus = "unqualified"
	QualificationNew         QualificationStatus = "new"
)

type RoleSeniority string

const (
	SeniorityCLevel     RoleSeniority = "c_level"
	SeniorityVP         RoleSeniority = "vp"
	SeniorityDirector   RoleSeniority = "director"
	SeniorityManager    RoleSeniority = "manager"
	SeniorityIndividual RoleSeniority = "individual_contributor"
	SeniorityUnknown    RoleSeniority = "unknown"
)

type PriorityTier string

const (
	PriorityTier1 PriorityTier = "tier1"
	PriorityTier2 PriorityTier = "tier2"
	PriorityTier3 PriorityTier = "tier3"
)

// MaxStoredSignals caps the persisted signal list after every merge.
const MaxStoredSignals = 50

// UserInfo holds the contact fields known for a visitor.
type UserInfo struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Company  string `json:"company,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
}

func (u UserInfo) HasAnyContact() bool {
	return u.Email != "" || u.Name != "" || u.Company != ""
}

type CompanyResearch struct {
	Industry               string      `json:"industry,omitempty"`
	ComplianceRequirements []string    `json:"compliance_requirements,omitempty"`
	CompanySize            CompanySize `json:"company_size,omitempty"`
}

type UserResearch struct {
	RoleSeniority RoleSeniority `json:"role_seniority"`
	JobTitle      string        `json:"job_title,omitempty"`
}

// LeadIntelligence is the persisted, accumulating sales view of one identified user.
type LeadIntelligence struct {
	ID                  string              `json:"id,omitempty"`
	UserID              string              `json:"user_id"`
	BuyIntentScore      int                 `json:"buy_intent_score"`
	IntentCategory      IntentCategory      `json:"intent_category"`
	Urgency             Urgency             `json:"urgency"`
	CompanySize         CompanySize         `json:"company_size"`
	QualificationStatus QualificationStatus `json:"qualification_status"`
	PriorityTier        PriorityTier        `json:"priority_tier,omitempty"`
	BehavioralSignals   []BehavioralSignal  `json:"behavioral_signals"`
	CompanyResearch     *CompanyResearch    `json:"company_research,omitempty"`
	UserResearch        *UserResearch       `json:"user_research,omitempty"`
	Version             int                 `json:"version,omitempty"`
	CreatedAt           time.Time           `json:"created_at,omitempty"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// Industry returns the researched industry, or "" when unknown.
func (l *LeadIntelligence) Industry() string {
	if l == nil || l.CompanyResearch == nil {
		return ""
	}
	return l.CompanyResearch.Industry
}

// ComplianceRequirements returns the researched frameworks, or nil when unknown.
func (l *LeadIntelligence) ComplianceRequirements() []string {
	if l == nil || l.CompanyResearch == nil {
		return nil
	}
	return l.CompanyResearch.ComplianceRequirements
}
