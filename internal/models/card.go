// internal/models/card.go
package models

type CardType string

const (
	CardFeatures     CardType = "features"
	CardComparison   CardType = "comparison"
	CardTimeline     CardType = "timeline"
	CardROI          CardType = "roi"
	CardCaseStudy    CardType = "casestudy"
	CardArchitecture CardType = "architecture"
	CardIntegration  CardType = "integration"
)

// AllCardTypes lists card types in cascade order.
var AllCardTypes = []CardType{
	CardFeatures,
	CardComparison,
	CardTimeline,
	CardROI,
	CardCaseStudy,
	CardArchitecture,
	CardIntegration,
}

func (c CardType) Valid() bool {
	for _, t := range AllCardTypes {
		if t == c {
			return true
		}
	}
	return false
}

// CardTrigger is the per-turn decision to surface a card. Not persisted.
type CardTrigger struct {
	CardType       CardType          `json:"cardType"`
	Confidence     float64           `json:"confidence"`
	Reason         string            `json:"reason"`
	Customizations CardCustomization `json:"customizations"`
}

// CardCustomization is the personalised payload for a card. Every field is optional.
type CardCustomization struct {
	Headline             string     `json:"headline,omitempty"`
	Subheadline          string     `json:"subheadline,omitempty"`
	HighlightedFeatures  []string   `json:"highlightedFeatures,omitempty"`
	FeatureHighlights    []string   `json:"featureHighlights,omitempty"`
	CaseStudy            *CaseStudy `json:"caseStudy,omitempty"`
	ROISeed              *ROISeed   `json:"roiSeed,omitempty"`
	Industry             string     `json:"industry,omitempty"`
	ComplianceFrameworks []string   `json:"complianceFrameworks,omitempty"`
	Integrations         []string   `json:"integrations,omitempty"`
}

type CaseStudy struct {
	ID        string   `json:"id"`
	Company   string   `json:"company"`
	Industry  string   `json:"industry"`
	Challenge string   `json:"challenge"`
	Solution  string   `json:"solution"`
	Results   []string `json:"results"`
}

type ROISeed struct {
	AgentCount         int     `json:"agentCount"`
	AvgSalary          float64 `json:"avgSalary"`
	AuditHoursPerMonth int     `json:"auditHoursPerMonth"`
	ComplianceRisk     string  `json:"complianceRisk"`
}
