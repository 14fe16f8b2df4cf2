// internal/lead/persistence/merge.go
package persistence

import (
	"lead-intelligence/internal/lead/scoring"
	"lead-intelligence/internal/lead/signals"
	"lead-intelligence/internal/models"
)

var urgencyRank = map[models.Urgency]int{
	models.UrgencyLow:       0,
	models.UrgencyMedium:    1,
	models.UrgencyHigh:      2,
	models.UrgencyImmediate: 3,
}

// Merge folds a freshly scored turn into the stored record. The score never decreases, signals are
// appended, deduplicated and capped, and size, industry and seniority only move away from unknown.
func Merge(stored, incoming *models.LeadIntelligence, info models.UserInfo) *models.LeadIntelligence {
	if stored == nil {
		out := *incoming
		out.BehavioralSignals = signals.CapRecent(signals.Deduplicate(incoming.BehavioralSignals), models.MaxStoredSignals)
		out.IntentCategory = scoring.Category(out.BuyIntentScore)
		out.QualificationStatus = scoring.Qualify(out.BuyIntentScore, info, out.CompanySize)
		out.PriorityTier = scoring.PriorityTier(&out)
		return &out
	}

	merged := *stored
	merged.BuyIntentScore = max(stored.BuyIntentScore, incoming.BuyIntentScore)
	merged.IntentCategory = scoring.Category(merged.BuyIntentScore)

	all := make([]models.BehavioralSignal, 0, len(stored.BehavioralSignals)+len(incoming.BehavioralSignals))
	all = append(all, stored.BehavioralSignals...)
	all = append(all, incoming.BehavioralSignals...)
	merged.BehavioralSignals = signals.CapRecent(signals.Deduplicate(all), models.MaxStoredSignals)

	if urgencyRank[incoming.Urgency] > urgencyRank[stored.Urgency] || stored.Urgency == "" {
		merged.Urgency = incoming.Urgency
	}
	if incoming.CompanySize != "" && incoming.CompanySize != models.CompanySizeUnknown {
		merged.CompanySize = incoming.CompanySize
	}
	if merged.CompanySize == "" {
		merged.CompanySize = models.CompanySizeUnknown
	}

	merged.CompanyResearch = mergeCompanyResearch(stored.CompanyResearch, incoming.CompanyResearch, merged.CompanySize)
	if incoming.UserResearch != nil && incoming.UserResearch.RoleSeniority != models.SeniorityUnknown {
		merged.UserResearch = incoming.UserResearch
	}

	merged.QualificationStatus = scoring.Qualify(merged.BuyIntentScore, info, merged.CompanySize)
	merged.PriorityTier = scoring.PriorityTier(&merged)
	merged.UpdatedAt = incoming.UpdatedAt
	return &merged
}

func mergeCompanyResearch(stored, incoming *models.CompanyResearch, size models.CompanySize) *models.CompanyResearch {
	if stored == nil && incoming == nil {
		return nil
	}
	out := &models.CompanyResearch{}
	if stored != nil {
		out.Industry = stored.Industry
		out.ComplianceRequirements = append(out.ComplianceRequirements, stored.ComplianceRequirements...)
	}
	if incoming != nil {
		if out.Industry == "" {
			out.Industry = incoming.Industry
		}
		for _, c := range incoming.ComplianceRequirements {
			if !contains(out.ComplianceRequirements, c) {
				out.ComplianceRequirements = append(out.ComplianceRequirements, c)
			}
		}
	}
	if size != models.CompanySizeUnknown {
		out.CompanySize = size
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
