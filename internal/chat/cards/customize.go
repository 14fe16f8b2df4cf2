// internal/chat/cards/customize.go
package cards

import (
	"fmt"

	"lead-intelligence/internal/models"
)

const maxFeatureHighlights = 4

// GenerateCustomizations builds the personalised payload for a card. It depends only on its inputs.
func GenerateCustomizations(cardType models.CardType, ctx *models.UserContext) models.CardCustomization {
	industry := ""
	if ctx.Industry != nil {
		industry = *ctx.Industry
	}

	c := models.CardCustomization{
		Headline:             headline(ctx),
		Subheadline:          subheadline(cardType, industry),
		FeatureHighlights:    featureHighlights(ctx),
		Industry:             industry,
		ComplianceFrameworks: ctx.ComplianceFrameworks,
	}

	switch cardType {
	case models.CardCaseStudy:
		cs := SelectCaseStudy(industry)
		c.CaseStudy = &cs
	case models.CardROI:
		seed := ROISeed(ctx)
		c.ROISeed = &seed
	case models.CardIntegration:
		c.Integrations = defaultIntegrations
	}
	return c
}

// Merge overlays generated content onto a trigger seed. Populated seed fields win.
func Merge(seed, generated models.CardCustomization) models.CardCustomization {
	out := generated
	if seed.Headline != "" {
		out.Headline = seed.Headline
	}
	if seed.Subheadline != "" {
		out.Subheadline = seed.Subheadline
	}
	if len(seed.HighlightedFeatures) > 0 {
		out.HighlightedFeatures = seed.HighlightedFeatures
	}
	if len(seed.FeatureHighlights) > 0 {
		out.FeatureHighlights = seed.FeatureHighlights
	}
	if seed.CaseStudy != nil {
		out.CaseStudy = seed.CaseStudy
	}
	if seed.ROISeed != nil {
		out.ROISeed = seed.ROISeed
	}
	if seed.Industry != "" {
		out.Industry = seed.Industry
	}
	if len(seed.ComplianceFrameworks) > 0 {
		out.ComplianceFrameworks = seed.ComplianceFrameworks
	}
	if len(seed.Integrations) > 0 {
		out.Integrations = seed.Integrations
	}
	return out
}

// headline falls back from industry to the first known pain point to the default.
func headline(ctx *models.UserContext) string {
	if ctx.Industry != nil {
		if h, ok := industryHeadlines[*ctx.Industry]; ok {
			return h
		}
	}
	for _, p := range ctx.PainPoints {
		if h, ok := painHeadlines[p]; ok {
			return h
		}
	}
	return defaultHeadline
}

func featureHighlights(ctx *models.UserContext) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(f string) {
		if f == "" || seen[f] {
			return
		}
		seen[f] = true
		out = append(out, f)
	}

	if ctx.Industry != nil {
		for _, b := range industryBenefits[*ctx.Industry] {
			add(b)
		}
	}
	for _, p := range firstN(ctx.PainPoints, 2) {
		add(painSolutions[p])
	}
	for _, f := range firstN(ctx.ComplianceFrameworks, 2) {
		add(complianceFeatures[f])
	}

	if len(out) == 0 {
		return append([]string(nil), fallbackFeatures...)
	}
	if len(out) > maxFeatureHighlights {
		out = out[:maxFeatureHighlights]
	}
	return out
}

// SelectCaseStudy returns the dedicated study for the industry, or the generic enterprise one.
func SelectCaseStudy(industry string) models.CaseStudy {
	if cs, ok := caseStudies[industry]; ok {
		return cs
	}
	return enterpriseCaseStudy
}

// ROISeed returns the starting inputs for the ROI calculator.
func ROISeed(ctx *models.UserContext) models.ROISeed {
	seed := models.ROISeed{
		AgentCount:         defaultAgentCount,
		AvgSalary:          defaultAvgSalary,
		AuditHoursPerMonth: defaultAuditHours,
		ComplianceRisk:     "medium",
	}
	if ctx.AIAgentCount != nil && *ctx.AIAgentCount > 0 {
		seed.AgentCount = *ctx.AIAgentCount
	}
	if ctx.Industry != nil && highRiskIndustries[*ctx.Industry] {
		seed.ComplianceRisk = "high"
		seed.AuditHoursPerMonth = highRiskAuditHours
	}
	if ctx.CompanySize != nil {
		switch *ctx.CompanySize {
		case models.CompanySizeEnterprise:
			if seed.AgentCount < enterpriseMinAgents {
				seed.AgentCount = enterpriseMinAgents
			}
		case models.CompanySizeStartup:
			if seed.AgentCount > startupMaxAgents {
				seed.AgentCount = startupMaxAgents
			}
			seed.AvgSalary = defaultAvgSalary * startupSalaryMultiplier
		}
	}
	return seed
}

func subheadline(cardType models.CardType, industry string) string {
	name, known := industryNames[industry]
	switch cardType {
	case models.CardFeatures:
		if known {
			return fmt.Sprintf("Purpose-built controls for %s teams running AI agents", name)
		}
		return "Monitor, control and audit every AI agent from one place"
	case models.CardComparison:
		if known {
			return fmt.Sprintf("See why %s organizations choose a dedicated governance layer", name)
		}
		return "How a dedicated governance layer compares to DIY and point tools"
	case models.CardTimeline:
		return "From first connection to full governance in weeks, not quarters"
	case models.CardROI:
		if known {
			return fmt.Sprintf("Estimate your savings based on typical %s workloads", name)
		}
		return "Estimate the time and risk you can take off your team"
	case models.CardCaseStudy:
		if known {
			return fmt.Sprintf("How a %s leader brought its AI under control", name)
		}
		return "How enterprises brought their AI under control"
	case models.CardArchitecture:
		return "Deploy in your cloud or ours, with no changes to your agents"
	case models.CardIntegration:
		return "Works with the models and frameworks you already use"
	default:
		return ""
	}
}

func firstN(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}
