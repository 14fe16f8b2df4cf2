// internal/chat/usercontext/scoring.go
package usercontext

import "lead-intelligence/internal/models"

// Completeness is a 0-100 estimate of how much of the profile is known.
func Completeness(ctx *models.UserContext) int {
	if ctx == nil {
		return 0
	}
	score := 0
	if !isBlank(ctx.Industry) {
		score += 20
	}
	if len(ctx.PainPoints) > 0 {
		score += 25
	}
	if len(ctx.ComplianceFrameworks) > 0 {
		score += 15
	}
	if len(ctx.UseCases) > 0 {
		score += 15
	}
	if ctx.CompanySize != nil && *ctx.CompanySize != models.CompanySizeUnknown {
		score += 10
	}
	if ctx.HasExistingAI != nil {
		score += 5
	}
	if ctx.AIAgentCount != nil {
		score += 5
	}
	if !isBlank(ctx.Email) {
		score += 5
	}
	return score
}

// EngagementScore is recomputed from scratch on every call.
func EngagementScore(ctx *models.UserContext, messageCount int) int {
	points := 0
	if messageCount >= 5 {
		points += 2
	}
	if messageCount >= 10 {
		points += 2
	}
	if ctx == nil {
		return points
	}
	if len(ctx.CardsShown) >= 2 {
		points += 2
	}
	if len(ctx.TopicsDiscussed) >= 3 {
		points += 2
	}
	if len(ctx.BuyingSignals) > 0 {
		points += 3
	}
	if !isBlank(ctx.Email) {
		points += 3
	}
	return points
}

func EngagementLevel(ctx *models.UserContext, messageCount int) models.EngagementLevel {
	switch score := EngagementScore(ctx, messageCount); {
	case score >= 8:
		return models.EngagementHigh
	case score >= 4:
		return models.EngagementMedium
	default:
		return models.EngagementLow
	}
}

// Summary is the compact view of a context returned to the chat client.
type Summary struct {
	Industry             string                 `json:"industry,omitempty"`
	PainPoints           []string               `json:"painPoints,omitempty"`
	ComplianceFrameworks []string               `json:"complianceFrameworks,omitempty"`
	EngagementLevel      models.EngagementLevel `json:"engagementLevel,omitempty"`
	Completeness         int                    `json:"completeness"`
}

func Summarize(ctx *models.UserContext) Summary {
	s := Summary{
		PainPoints:           ctx.PainPoints,
		ComplianceFrameworks: ctx.ComplianceFrameworks,
		EngagementLevel:      ctx.EngagementLevel,
		Completeness:         Completeness(ctx),
	}
	if ctx.Industry != nil {
		s.Industry = *ctx.Industry
	}
	return s
}
