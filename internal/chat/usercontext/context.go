// internal/chat/usercontext/context.go
package usercontext

import (
	"time"

	"github.com/google/uuid"

	"lead-intelligence/internal/models"
)

// New creates an empty context. A blank sessionID gets a fresh UUID.
func New(sessionID string, now time.Time) *models.UserContext {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	now = now.UTC()
	return &models.UserContext{
		SessionID:            sessionID,
		PainPoints:           []string{},
		UseCases:             []string{},
		ComplianceFrameworks: []string{},
		QuestionsAsked:       []string{},
		TopicsDiscussed:      []string{},
		CardsShown:           []string{},
		BuyingSignals:        []string{},
		EngagementLevel:      models.EngagementLow,
		CreatedAt:            now,
		LastActiveAt:         now,
	}
}

// Update returns a copy of ctx with upd applied. Scalars present in upd replace the old value,
// set-valued fields are unioned, and LastActiveAt is always refreshed.
func Update(ctx *models.UserContext, upd models.ContextUpdate, now time.Time) *models.UserContext {
	next := clone(ctx)

	if upd.CompanyName != nil {
		next.CompanyName = upd.CompanyName
	}
	if upd.Industry != nil {
		next.Industry = upd.Industry
	}
	if upd.CompanySize != nil {
		next.CompanySize = upd.CompanySize
	}
	if upd.HasExistingAI != nil {
		next.HasExistingAI = upd.HasExistingAI
	}
	if upd.AIAgentCount != nil {
		next.AIAgentCount = upd.AIAgentCount
	}
	if upd.CurrentIntent != nil {
		next.CurrentIntent = *upd.CurrentIntent
	}
	if upd.EngagementLevel != nil {
		next.EngagementLevel = *upd.EngagementLevel
	}
	if upd.Email != nil {
		next.Email = upd.Email
	}
	if upd.Name != nil {
		next.Name = upd.Name
	}
	if upd.Role != nil {
		next.Role = upd.Role
	}

	next.PainPoints = union(next.PainPoints, upd.PainPoints)
	next.UseCases = union(next.UseCases, upd.UseCases)
	next.ComplianceFrameworks = union(next.ComplianceFrameworks, upd.ComplianceFrameworks)
	next.QuestionsAsked = union(next.QuestionsAsked, upd.QuestionsAsked)
	next.TopicsDiscussed = union(next.TopicsDiscussed, upd.TopicsDiscussed)
	next.CardsShown = union(next.CardsShown, upd.CardsShown)
	next.BuyingSignals = union(next.BuyingSignals, upd.BuyingSignals)

	next.LastActiveAt = now.UTC()
	return next
}

// MergeEntities folds extracted entities into ctx. Company name and industry are only taken when
// still unset; an agent count is only taken when unknown and implies existing AI when that is unknown too.
func MergeEntities(ctx *models.UserContext, e models.ExtractedEntities, now time.Time) *models.UserContext {
	upd := models.ContextUpdate{
		PainPoints:           e.PainPoints,
		UseCases:             e.UseCases,
		ComplianceFrameworks: e.ComplianceFrameworks,
	}
	if e.CompanyName != nil && isBlank(ctx.CompanyName) {
		upd.CompanyName = e.CompanyName
	}
	if e.Industry != nil && isBlank(ctx.Industry) {
		upd.Industry = e.Industry
	}
	if e.AgentCount != nil && ctx.AIAgentCount == nil {
		n := *e.AgentCount
		upd.AIAgentCount = &n
		if ctx.HasExistingAI == nil {
			has := n > 0
			upd.HasExistingAI = &has
		}
	}
	return Update(ctx, upd, now)
}

func clone(ctx *models.UserContext) *models.UserContext {
	next := *ctx
	next.PainPoints = copyStrings(ctx.PainPoints)
	next.UseCases = copyStrings(ctx.UseCases)
	next.ComplianceFrameworks = copyStrings(ctx.ComplianceFrameworks)
	next.QuestionsAsked = copyStrings(ctx.QuestionsAsked)
	next.TopicsDiscussed = copyStrings(ctx.TopicsDiscussed)
	next.CardsShown = copyStrings(ctx.CardsShown)
	next.BuyingSignals = copyStrings(ctx.BuyingSignals)
	return &next
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// union appends values from add that are not already in base, preserving order.
func union(base, add []string) []string {
	if len(add) == 0 {
		return base
	}
	seen := make(map[string]bool, len(base)+len(add))
	for _, v := range base {
		seen[v] = true
	}
	for _, v := range add {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		base = append(base, v)
	}
	return base
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

// Contains reports whether v is in set.
func Contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
