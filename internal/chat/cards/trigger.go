// internal/chat/cards/trigger.go
package cards

import (
	"regexp"

	"lead-intelligence/internal/chat/intent"
	"lead-intelligence/internal/chat/usercontext"
	"lead-intelligence/internal/models"
)

// recentWindow is how many trailing history messages count as "recent".
const recentWindow = 6

type triggerRule struct {
	cardType   models.CardType
	confidence float64
	reason     string
	pattern    *regexp.Regexp
	intentHit  func(label intent.Label, ctx *models.UserContext, history []models.ChatMessage) bool
}

func intentIs(labels ...intent.Label) func(intent.Label, *models.UserContext, []models.ChatMessage) bool {
	return func(l intent.Label, _ *models.UserContext, _ []models.ChatMessage) bool {
		for _, want := range labels {
			if l == want {
				return true
			}
		}
		return false
	}
}

var (
	featuresPattern     = regexp.MustCompile(`(?i)\b(features?|capabilit(y|ies)|what\s+can\s+(it|you|your\s+\w+)\s+do|functionality|what\s+does\s+(it|your\s+\w+)\s+offer)\b`)
	comparisonPattern   = regexp.MustCompile(`(?i)\b(compar(e|ed|ing|ison)|vs\.?|versus|competitors?|alternatives?|different\s+from|better\s+than)\b`)
	timelinePattern     = regexp.MustCompile(`(?i)\b(timeline|how\s+long|implementation\s+time|time\s+to\s+value|get\s+started|go[\s-]live|roll\s*out)\b`)
	roiPattern          = regexp.MustCompile(`(?i)\b(roi|return\s+on\s+investment|sav(e|es|ings)|worth\s+it|business\s+case|payback|cost\s+of)\b`)
	caseStudyPattern    = regexp.MustCompile(`(?i)\b(case\s+stud(y|ies)|customers?\s+like\s+(us|me)|success\s+stor(y|ies)|who\s+(else\s+)?uses|references?)\b`)
	architecturePattern = regexp.MustCompile(`(?i)\b(architecture|how\s+does\s+(it|this)\s+work|under\s+the\s+hood|deploy(ed|ment)?|on[\s-]prem(ise|ises)?|self[\s-]hosted|infrastructure|data\s+flow)\b`)
	integrationPattern  = regexp.MustCompile(`(?i)\b(integrat(e|es|ion|ions)|api|sdk|connect\s+(to|with)|plug\s*-?\s*in|langchain|llamaindex|openai|bedrock|azure)\b`)
)

// Cascade order is significant: overlapping patterns resolve to the earliest rule.
var triggerRules = []triggerRule{
	{
		cardType:   models.CardFeatures,
		confidence: 0.85,
		reason:     "Asked about platform capabilities",
		pattern:    featuresPattern,
		intentHit:  intentIs(intent.FeatureInquiry),
	},
	{
		cardType:   models.CardComparison,
		confidence: 0.8,
		reason:     "Comparing against alternatives",
		pattern:    comparisonPattern,
		intentHit:  intentIs(intent.Comparison),
	},
	{
		cardType:   models.CardTimeline,
		confidence: 0.8,
		reason:     "Asked about implementation timeline",
		pattern:    timelinePattern,
		intentHit:  intentIs(intent.TimelineDiscussion),
	},
	{
		cardType:   models.CardROI,
		confidence: 0.8,
		reason:     "Interested in cost and return",
		pattern:    roiPattern,
		intentHit:  intentIs(intent.ROIInquiry, intent.PricingInquiry),
	},
	{
		cardType:   models.CardCaseStudy,
		confidence: 0.75,
		reason:     "Looking for proof from similar organizations",
		pattern:    caseStudyPattern,
		intentHit: func(l intent.Label, ctx *models.UserContext, _ []models.ChatMessage) bool {
			if l == intent.CaseStudyRequest {
				return true
			}
			return l == intent.DemoRequest && ctx.Industry != nil && *ctx.Industry != ""
		},
	},
	{
		cardType:   models.CardArchitecture,
		confidence: 0.8,
		reason:     "Digging into technical architecture",
		pattern:    architecturePattern,
		intentHit: func(l intent.Label, _ *models.UserContext, history []models.ChatMessage) bool {
			return l == intent.TechnicalQuestion && recentTechnicalMessage(history)
		},
	},
	{
		cardType:   models.CardIntegration,
		confidence: 0.78,
		reason:     "Asked how it fits the existing stack",
		pattern:    integrationPattern,
		intentHit:  intentIs(intent.IntegrationQuestion),
	},
}

// DetectTrigger walks the cascade and returns the first rule that matches the message or the
// current intent, skipping card types already shown this session. It returns nil when no rule fires.
func DetectTrigger(message string, ctx *models.UserContext, history []models.ChatMessage) *models.CardTrigger {
	label := intent.Label(ctx.CurrentIntent)
	for _, r := range triggerRules {
		if usercontext.Contains(ctx.CardsShown, string(r.cardType)) {
			continue
		}
		if !r.pattern.MatchString(message) && !r.intentHit(label, ctx, history) {
			continue
		}
		return &models.CardTrigger{
			CardType:       r.cardType,
			Confidence:     r.confidence,
			Reason:         r.reason,
			Customizations: seedCustomizations(r.cardType, ctx),
		}
	}
	return nil
}

func seedCustomizations(cardType models.CardType, ctx *models.UserContext) models.CardCustomization {
	var seed models.CardCustomization
	if ctx.Industry != nil {
		seed.Industry = *ctx.Industry
	}
	if cardType == models.CardComparison {
		for _, p := range ctx.PainPoints {
			if tag, ok := painFeatureTags[p]; ok {
				seed.HighlightedFeatures = append(seed.HighlightedFeatures, tag)
			}
		}
	}
	return seed
}

func recentTechnicalMessage(history []models.ChatMessage) bool {
	start := len(history) - recentWindow
	if start < 0 {
		start = 0
	}
	for _, m := range history[start:] {
		if m.Role == models.RoleUser && architecturePattern.MatchString(m.Content) {
			return true
		}
	}
	return false
}
