// internal/lead/scoring/scorer.go
package scoring

import (
	"math"
	"strings"
	"time"

	"lead-intelligence/internal/lead/signals"
	"lead-intelligence/internal/models"
)

// Signal weights. Types not listed score zero but still count toward diversity.
var signalWeights = map[models.SignalType]float64{
	models.SignalDemoRequest:         40,
	models.SignalTimelineMention:     30,
	models.SignalPricingInterest:     25,
	models.SignalCompetitorMention:   20,
	models.SignalComplianceMention:   20,
	models.SignalPainPoint:           15,
	models.SignalIntegrationQuestion: 15,
	models.SignalFeatureInterest:     10,
}

const (
	diversityBonusMin   = 10
	diversityBonusMax   = 15
	diversityTypesMin   = 3
	diversityTypesMax   = 5
	hotThreshold        = 60
	warmThreshold       = 30
	qualifiedEnterprise = 50
	qualifiedAny        = 60
	nurtureThreshold    = 30
	unqualifiedBelow    = 20
)

// Scorer produces lead intelligence from conversation text. The zero value is usable.
type Scorer struct {
	Now func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{Now: func() time.Time { return time.Now().UTC() }}
}

// Generate scores every message, merges with existing signals and derives the full lead profile.
func (s *Scorer) Generate(userID string, messages []string, info models.UserInfo, existing []models.BehavioralSignal) *models.LeadIntelligence {
	now := time.Now().UTC()
	if s != nil && s.Now != nil {
		now = s.Now()
	}

	detected := signals.DetectAll(messages, now)
	all := make([]models.BehavioralSignal, 0, len(existing)+len(detected))
	all = append(all, existing...)
	all = append(all, detected...)
	deduped := signals.Deduplicate(all)

	score := Score(deduped)
	text := strings.ToLower(strings.Join(messages, " "))
	size := InferCompanySize(text)
	industry := DetectIndustry(text)
	compliance := DetectCompliance(text)

	li := &models.LeadIntelligence{
		UserID:              userID,
		BuyIntentScore:      score,
		IntentCategory:      Category(score),
		Urgency:             InferUrgency(text, deduped),
		CompanySize:         size,
		QualificationStatus: Qualify(score, info, size),
		BehavioralSignals:   deduped,
		UserResearch: &models.UserResearch{
			RoleSeniority: InferSeniority(info.JobTitle, text),
			JobTitle:      info.JobTitle,
		},
		UpdatedAt: now,
	}
	if industry != "" || len(compliance) > 0 || size != models.CompanySizeUnknown {
		li.CompanyResearch = &models.CompanyResearch{
			Industry:               industry,
			ComplianceRequirements: compliance,
			CompanySize:            size,
		}
	}
	li.PriorityTier = PriorityTier(li)
	return li
}

// Score sums weight times the best confidence for each distinct signal type, adds a diversity
// bonus, clamps to 0..100 and rounds.
func Score(sigs []models.BehavioralSignal) int {
	best := make(map[models.SignalType]float64)
	var order []models.SignalType
	for _, s := range sigs {
		prev, ok := best[s.Type]
		if !ok {
			order = append(order, s.Type)
		}
		if !ok || s.Confidence > prev {
			best[s.Type] = s.Confidence
		}
	}

	total := 0.0
	for _, t := range order {
		total += signalWeights[t] * best[t]
	}

	switch n := len(best); {
	case n >= diversityTypesMax:
		total += diversityBonusMax
	case n >= diversityTypesMin:
		total += diversityBonusMin
	}

	return int(math.Round(math.Max(0, math.Min(100, total))))
}

func Category(score int) models.IntentCategory {
	switch {
	case score >= hotThreshold:
		return models.IntentCategoryHot
	case score >= warmThreshold:
		return models.IntentCategoryWarm
	default:
		return models.IntentCategoryCold
	}
}

// Qualify applies the rules in order; the first that holds wins.
func Qualify(score int, info models.UserInfo, size models.CompanySize) models.QualificationStatus {
	hasEmail := info.Email != ""
	switch {
	case score >= qualifiedEnterprise && hasEmail && size == models.CompanySizeEnterprise:
		return models.QualificationQualified
	case score >= qualifiedAny && hasEmail:
		return models.QualificationQualified
	case score >= nurtureThreshold && (hasEmail || info.Company != ""):
		return models.QualificationNurture
	case score < unqualifiedBelow && !info.HasAnyContact():
		return models.QualificationUnqualified
	default:
		return models.QualificationNew
	}
}

// PriorityTier buckets a lead for sales routing.
func PriorityTier(li *models.LeadIntelligence) models.PriorityTier {
	score := li.BuyIntentScore
	switch {
	case score >= 70,
		li.CompanySize == models.CompanySizeEnterprise && score >= 50,
		li.Urgency == models.UrgencyImmediate,
		li.QualificationStatus == models.QualificationQualified:
		return models.PriorityTier1
	case score >= 40,
		li.CompanySize == models.CompanySizeMidMarket,
		li.Urgency == models.UrgencyHigh,
		li.QualificationStatus == models.QualificationNurture:
		return models.PriorityTier2
	default:
		return models.PriorityTier3
	}
}
