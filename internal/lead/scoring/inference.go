// internal/lead/scoring/inference.go
package scoring

import (
	"regexp"
	"strings"

	"lead-intelligence/internal/models"
)

var (
	immediateKeywords = []string{"asap", "as soon as possible", "urgent", "urgently", "immediately", "today", "right away", "this week", "emergency"}
	highKeywords      = []string{"soon", "next week", "this month", "quickly", "shortly"}
	mediumKeywords    = []string{"quarter", "q1", "q2", "q3", "q4", "planning", "next month", "this year", "roadmap", "evaluating"}
)

// InferUrgency checks immediate keywords first, then high, then medium.
func InferUrgency(text string, sigs []models.BehavioralSignal) models.Urgency {
	text = strings.ToLower(text)
	if containsAnyWord(text, immediateKeywords) {
		return models.UrgencyImmediate
	}
	if hasSignal(sigs, models.SignalDemoRequest) || containsAnyWord(text, highKeywords) {
		return models.UrgencyHigh
	}
	if hasSignal(sigs, models.SignalTimelineMention) || containsAnyWord(text, mediumKeywords) {
		return models.UrgencyMedium
	}
	return models.UrgencyLow
}

type sizeRule struct {
	size    models.CompanySize
	pattern *regexp.Regexp
}

var sizeRules = []sizeRule{
	{models.CompanySizeEnterprise, regexp.MustCompile(`(?i)\b(enterprise|fortune\s*(500|1000)|global\s+(company|organization|bank)|multinational|(\d{1,3},)?\d{2,3},\d{3}\s+employees|\d{1,3}k\+?\s+employees|thousands\s+of\s+employees|(5|10|20|50)[,.]?000\+?\s+(employees|people|staff))\b`)},
	{models.CompanySizeMidMarket, regexp.MustCompile(`(?i)\b(mid[\s-]?(market|size|sized)|([1-4],?\d{3}|[5-9]\d{2})\s+(employees|people|staff)|regional\s+(bank|insurer|hospital|company))\b`)},
	{models.CompanySizeStartup, regexp.MustCompile(`(?i)\b(start[\s-]?up|seed\s+stage|series\s+[ab]|founders?|pre[\s-]revenue|(\d|[1-4]\d)\s+(employees|people|person\s+team))\b`)},
	{models.CompanySizeSMB, regexp.MustCompile(`(?i)\b(small\s+business|smb|small\s+(company|team|firm)|([5-9]\d|[1-4]\d{2})\s+(employees|people|staff))\b`)},
}

func InferCompanySize(text string) models.CompanySize {
	for _, r := range sizeRules {
		if r.pattern.MatchString(text) {
			return r.size
		}
	}
	return models.CompanySizeUnknown
}

type seniorityRule struct {
	level   models.RoleSeniority
	pattern *regexp.Regexp
}

var seniorityRules = []seniorityRule{
	{models.SeniorityCLevel, regexp.MustCompile(`(?i)\b(ceo|cto|cio|ciso|cfo|coo|cdo|caio|chief\s+\w+(\s+\w+)?\s+officer|founder|co-?founder|president)\b`)},
	{models.SeniorityVP, regexp.MustCompile(`(?i)\b(vp|svp|evp|vice\s+president|head\s+of)\b`)},
	{models.SeniorityDirector, regexp.MustCompile(`(?i)\bdirector\b`)},
	{models.SeniorityManager, regexp.MustCompile(`(?i)\b(manager|lead|team\s+lead|supervisor)\b`)},
	{models.SeniorityIndividual, regexp.MustCompile(`(?i)\b(engineer|developer|analyst|scientist|architect|specialist|consultant|associate)\b`)},
}

// InferSeniority prefers the job title and falls back to self-descriptions in the conversation.
func InferSeniority(jobTitle, text string) models.RoleSeniority {
	if jobTitle != "" {
		if level := matchSeniority(jobTitle); level != models.SeniorityUnknown {
			return level
		}
	}
	for _, phrase := range selfDescriptions.FindAllStringSubmatch(text, -1) {
		if level := matchSeniority(phrase[1]); level != models.SeniorityUnknown {
			return level
		}
	}
	return models.SeniorityUnknown
}

var selfDescriptions = regexp.MustCompile(`(?i)\bi(?:'m| am)\s+(?:the|a|an)?\s*([\w\s-]{2,40}?)(?:\s+(?:at|of|for|in|here)\b|[.,!?]|$)`)

func matchSeniority(s string) models.RoleSeniority {
	for _, r := range seniorityRules {
		if r.pattern.MatchString(s) {
			return r.level
		}
	}
	return models.SeniorityUnknown
}

func hasSignal(sigs []models.BehavioralSignal, t models.SignalType) bool {
	for _, s := range sigs {
		if s.Type == t {
			return true
		}
	}
	return false
}

// containsAnyWord matches keywords at word boundaries so "q1" does not hit inside "aq10".
func containsAnyWord(text string, keywords []string) bool {
	for _, k := range keywords {
		idx := 0
		for {
			i := strings.Index(text[idx:], k)
			if i < 0 {
				break
			}
			start, end := idx+i, idx+i+len(k)
			if boundary(text, start-1) && boundary(text, end) {
				return true
			}
			idx = start + 1
		}
	}
	return false
}

func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := text[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_')
}
