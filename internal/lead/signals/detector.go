// internal/lead/signals/detector.go
package signals

import (
	"regexp"
	"strings"
	"time"

	"lead-intelligence/internal/models"
)

type signalRule struct {
	signalType models.SignalType
	confidence float64
	exprs      []*regexp.Regexp
}

func rx(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile("(?i)" + e)
	}
	return out
}

// Sales-qualification table. Kept separate from the conversational intent rules: a false
// positive here inflates a lead score, so the expressions are narrower.
var signalRules = []signalRule{
	{models.SignalDemoRequest, 0.9, rx(`\b(demo|demonstration)\b`, `\bfree\s+trial\b`, `\btalk\s+to\s+(sales|someone)\b`, `\b(book|schedule)\s+a\s+(call|meeting)\b`)},
	{models.SignalPricingInterest, 0.8, rx(`\bpric(e|es|ing)\b`, `\bhow\s+much\b`, `\bcost(s)?\b`, `\bquote\b`, `\bbudget\b`, `\bper\s+(seat|agent|user)\b`)},
	{models.SignalTimelineMention, 0.75, rx(`\b(this|next)\s+(week|month|quarter|year)\b`, `\bq[1-4]\b`, `\bby\s+(end\s+of|january|february|march|april|may|june|july|august|september|october|november|december)\b`, `\basap\b`, `\bdeadline\b`, `\bgo[\s-]live\b`, `\btimeline\b`)},
	{models.SignalCompetitorMention, 0.7, rx(`\bcompetitors?\b`, `\balternatives?\b`, `\bcompared\s+to\b`, `\bvs\.?\b`, `\bversus\b`, `\b(credo|holistic\s+ai|arthur|fiddler|lakera|protect\s+ai|robust\s+intelligence)\b`)},
	{models.SignalComplianceMention, 0.8, rx(`\bcomplian(t|ce)\b`, `\bhipaa\b`, `\bgdpr\b`, `\bsoc\s*-?\s*2\b`, `\bpci\b`, `\biso\s*-?\s*27001\b`, `\bfedramp\b`, `\bsox\b`, `\bai\s+act\b`, `\bregulat(ion|ory|ions|or|ors)\b`)},
	{models.SignalPainPoint, 0.7, rx(`\bstruggl\w*`, `\bproblems?\b`, `\bchalleng(e|es|ing)\b`, `\bpain(ful)?\b`, `\bfrustrat\w*`, `\bworr(y|ied)\b`, `\bconcern(s|ed)?\b`, `\bcan'?t\s+(see|track|control)\b`)},
	{models.SignalIntegrationQuestion, 0.7, rx(`\bintegrat(e|es|ion|ions)\b`, `\bapi\b`, `\bsdk\b`, `\bconnect\s+(to|with)\b`, `\bworks?\s+with\b`)},
	{models.SignalFeatureInterest, 0.6, rx(`\bfeatures?\b`, `\bcapabilit(y|ies)\b`, `\bdoes\s+it\s+support\b`, `\bis\s+there\s+a\s+way\s+to\b`, `\bfunctionality\b`)},
}

// Detect returns at most one signal per type for the message.
func Detect(message string) []models.BehavioralSignal {
	return DetectAt(message, time.Now().UTC())
}

// DetectAt is Detect with a caller-supplied timestamp.
func DetectAt(message string, at time.Time) []models.BehavioralSignal {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil
	}

	var out []models.BehavioralSignal
	for _, r := range signalRules {
		for _, re := range r.exprs {
			if re.MatchString(trimmed) {
				out = append(out, models.BehavioralSignal{
					Type:       r.signalType,
					Content:    snippet(trimmed),
					Confidence: r.confidence,
					Timestamp:  at,
				})
				break
			}
		}
	}
	return out
}

// DetectAll runs Detect over every message in order.
func DetectAll(messages []string, at time.Time) []models.BehavioralSignal {
	var out []models.BehavioralSignal
	for _, m := range messages {
		out = append(out, DetectAt(m, at)...)
	}
	return out
}

// Types returns the distinct signal types in first-seen order.
func Types(signals []models.BehavioralSignal) []string {
	seen := make(map[models.SignalType]bool, len(signals))
	var out []string
	for _, s := range signals {
		if seen[s.Type] {
			continue
		}
		seen[s.Type] = true
		out = append(out, string(s.Type))
	}
	return out
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) <= models.MaxSignalContentLength {
		return s
	}
	return string(r[:models.MaxSignalContentLength])
}
