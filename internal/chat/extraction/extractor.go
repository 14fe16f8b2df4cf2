// internal/chat/extraction/extractor.go
package extraction

import (
	"strconv"
	"strings"

	"lead-intelligence/internal/models"
)

// ExtractEntities scans a single message against the pattern tables. Categories with no match
// are left empty so callers can tell "not mentioned" apart from a real value.
func ExtractEntities(message string) models.ExtractedEntities {
	var out models.ExtractedEntities
	if strings.TrimSpace(message) == "" {
		return out
	}

	if industry, ok := firstMatch(industryPatterns, message); ok {
		out.Industry = &industry
	}
	out.ComplianceFrameworks = allMatches(compliancePatterns, message)
	out.PainPoints = allMatches(painPointPatterns, message)
	out.UseCases = allMatches(useCasePatterns, message)

	if n, ok := ExtractAgentCount(message); ok {
		out.AgentCount = &n
	}
	if name, ok := ExtractCompanyName(message); ok {
		out.CompanyName = &name
	}
	return out
}

// ExtractAgentCount returns the integer in the first "<n> agents/workflows/bots" mention.
func ExtractAgentCount(message string) (int, bool) {
	m := agentCountPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractCompanyName returns the capitalized phrase after a connector such as "work at" or "I'm with".
func ExtractCompanyName(message string) (string, bool) {
	for _, m := range companyNamePattern.FindAllStringSubmatch(message, -1) {
		words := strings.Fields(m[1])
		for len(words) > 0 && companyStopWords[words[0]] {
			words = words[1:]
		}
		name := strings.TrimRight(strings.Join(untilSentenceEnd(words), " "), ".,;:!?'-")
		if name == "" {
			continue
		}
		return name, true
	}
	return "", false
}

// ExtractEmail returns the first email address in the message, lowercased.
func ExtractEmail(message string) (string, bool) {
	e := emailPattern.FindString(message)
	if e == "" {
		return "", false
	}
	return strings.ToLower(e), true
}

func untilSentenceEnd(words []string) []string {
	for i, w := range words {
		if strings.ContainsAny(w[len(w)-1:], ".,;:!?") {
			return words[:i+1]
		}
	}
	return words
}

func firstMatch(table []pattern, message string) (string, bool) {
	for _, p := range table {
		if matchesAny(p, message) {
			return p.value, true
		}
	}
	return "", false
}

func allMatches(table []pattern, message string) []string {
	var out []string
	for _, p := range table {
		if matchesAny(p, message) {
			out = append(out, p.value)
		}
	}
	return out
}

func matchesAny(p pattern, message string) bool {
	for _, re := range p.exprs {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}
