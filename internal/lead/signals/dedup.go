// internal/lead/signals/dedup.go
package signals

import (
	"strings"

	"lead-intelligence/internal/models"
)

const dedupPrefixLength = 50

// DedupKey is the signal type plus the lowercased, whitespace-normalised first 50 characters of content.
func DedupKey(s models.BehavioralSignal) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(s.Content)), " ")
	r := []rune(normalized)
	if len(r) > dedupPrefixLength {
		r = r[:dedupPrefixLength]
	}
	return string(s.Type) + ":" + string(r)
}

// Deduplicate collapses signals sharing a DedupKey, keeping the higher-confidence one. A strictly
// higher-confidence duplicate replaces the survivor and moves to its own, later position so that
// CapRecent treats it as recent. Ties keep the first occurrence where it stands.
func Deduplicate(in []models.BehavioralSignal) []models.BehavioralSignal {
	if len(in) == 0 {
		return []models.BehavioralSignal{}
	}
	index := make(map[string]int, len(in))
	slots := make([]*models.BehavioralSignal, 0, len(in))
	for i := range in {
		s := in[i]
		key := DedupKey(s)
		if j, ok := index[key]; ok {
			if s.Confidence <= slots[j].Confidence {
				continue
			}
			slots[j] = nil
		}
		index[key] = len(slots)
		slots = append(slots, &s)
	}
	out := make([]models.BehavioralSignal, 0, len(index))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// CapRecent keeps the last n signals.
func CapRecent(in []models.BehavioralSignal, n int) []models.BehavioralSignal {
	if len(in) <= n {
		return in
	}
	return in[len(in)-n:]
}
