// internal/workers/lead/check-lead-priority/models.go
package checkleadpriority

import "lead-intelligence/internal/models"

const (
	SourceCache = "cache"
	SourceStore = "store"
	SourceNone  = "none"
)

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	UserID         string                `json:"userId"`
	Found          bool                  `json:"found"`
	PriorityTier   models.PriorityTier   `json:"priorityTier,omitempty"`
	IntentCategory models.IntentCategory `json:"intentCategory,omitempty"`
	BuyIntentScore int                   `json:"buyIntentScore"`
	Urgency        models.Urgency        `json:"urgency,omitempty"`
	ShouldNotify   bool                  `json:"shouldNotify"`
	Source         string                `json:"source"`
}
