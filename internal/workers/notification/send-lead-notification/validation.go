// internal/workers/notification/send-lead-notification/validation.go
package sendleadnotification

import "lead-intelligence/internal/common/validation"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["kind"],
	"properties": {
		"kind": {"type": "string", "enum": ["sales_alert", "welcome"]},
		"notification": {
			"type": "object",
			"required": ["email", "intentScore", "priorityTier"],
			"properties": {
				"email": {"type": "string", "format": "email"},
				"intentScore": {"type": "integer", "minimum": 0, "maximum": 100},
				"priorityTier": {"type": "string", "enum": ["tier1", "tier2", "tier3"]}
			}
		},
		"welcome": {
			"type": "object",
			"required": ["email"],
			"properties": {
				"email": {"type": "string", "format": "email"},
				"name": {"type": "string"}
			}
		},
		"userInfo": {"type": "object"},
		"leadIntelligence": {"type": "object"}
	}
}`)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
