// internal/workers/lead/persist-lead-intelligence/validation.go
package persistleadintelligence

import "lead-intelligence/internal/common/validation"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["sessionId"],
	"properties": {
		"sessionId": {"type": "string", "minLength": 1, "maxLength": 100},
		"userInfo": {"type": "object"},
		"messages": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["role", "content"],
				"properties": {
					"role": {"type": "string", "enum": ["user", "assistant"]},
					"content": {"type": "string"}
				}
			}
		},
		"leadIntelligence": {
			"type": "object",
			"properties": {
				"buy_intent_score": {"type": "integer", "minimum": 0, "maximum": 100},
				"behavioral_signals": {"type": ["array", "null"]}
			}
		}
	}
}`)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
