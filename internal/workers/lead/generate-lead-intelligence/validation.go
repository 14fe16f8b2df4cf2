// internal/workers/lead/generate-lead-intelligence/validation.go
package generateleadintelligence

import "lead-intelligence/internal/common/validation"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["messages"],
	"properties": {
		"userId": {"type": "string"},
		"messages": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["role", "content"],
				"properties": {
					"role": {"type": "string", "enum": ["user", "assistant"]},
					"content": {"type": "string"}
				}
			}
		},
		"userInfo": {
			"type": "object",
			"properties": {
				"email": {"type": "string"},
				"name": {"type": "string"},
				"company": {"type": "string"},
				"jobTitle": {"type": "string"}
			}
		},
		"existingSignals": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["type", "confidence"],
				"properties": {
					"type": {"type": "string"},
					"content": {"type": "string"},
					"confidence": {"type": "number", "minimum": 0, "maximum": 1}
				}
			}
		}
	}
}`)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
