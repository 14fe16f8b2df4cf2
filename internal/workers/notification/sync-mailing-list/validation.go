// internal/workers/notification/sync-mailing-list/validation.go
package syncmailinglist

import "lead-intelligence/internal/common/validation"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"anyOf": [
		{"required": ["email"]},
		{"required": ["userInfo"], "properties": {"userInfo": {"required": ["email"]}}}
	],
	"properties": {
		"email": {"type": "string", "format": "email"},
		"name": {"type": "string", "maxLength": 200},
		"company": {"type": "string"},
		"jobTitle": {"type": "string"},
		"userInfo": {
			"type": "object",
			"properties": {
				"email": {"type": "string", "format": "email"}
			}
		},
		"leadIntelligence": {"type": "object"},
		"tags": {
			"type": "array",
			"items": {"type": "string", "minLength": 1, "maxLength": 50}
		}
	}
}`)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
