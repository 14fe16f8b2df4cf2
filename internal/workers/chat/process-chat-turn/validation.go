// internal/workers/chat/process-chat-turn/validation.go
package processchatturn

import "lead-intelligence/internal/common/validation"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["message"],
	"properties": {
		"message": {"type": "string", "minLength": 1, "maxLength": 4000},
		"sessionId": {"type": "string", "maxLength": 100},
		"userContext": {"type": "string"},
		"conversationHistory": {
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
		"pageContext": {
			"type": "object",
			"properties": {
				"currentPage": {"type": "string"},
				"userName": {"type": "string", "maxLength": 200},
				"userEmail": {"type": "string", "maxLength": 255},
				"userCompany": {"type": "string", "maxLength": 200}
			}
		}
	}
}`)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
