// internal/workers/chat/generate-card-content/validation.go
package generatecardcontent

import "lead-intelligence/internal/common/validation"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["cardType"],
	"properties": {
		"cardType": {
			"type": "string",
			"enum": ["features", "comparison", "timeline", "roi", "casestudy", "architecture", "integration"]
		},
		"sessionId": {"type": "string"},
		"userContext": {"type": "string"}
	}
}`)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
